package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lenditapp/lendit-backend/internal/gateway"
	"github.com/lenditapp/lendit-backend/pkg/config"
	"github.com/lenditapp/lendit-backend/pkg/logger"
	"github.com/lenditapp/lendit-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// Rate limiting is optional; without redis the gateway still validates
	// and forwards.
	var limiterStore *redis.Client
	if cfg.Redis.Enabled() {
		limiterStore, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := limiterStore.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	proxy, err := gateway.NewProxy(cfg.Gateway.ServerURL, cfg.Gateway.ForwardTimeout, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create proxy", err)
		os.Exit(1)
	}

	addr := ":" + cfg.Gateway.Port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"target": cfg.Gateway.ServerURL,
	})
	logg.Info(ctx, "starting gateway")

	var handler http.Handler
	if limiterStore != nil {
		handler = gateway.NewRouter(cfg, logg, proxy, limiterStore)
	} else {
		handler = gateway.NewRouter(cfg, logg, proxy, nil)
	}

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	}
}
