package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/lenditapp/lendit-backend/api/routes"
	"github.com/lenditapp/lendit-backend/internal/bookings"
	"github.com/lenditapp/lendit-backend/internal/items"
	"github.com/lenditapp/lendit-backend/internal/requests"
	"github.com/lenditapp/lendit-backend/internal/users"
	"github.com/lenditapp/lendit-backend/pkg/config"
	"github.com/lenditapp/lendit-backend/pkg/db"
	"github.com/lenditapp/lendit-backend/pkg/logger"
	"github.com/lenditapp/lendit-backend/pkg/metrics"
	"github.com/lenditapp/lendit-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	itemRepo := items.NewRepository(dbClient.DB())
	commentRepo := items.NewCommentRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())
	requestRepo := requests.NewRepository(dbClient.DB())

	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}
	itemService, err := items.NewService(itemRepo, commentRepo, userRepo, requestRepo, bookingRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create item service", err)
		os.Exit(1)
	}
	bookingService, err := bookings.NewService(bookingRepo, itemRepo, userRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create booking service", err)
		os.Exit(1)
	}
	requestService, err := requests.NewService(requestRepo, itemRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create request service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics("api")

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, httpMetrics, userService, itemService, bookingService, requestService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
