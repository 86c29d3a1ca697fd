package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Gateway      GatewayConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LENDIT_APP_ENV" required:"true"`
	Port         string `envconfig:"LENDIT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LENDIT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LENDIT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LENDIT_DB_DSN"`
	Driver string `envconfig:"LENDIT_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LENDIT_DB_HOST"`
	LegacyPort     int    `envconfig:"LENDIT_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LENDIT_DB_USER"`
	LegacyPassword string `envconfig:"LENDIT_DB_PASSWORD"`
	LegacyName     string `envconfig:"LENDIT_DB_NAME"`
	LegacySSLMode  string `envconfig:"LENDIT_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LENDIT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LENDIT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LENDIT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LENDIT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the sqlite dialector should be used. It exists for
// local development and repository test doubles, never production.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, "sqlite")
}

type RedisConfig struct {
	URL          string        `envconfig:"LENDIT_REDIS_URL"`
	Address      string        `envconfig:"LENDIT_REDIS_ADDR"`
	Password     string        `envconfig:"LENDIT_REDIS_PASSWORD"`
	DB           int           `envconfig:"LENDIT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LENDIT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LENDIT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LENDIT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LENDIT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LENDIT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all. The gateway
// limiter degrades to a no-op without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type GatewayConfig struct {
	Port            string        `envconfig:"LENDIT_GATEWAY_PORT" default:"8080"`
	ServerURL       string        `envconfig:"LENDIT_GATEWAY_SERVER_URL" default:"http://localhost:9090"`
	ForwardTimeout  time.Duration `envconfig:"LENDIT_GATEWAY_FORWARD_TIMEOUT" default:"30s"`
	RateLimitWindow time.Duration `envconfig:"LENDIT_GATEWAY_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitIP     int           `envconfig:"LENDIT_GATEWAY_RATE_LIMIT_IP" default:"120"`
	RateLimitUser   int           `envconfig:"LENDIT_GATEWAY_RATE_LIMIT_USER" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LENDIT_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file::memory:?cache=shared"
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
