package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Port              int    `envconfig:"PORT" default:"8080"`
		BaseURL           string `envconfig:"BASE_URL" default:"http://localhost:8080"`
		AllowRegistration bool   `envconfig:"ALLOW_REGISTRATION" default:"false"`
		CORSOrigin        string `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`
	}

	DB struct {
		DSN string `envconfig:"DB_DSN"`
	}

	Auth struct {
		JWTSecret     string `envconfig:"JWT_SECRET"`
		ServiceAPIKey string `envconfig:"SERVICE_API_KEY"`
	}

	Redis struct {
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
		DB       int    `envconfig:"REDIS_DB" default:"0"`
	}

	Meilisearch struct {
		URL   string `envconfig:"MEILISEARCH_URL"`
		Key   string `envconfig:"MEILISEARCH_KEY"`
		Index string `envconfig:"MEILISEARCH_INDEX" default:"shop_stock"`
	}

	AI struct {
		GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	}

	Worker struct {
		Size  int `envconfig:"WORKER_SIZE" default:"4"`
		Queue int `envconfig:"WORKER_QUEUE" default:"64"`
	}

	Cache struct {
		ReportTTL time.Duration `envconfig:"REPORT_CACHE_TTL" default:"1h"`
		StockTTL  time.Duration `envconfig:"STOCK_CACHE_TTL" default:"2h"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &cfg, nil
}
