package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Version is stamped at build time with -ldflags "-X Plinth/internal/config.Version=...".
var Version = "dev"

// Config is the server configuration, read from .env and the environment.
type Config struct {
	Addr    string
	TLSCert string
	TLSKey  string
	Env     string

	DatabaseURL string
	TokenKey    string

	CORSOrigin    string
	RateLimit     float64
	RateBurst     int
	MaxBodyBytes  int64
	MaxUpload     int64
	DesignTimeout time.Duration
	BatchWorkers  int
}

// Load reads the .env file when present and applies defaults for unset variables.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		Addr:          GetEnv("ADDR", ":8080"),
		TLSCert:       GetEnv("TLS_CERT", ""),
		TLSKey:        GetEnv("TLS_KEY", ""),
		Env:           GetEnv("APP_ENV", "development"),
		DatabaseURL:   GetEnv("DATABASE_URL", ""),
		TokenKey:      GetEnv("TOKEN_KEY", ""),
		CORSOrigin:    GetEnv("CORS_ORIGIN", "*"),
		RateLimit:     GetEnvFloat("RATE_LIMIT", 5),
		RateBurst:     GetEnvInt("RATE_BURST", 10),
		MaxBodyBytes:  int64(GetEnvInt("MAX_BODY_BYTES", 64<<10)),
		MaxUpload:     int64(GetEnvInt("MAX_UPLOAD_BYTES", 5<<20)),
		DesignTimeout: GetEnvDuration("DESIGN_TIMEOUT", 10*time.Second),
		BatchWorkers:  GetEnvInt("BATCH_WORKERS", 4),
	}
	if cfg.DatabaseURL != "" && cfg.TokenKey == "" {
		return Config{}, fmt.Errorf("TOKEN_KEY environment variable is not set")
	}
	if cfg.BatchWorkers < 1 {
		cfg.BatchWorkers = 1
	}
	return cfg, nil
}

func (c Config) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

func (c Config) Development() bool { return c.Env == "development" }

// Accounts reports whether the database-backed user API is enabled.
func (c Config) Accounts() bool { return c.DatabaseURL != "" }

func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func GetEnvFloat(key string, defaultVal float64) float64 {
	if val, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func GetEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}
