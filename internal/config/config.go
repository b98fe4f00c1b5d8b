package config

import (
	"errors"
	"os"
	"strings"
)

type Config struct {
	DBDSN    string
	HTTPAddr string
	LogLevel string
	RedisDSN string // empty disables redis (profile cache + sliding-window limiter)

	// raw secret kept in-memory only; never log this
	JWTSecret string

	CORSOrigins []string

	// object storage for uploaded avatars; empty bucket selects the local simulator
	S3Endpoint  string
	S3Bucket    string
	S3Region    string
	S3PublicURL string
}

func Load() (Config, error) {
	cfg := Config{
		DBDSN:       os.Getenv("DB_DSN"),
		HTTPAddr:    getenvDefault("HTTP_ADDR", ":8080"),
		LogLevel:    getenvDefault("LOG_LEVEL", "info"),
		RedisDSN:    os.Getenv("REDIS_DSN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		S3Endpoint:  getenvDefault("S3_ENDPOINT", ""),
		S3Bucket:    getenvDefault("S3_BUCKET", ""),
		S3Region:    getenvDefault("S3_REGION", "auto"),
		S3PublicURL: getenvDefault("S3_PUBLIC_URL", ""),
	}

	if cfg.DBDSN == "" {
		return Config{}, errors.New("missing DB_DSN")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("missing JWT_SECRET")
	}

	// parse CORS origins
	corsOrigins := getenvDefault("CORS_ORIGINS", "")
	if corsOrigins != "" {
		cfg.CORSOrigins = strings.Split(corsOrigins, ",")
		for i := range cfg.CORSOrigins {
			cfg.CORSOrigins[i] = strings.TrimSpace(cfg.CORSOrigins[i])
		}
	} else {
		cfg.CORSOrigins = []string{"http://localhost:3000"} // default
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
