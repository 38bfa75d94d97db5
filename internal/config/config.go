package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string        // ARCHSCORE_HTTP_ADDR (default ":8080")
	GRPCAddr    string        // ARCHSCORE_GRPC_ADDR (default ":9090"; empty = disabled)
	Library     string        // ARCHSCORE_LIBRARY (default "builtin")
	S3Region    string        // ARCHSCORE_S3_REGION (default "us-east-1")
	S3Endpoint  string        // ARCHSCORE_S3_ENDPOINT (custom endpoint for MinIO)
	NATSURL     string        // ARCHSCORE_NATS_URL (optional, empty = no events)
	AuthToken   string        // ARCHSCORE_AUTH_TOKEN (optional, empty = auth disabled)
	LoadTimeout time.Duration // ARCHSCORE_LOAD_TIMEOUT (default 30s)
	LogLevel    slog.Level    // ARCHSCORE_LOG_LEVEL (default "info")
}

// LoadDotenv loads variables from a .env file without overriding ones already
// set. A missing file is not an error.
func LoadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() (*Config, error) {
	c := &Config{
		HTTPAddr:   envOrDefault("ARCHSCORE_HTTP_ADDR", ":8080"),
		GRPCAddr:   envOrDefault("ARCHSCORE_GRPC_ADDR", ":9090"),
		Library:    envOrDefault("ARCHSCORE_LIBRARY", "builtin"),
		S3Region:   envOrDefault("ARCHSCORE_S3_REGION", "us-east-1"),
		S3Endpoint: os.Getenv("ARCHSCORE_S3_ENDPOINT"),
		NATSURL:    os.Getenv("ARCHSCORE_NATS_URL"),
		AuthToken:  os.Getenv("ARCHSCORE_AUTH_TOKEN"),
	}
	if v, ok := os.LookupEnv("ARCHSCORE_GRPC_ADDR"); ok && v == "off" {
		c.GRPCAddr = ""
	}

	d, err := time.ParseDuration(envOrDefault("ARCHSCORE_LOAD_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("ARCHSCORE_LOAD_TIMEOUT: %w", err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("ARCHSCORE_LOAD_TIMEOUT must be positive, got %s", d)
	}
	c.LoadTimeout = d

	if err := c.LogLevel.UnmarshalText([]byte(strings.ToUpper(envOrDefault("ARCHSCORE_LOG_LEVEL", "info")))); err != nil {
		return nil, fmt.Errorf("ARCHSCORE_LOG_LEVEL: %w", err)
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
