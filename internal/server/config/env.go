package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads dotenv (if the file exists) into the process environment
// without overriding variables already set, then copies recognised
// variables into cfg:
//
//	PORT                  listen port, becomes ":PORT"
//	HTTP_ADDRESS          full listen address, wins over PORT
//	DATABASE_DSN          Postgres DSN (DATABASE_URL accepted as fallback)
//	JWT_SECRET            token signing secret
//	TOKEN_TTL             token lifetime, Go duration
//	BCRYPT_COST           bcrypt work factor
//	LOG_LEVEL             debug|info|warn|error
//	CORS_ALLOWED_ORIGINS  comma separated origins
//	SHUTDOWN_TIMEOUT      graceful shutdown budget, Go duration
func parseEnv(cfg *Config, dotenv string) error {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	if v, ok := lookup("PORT"); ok {
		cfg.HTTPAddress = ":" + v
	}
	if v, ok := lookup("HTTP_ADDRESS"); ok {
		cfg.HTTPAddress = v
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookup("DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookup("JWT_SECRET"); ok {
		cfg.SecretKey = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("CORS_ALLOWED_ORIGINS"); ok {
		cfg.CORSAllowedOrigins = splitList(v)
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = n
	}
	if err := durationEnv("TOKEN_TTL", &cfg.TokenValidity); err != nil {
		return err
	}
	return durationEnv("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func durationEnv(key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
