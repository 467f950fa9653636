package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/diary/internal/flagx"
	"github.com/dmitrijs2005/diary/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "24h" style
// strings or integer nanoseconds. Only keys present in the file override
// earlier layers.
type JsonConfig struct {
	HTTPAddress        *string         `json:"http_address"`
	DatabaseDSN        *string         `json:"database_dsn"`
	SecretKey          *string         `json:"secret_key"`
	TokenValidity      *timex.Duration `json:"token_validity"`
	BcryptCost         *int            `json:"bcrypt_cost"`
	LogLevel           *string         `json:"log_level"`
	CORSAllowedOrigins []string        `json:"cors_allowed_origins"`
	ReadTimeout        *timex.Duration `json:"read_timeout"`
	WriteTimeout       *timex.Duration `json:"write_timeout"`
	IdleTimeout        *timex.Duration `json:"idle_timeout"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	ShutdownTimeout    *timex.Duration `json:"shutdown_timeout"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var c JsonConfig
	if err := json.Unmarshal(raw, &c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.HTTPAddress, c.HTTPAddress)
	setString(&cfg.DatabaseDSN, c.DatabaseDSN)
	setString(&cfg.SecretKey, c.SecretKey)
	setString(&cfg.LogLevel, c.LogLevel)
	if c.BcryptCost != nil {
		cfg.BcryptCost = *c.BcryptCost
	}
	if len(c.CORSAllowedOrigins) > 0 {
		cfg.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	setDuration(&cfg.TokenValidity, c.TokenValidity)
	setDuration(&cfg.ReadTimeout, c.ReadTimeout)
	setDuration(&cfg.WriteTimeout, c.WriteTimeout)
	setDuration(&cfg.IdleTimeout, c.IdleTimeout)
	setDuration(&cfg.RequestTimeout, c.RequestTimeout)
	setDuration(&cfg.ShutdownTimeout, c.ShutdownTimeout)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
