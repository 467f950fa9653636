package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/diary/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   listen address (":5000")
//	-d string   Postgres DSN
//	-s string   token signing secret
//	-t int      token validity, minutes
//	-l string   log level
//
// Unrelated arguments are filtered out first so other parsers can share
// the same argument list.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddress, "a", cfg.HTTPAddress, "address and port to listen on")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "token signing secret")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	ttl := fs.Int("t", int(cfg.TokenValidity.Minutes()), "token validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.TokenValidity = time.Duration(*ttl) * time.Minute
		}
	})
	return nil
}
