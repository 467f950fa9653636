package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/diary/internal/admin"
	"github.com/dmitrijs2005/diary/internal/flagx"
	"github.com/dmitrijs2005/diary/internal/server/auth"
	"github.com/dmitrijs2005/diary/internal/server/config"
	"github.com/dmitrijs2005/diary/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/diary/internal/server/services"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repomanager.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	users := services.NewUserService(db, rm,
		auth.NewPasswordHasher(cfg.BcryptCost),
		auth.NewTokenIssuer(cfg.SecretKey, cfg.TokenValidity))

	migrate := func(ctx context.Context) error { return rm.RunMigrations(ctx, db) }

	args := flagx.Positional(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-c", "-config"})
	if err := admin.New(users, migrate, os.Stdin, os.Stdout).Run(ctx, args); err != nil {
		if errors.Is(err, admin.ErrUsage) {
			return 2
		}
		log.Printf("%v", err)
		return 1
	}
	return 0
}
