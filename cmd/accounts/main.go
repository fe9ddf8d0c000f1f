package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/b2b-portal/internal/accounts"
	"github.com/angelmondragon/b2b-portal/pkg/config"
	"github.com/angelmondragon/b2b-portal/pkg/db"
	"github.com/angelmondragon/b2b-portal/pkg/logger"
)

// accounts provisions portal logins; customers themselves live in the commerce backend.
func main() {
	logg := logger.New(logger.Options{ServiceName: "accounts"})
	_ = godotenv.Load()

	email := flag.String("email", "", "customer email (must match the commerce backend customer)")
	password := flag.String("password", "", "initial or replacement password")
	disabled := flag.Bool("disabled", false, "create or update the account as inactive")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: accounts -email <email> -password <password> [-disabled]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "accounts",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	result, err := accounts.Provision(ctx, accounts.NewRepository(dbClient.DB()), cfg.Password, accounts.ProvisionInput{
		Email:    *email,
		Password: *password,
		Disabled: *disabled,
	})
	if err != nil {
		logg.Error(ctx, "provision account failed", err)
		os.Exit(1)
	}

	action := "updated"
	if result.Created {
		action = "created"
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"account_id": result.Account.ID.String(),
		"email":      result.Account.Email,
		"active":     result.Account.IsActive,
	})
	logg.Info(ctx, "account "+action)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
