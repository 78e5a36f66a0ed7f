package main

import (
	"context"
	"time"

	"github.com/tcapp/account-admin/internal/core/domain"
	"github.com/tcapp/account-admin/internal/core/ports"
	"github.com/tcapp/account-admin/internal/core/service"
	"github.com/tcapp/account-admin/internal/infrastructure/config"
	mongostore "github.com/tcapp/account-admin/internal/infrastructure/db/mongo"
	"github.com/tcapp/account-admin/pkg/logger"
)

type seedAccount struct {
	Username    string
	Password    string
	DisplayName string
	DeptCode    string
	DeptName    string
	Role        domain.Role
}

var seedAccounts = []seedAccount{
	{Username: "admin", Password: "admin123", DisplayName: "System Administrator", DeptCode: "IT", DeptName: "Information Technology", Role: domain.RoleAdmin},
	{Username: "manager", Password: "manager123", DisplayName: "Team Manager", DeptCode: "OPS", DeptName: "Operations", Role: domain.RoleManager},
	{Username: "jdoe", Password: "user123", DisplayName: "John Doe", DeptCode: "ENG", DeptName: "Engineering", Role: domain.RoleUser},
	{Username: "asmith", Password: "user123", DisplayName: "Anna Smith", DeptCode: "HR", DeptName: "Human Resources", Role: domain.RoleUser},
}

// Seeds the account store with a default admin and a few sample accounts.
// Existing usernames are left untouched, so the command is safe to re-run.
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "account-admin-seed",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer mongoClient.Disconnect(context.Background())

	repo := mongostore.NewAccountRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongo index creation failed")
	}

	codec := service.NewPasswordCodec(cfg.HashPasswords)
	accounts := service.NewAccountService(repo, codec, log)

	for _, s := range seedAccounts {
		exists, err := repo.ExistsByUsername(ctx, s.Username)
		if err != nil {
			log.Fatal().Err(err).Str("username", s.Username).Msg("lookup failed")
		}
		if exists {
			log.Info().Str("username", s.Username).Msg("already present, skipping")
			continue
		}

		account, err := accounts.Create(ctx, domain.RoleAdmin, ports.CreateAccountInput{
			Username:    s.Username,
			Password:    s.Password,
			DisplayName: s.DisplayName,
			DeptCode:    s.DeptCode,
			DeptName:    s.DeptName,
			Role:        s.Role,
		})
		if err != nil {
			log.Fatal().Err(err).Str("username", s.Username).Msg("seed failed")
		}
		log.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("account seeded")
	}

	log.Info().Msg("seeding complete")
}
