// Command seed installs the default roles and the first admin account.
//
//	SEED_ADMIN_EMAIL=owner@shop.test SEED_ADMIN_PASSWORD=... go run ./cmd/seed
package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"

	"github.com/shopdesk/commerce-api/internal/core/service"
	mongodb "github.com/shopdesk/commerce-api/internal/infrastructure/db/mongo"
	"github.com/shopdesk/commerce-api/internal/pkg/config"
	"github.com/shopdesk/commerce-api/pkg/logger"
)

type seedConfig struct {
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	BcryptCost int    `env:"BCRYPT_COST, default=12"`

	AdminName     string `env:"SEED_ADMIN_NAME,  default=Administrator"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD"`

	Mongo config.MongoConfig
}

func main() {
	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var cfg seedConfig
	if err := envconfig.Process(ctx, &cfg); err != nil {
		panic(err)
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "commerce-seed"})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "commerce-seed",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	roles := mongodb.NewRoleRepository(db)
	users := mongodb.NewUserRepository(db)
	if err := mongodb.EnsureIndexes(ctx, roles, users); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	account := service.AdminAccount{
		Name:     cfg.AdminName,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}
	if account.Email == "" {
		log.Warn().Msg("SEED_ADMIN_EMAIL not set, only roles will be seeded")
	}
	if err := service.SeedAccess(ctx, roles, users, account, cfg.BcryptCost, log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Msg("seed complete")
}
