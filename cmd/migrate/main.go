// Command migrate applies the database schema.
package main

import (
	"context"
	_ "embed"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/commercekit/authnet-gateway/internal/adapters/postgres"
	"github.com/commercekit/authnet-gateway/internal/config"
)

//go:embed schema.sql
var schema string

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.ConnectionString())
	pool, err := postgres.NewPool(ctx, poolCfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	logger.Info("Schema applied", zap.String("database", cfg.Database.Database))
}
