package main

import (
	"context"
	"os"

	"github.com/FatimaaAlzahraa/RouteX/config"
	"github.com/FatimaaAlzahraa/RouteX/internal/migrate"
	"github.com/FatimaaAlzahraa/RouteX/pkg/database"
	"github.com/FatimaaAlzahraa/RouteX/pkg/logger"

	"go.uber.org/zap"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	ctx := context.Background()

	opts := migrate.DefaultMigrateOptions()

	if err := migrate.MigrateRouteXDB(ctx, db, log, opts); err != nil {
		log.Fatal("Ошибка при выполнении миграции", zap.Error(err))
	}

	log.Info("Миграция успешно завершена")
}
