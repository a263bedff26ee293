package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FatimaaAlzahraa/RouteX/config"
	"github.com/FatimaaAlzahraa/RouteX/internal/cache"
	"github.com/FatimaaAlzahraa/RouteX/internal/middleware"
	"github.com/FatimaaAlzahraa/RouteX/internal/producer"
	"github.com/FatimaaAlzahraa/RouteX/internal/repository"
	"github.com/FatimaaAlzahraa/RouteX/internal/router"
	"github.com/FatimaaAlzahraa/RouteX/internal/service"
	"github.com/FatimaaAlzahraa/RouteX/pkg/database"
	"github.com/FatimaaAlzahraa/RouteX/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
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

	repos := repository.New(db)

	var events service.EventBus
	if cfg.Kafka.Enabled {
		p := producer.NewShipmentEventProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer p.Close()
		events = p
		log.Info("Kafka producer включён", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	var statusCache service.DriverStatusCache
	if cfg.Redis.Enabled {
		c, err := cache.NewDriverStatusCache(
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSeconds)*time.Second, log,
		)
		if err != nil {
			log.Fatal("Не удалось подключиться к redis", zap.Error(err))
		}
		defer c.Close()
		statusCache = c
		log.Info("Redis-кеш статусов водителей включён", zap.String("addr", cfg.Redis.Addr))
	}

	var invalidator service.InvalidatingCache
	if statusCache != nil {
		invalidator = statusCache
	}

	svc := router.Services{
		Identity:     service.NewIdentityService(repos),
		Shipments:    service.NewShipmentService(repos, log),
		Statuses:     service.NewStatusService(repos, events, invalidator, log),
		Availability: service.NewAvailabilityService(repos, statusCache, log),
		Catalog:      service.NewCatalogService(repos),
	}

	r := router.Router(middleware.JWTConfig{
		AccessSecret: cfg.JWT.AccessSecret,
		Issuer:       cfg.JWT.Issuer,
		Audience:     cfg.JWT.Audience,
	}, svc, log)

	go func() {
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatal("failed to run http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down RouteX HTTP server...")
	log.Info("RouteX HTTP server stopped gracefully")
}
