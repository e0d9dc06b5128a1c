package main

import (
	"context"

	"event-swipe/pkg/cache"
	"event-swipe/pkg/config"
	"event-swipe/pkg/database"
	"event-swipe/pkg/logger"
	"event-swipe/pkg/queue"
	"event-swipe/pkg/s3"
	analysisApp "event-swipe/services/analysis/internal/app"

	"github.com/gin-gonic/gin"
)

// @title           Event Analysis Service API
// @version         1.0
// @description     Analyzes event flyers and Instagram posts with a vision model
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.JWTSecret == "your-secret-key-change-in-production" || cfg.JWTSecret == "" {
			panic("JWT_SECRET must be set in environment variables")
		}
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	ctx := context.Background()
	res := &analysisApp.Resources{}

	if cfg.HasStoreBackend("postgres") {
		// Migrations are handled by goose - see cmd/migrate/main.go
		res.Postgres, err = database.NewPostgresDB(cfg)
		if err != nil {
			log.Error("Failed to connect to database: %v", err)
			panic(err)
		}
	}

	if cfg.HasStoreBackend("mongo") {
		res.MongoClient, res.Mongo, err = database.NewMongoDB(ctx, cfg)
		if err != nil {
			log.Error("Failed to connect to mongo: %v", err)
			panic(err)
		}
	}

	if cfg.HasStoreBackend("sqlite") {
		res.SQLite, err = database.NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			log.Error("Failed to open sqlite database: %v", err)
			panic(err)
		}
	}

	if cfg.HasStoreBackend("s3") {
		res.S3, err = s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v", err)
			panic(err)
		}
	}

	if cfg.RateLimitPerMinute > 0 {
		res.Redis, err = cache.NewRedisClient(cfg)
		if err != nil {
			log.Error("Failed to connect to redis: %v", err)
			panic(err)
		}
	}

	// Connect to RabbitMQ for publishing analysis events
	res.Queue, err = queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		res.Queue = nil
	}

	analysisApp.Run(cfg, log, res)
}
