package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-swipe/pkg/config"
	"event-swipe/pkg/jwt"
	"event-swipe/pkg/logger"
	"event-swipe/pkg/middleware"
	"event-swipe/pkg/queue"
	"event-swipe/pkg/s3"
	analysisHTTP "event-swipe/services/analysis/internal/controller/http"
	"event-swipe/services/analysis/internal/instagram"
	"event-swipe/services/analysis/internal/repo/persistent"
	"event-swipe/services/analysis/internal/usecase"
	"event-swipe/services/analysis/internal/vision"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	_ "event-swipe/services/analysis/docs" // Swagger docs
)

// Resources holds the connections opened by the bootstrap. Any field may be
// nil when the matching backend is not configured.
type Resources struct {
	Postgres    *gorm.DB
	MongoClient *mongo.Client
	Mongo       *mongo.Database
	SQLite      *sql.DB
	S3          *s3.Client
	Redis       *redis.Client
	Queue       *queue.Client
}

func Run(cfg *config.Config, log *logger.Logger, res *Resources) {
	analyzer, err := vision.NewAnalyzer(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to configure vision provider: %v", err)
		panic(err)
	}

	repo, err := NewRepository(cfg, res)
	if err != nil {
		log.Error("Failed to configure analysis store: %v", err)
		panic(err)
	}

	// A nil *queue.Client must not become a non-nil interface.
	var publisher usecase.EventPublisher
	if res.Queue != nil {
		publisher = res.Queue
	}

	// Initialize use cases
	analysisUseCase := usecase.NewAnalysisUseCase(
		instagram.NewClient(cfg.ExtractionServiceURL),
		analyzer,
		repo,
		publisher,
		log,
	)

	// Initialize HTTP handlers
	analysisHandler := analysisHTTP.NewAnalysisHandler(analysisUseCase, log, !cfg.IsProduction())

	r := NewRouter(cfg, log, analysisHandler, jwt.NewService(cfg.JWTSecret), res.Redis)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Analysis service starting on port %s (vision=%s, stores=%v)", cfg.ServerPort, cfg.VisionProvider, cfg.StoreBackends)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down analysis service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Drain in-flight requests before closing the stores they write to.
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	res.Close(ctx, log)
	log.Info("Analysis service exited")
	log.Sync()
}

// NewRouter builds the gin engine. Rate limiting is skipped when redisClient is nil.
func NewRouter(cfg *config.Config, log *logger.Logger, analysisHandler *analysisHTTP.AnalysisHandler, jwtService *jwt.Service, redisClient *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log, !cfg.IsProduction()))
	r.Use(middleware.RequestLogger(log))

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:   []string{"Content-Length", "Retry-After"},
		MaxAge:          12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	events := api.Group("/events")
	if cfg.AuthRequired {
		events.Use(middleware.AuthMiddleware(jwtService))
	} else {
		events.Use(middleware.OptionalAuthMiddleware(jwtService))
	}
	if redisClient != nil && cfg.RateLimitPerMinute > 0 {
		events.Use(middleware.RateLimitMiddleware(redisClient, cfg.RateLimitPerMinute, time.Minute))
	} else {
		log.Warn("Rate limiting disabled for /api/v1/events")
	}

	{
		events.POST("/analyze-image", analysisHandler.AnalyzeImage)
		events.POST("/analyze-url", analysisHandler.AnalyzeURL)
	}

	return r
}

// NewRepository assembles the configured stores. A single backend is used
// directly; several are written concurrently.
func NewRepository(cfg *config.Config, res *Resources) (persistent.AnalysisRepository, error) {
	if len(cfg.StoreBackends) == 0 {
		return nil, errors.New("no store backend configured")
	}

	multi := persistent.NewMultiRepository()
	var single persistent.AnalysisRepository

	for _, backend := range cfg.StoreBackends {
		var repo persistent.AnalysisRepository
		switch backend {
		case "postgres":
			if res.Postgres == nil {
				return nil, errors.New("postgres store selected but no connection is open")
			}
			repo = persistent.NewPostgresRepository(res.Postgres)
		case "mongo":
			if res.Mongo == nil {
				return nil, errors.New("mongo store selected but no connection is open")
			}
			repo = persistent.NewMongoRepository(res.Mongo)
		case "sqlite":
			if res.SQLite == nil {
				return nil, errors.New("sqlite store selected but no database is open")
			}
			sqliteRepo, err := persistent.NewSQLiteRepository(res.SQLite)
			if err != nil {
				return nil, err
			}
			repo = sqliteRepo
		case "s3":
			if res.S3 == nil {
				return nil, errors.New("s3 store selected but no client is configured")
			}
			repo = persistent.NewS3Repository(res.S3)
		default:
			return nil, fmt.Errorf("unknown store backend %q", backend)
		}
		single = repo
		multi.Add(backend, repo)
	}

	if multi.Len() == 1 {
		return single, nil
	}
	return multi, nil
}

// Close releases every open connection. Errors are logged.
func (r *Resources) Close(ctx context.Context, log *logger.Logger) {
	if r.Postgres != nil {
		if sqlDB, err := r.Postgres.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("Error closing database: %v", err)
			}
		}
	}

	if r.SQLite != nil {
		if err := r.SQLite.Close(); err != nil {
			log.Error("Error closing sqlite: %v", err)
		}
	}

	if r.MongoClient != nil {
		if err := r.MongoClient.Disconnect(ctx); err != nil {
			log.Error("Error disconnecting mongo: %v", err)
		}
	}

	// Close Redis connection
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if r.Queue != nil {
		if err := r.Queue.Close(); err != nil {
			log.Error("Error closing RabbitMQ: %v", err)
		}
	}
}
