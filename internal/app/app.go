package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tikblok/core/internal/config"
	"github.com/tikblok/core/internal/database"
	"github.com/tikblok/core/internal/middleware"
	"github.com/tikblok/core/internal/modules/indexing"
	"github.com/tikblok/core/internal/modules/summary"
	"github.com/tikblok/core/internal/modules/trigger"
	"github.com/tikblok/core/internal/pkg/embedding"
	pkgredis "github.com/tikblok/core/internal/pkg/redis"
	"github.com/tikblok/core/internal/pkg/vector"
	"github.com/tikblok/core/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg     *config.AppConfig
	router  *gin.Engine
	db      *mongo.Database
	watcher *trigger.Watcher
	logger  *zap.Logger
	cancel  context.CancelFunc
}

// New initializes the application: config → Mongo → Redis → services →
// routes → change-stream watcher. Every client is constructed here once and
// injected; nothing builds clients lazily.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "x-reindex-key", "x-idempotence"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	// Domain services.
	embedder := embedding.New(cfg.OpenAI.APIKey, cfg.OpenAI.EmbeddingModel, cfg.OpenAI.EmbeddingDimensions)
	index := vector.NewClient(cfg.Pinecone.Host, cfg.Pinecone.APIKey, cfg.Pinecone.Namespace)

	videoRepo := repositories.NewVideoRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	summaryRepo := repositories.NewSummaryRepository(db)

	indexSvc := indexing.NewService(embedder, index, videoRepo, logger)

	completer, err := summary.NewCompleter(cfg)
	if err != nil {
		return nil, fmt.Errorf("summarizer: %w", err)
	}
	summarySvc := summary.NewService(summaryRepo, commentRepo, completer, logger)

	watcher := trigger.NewWatcher(db, indexSvc, summarySvc, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go watcher.Run(ctx)

	app := &App{cfg: cfg, router: router, db: db, watcher: watcher, logger: logger, cancel: cancel}
	app.registerRoutes(rc, indexSvc, videoRepo)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops the watcher and closes the database client.
func (a *App) Shutdown(ctx context.Context) {
	a.cancel()
	if err := database.Disconnect(ctx, a.db); err != nil {
		a.logger.Warn("mongo disconnect failed", zap.Error(err))
	}
}
