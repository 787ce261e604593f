package app

import (
	"github.com/gin-gonic/gin"
	"github.com/tikblok/core/internal/middleware"
	"github.com/tikblok/core/internal/modules/indexing"
	"github.com/tikblok/core/internal/modules/preview"
	"github.com/tikblok/core/internal/modules/search"
	pkgredis "github.com/tikblok/core/internal/pkg/redis"
	"github.com/tikblok/core/internal/pkg/response"
	"github.com/tikblok/core/internal/repositories"
)

func (a *App) registerRoutes(rc *pkgredis.Client, indexSvc *indexing.Service, videoRepo *repositories.VideoRepository) {
	r := a.router

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Rate limiting runs on every route (requires Redis).
	r.Use(middleware.RateLimit(rc.Raw()))

	// Root-level crawler surface.
	preview.NewHandler(videoRepo, a.cfg.WebURL, a.logger).RegisterRoutes(r)

	// Versioned API. Search is read-only despite the POST verb, so only the
	// admin mutation carries the idempotence guard.
	api := r.Group("/api/v2")
	search.NewHandler(indexSvc, a.logger).RegisterRoutes(api)
	indexing.NewHandler(indexSvc, a.logger).RegisterRoutes(api,
		middleware.ReindexKey(a.cfg.ReindexKey),
		middleware.Idempotence(rc.Raw()))
}
