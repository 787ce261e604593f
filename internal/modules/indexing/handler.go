package indexing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler exposes the admin reindex endpoint.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts the admin surface. mws must include the middleware
// verifying x-reindex-key.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mws ...gin.HandlerFunc) {
	rg.POST("/admin/reindex", append(mws, h.reindex)...)
}

func (h *Handler) reindex(c *gin.Context) {
	total, err := h.svc.ReindexAll(c.Request.Context())
	if err != nil {
		h.logger.Error("reindex failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reindex videos",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalProcessed": total,
		"message":        "index reset and reindexed successfully",
	})
}
