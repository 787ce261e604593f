package search

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tikblok/core/internal/pkg/response"
	"github.com/tikblok/core/internal/pkg/vector"
	"go.uber.org/zap"
)

const defaultLimit = 10

// Searcher is the query path of the video index.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]vector.Match, error)
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchResult struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Handler serves the synchronous semantic-search entry point.
type Handler struct {
	searcher Searcher
	logger   *zap.Logger
}

func NewHandler(searcher Searcher, logger *zap.Logger) *Handler {
	return &Handler{searcher: searcher, logger: logger}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/search", h.search)
}

func (h *Handler) search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.UnprocessableEntity(c, "query must be a non-empty string")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		response.UnprocessableEntity(c, "query must be a non-empty string")
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	matches, err := h.searcher.Search(c.Request.Context(), req.Query, limit)
	if err != nil {
		// Downstream details stay in the logs; the caller sees an opaque error.
		h.logger.Error("search failed", zap.String("query", req.Query), zap.Error(err))
		response.InternalError(c, "failed to search videos")
		return
	}

	results := make([]searchResult, len(matches))
	for i, m := range matches {
		results[i] = searchResult{ID: m.ID, Score: m.Score, Metadata: m.Metadata}
	}
	response.OK(c, gin.H{"results": results})
}
