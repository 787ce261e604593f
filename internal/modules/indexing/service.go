package indexing

import (
	"context"
	"fmt"
	"strings"

	"github.com/tikblok/core/internal/models"
	"github.com/tikblok/core/internal/pkg/vector"
	"go.uber.org/zap"
)

// Embedder turns free text into fixed-dimension vectors.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex is the remote namespace-scoped vector store.
type VectorIndex interface {
	Upsert(ctx context.Context, v vector.Vector) error
	UpsertBatch(ctx context.Context, vs []vector.Vector) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Query(ctx context.Context, vec []float32, topK int) ([]vector.Match, error)
}

// VideoSource provides the full video collection for bulk rebuilds.
type VideoSource interface {
	FindAll(ctx context.Context) ([]models.Video, error)
}

// Service maintains one index entry per video, keyed by video id. Writes are
// idempotent full replacements; concurrent writes for the same id converge to
// whichever remote call lands last.
type Service struct {
	embedder Embedder
	index    VectorIndex
	videos   VideoSource
	logger   *zap.Logger
}

func NewService(embedder Embedder, index VectorIndex, videos VideoSource, logger *zap.Logger) *Service {
	return &Service{embedder: embedder, index: index, videos: videos, logger: logger}
}

// canonicalText is the text projection that gets embedded: title, description
// and space-joined tags, lowercased.
func canonicalText(v *models.Video) string {
	parts := []string{v.Title, v.Description, strings.Join(v.Tags, " ")}
	return strings.ToLower(strings.Join(parts, " "))
}

// entryMetadata is the denormalized payload stored with the vector. Tag order
// is preserved; createdAt is epoch milliseconds.
func entryMetadata(v *models.Video) map[string]interface{} {
	return map[string]interface{}{
		"title":           v.Title,
		"description":     v.Description,
		"thumbnailUrl":    v.ThumbnailURL,
		"creatorId":       v.CreatorID,
		"creatorUsername": v.CreatorUsername,
		"createdAt":       v.CreatedAt.UnixMilli(),
		"tags":            v.Tags,
		"viewCount":       v.ViewCount,
		"likeCount":       v.LikeCount,
		"commentCount":    v.CommentCount,
	}
}

// Upsert replaces the index entry for videoID: one embedding call, one index
// write. Errors propagate; no retry at this layer.
func (s *Service) Upsert(ctx context.Context, videoID string, v *models.Video) error {
	text := canonicalText(v)
	vec, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("embed video %s: %w", videoID, err)
	}
	entry := vector.Vector{ID: videoID, Values: vec, Metadata: entryMetadata(v)}
	if err := s.index.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("upsert video %s: %w", videoID, err)
	}
	s.logger.Info("video indexed", zap.String("video_id", videoID), zap.Int("text_len", len(text)))
	return nil
}

// Delete removes the index entry; absence is not an error.
func (s *Service) Delete(ctx context.Context, videoID string) error {
	if err := s.index.Delete(ctx, videoID); err != nil {
		return fmt.Errorf("delete video %s: %w", videoID, err)
	}
	s.logger.Info("video removed from index", zap.String("video_id", videoID))
	return nil
}

// Search embeds the query and returns up to limit nearest entries in the
// index's score order. No re-ranking.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]vector.Match, error) {
	vec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	matches, err := s.index.Query(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	return matches, nil
}
