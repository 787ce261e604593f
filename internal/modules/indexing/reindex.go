package indexing

import (
	"context"
	"fmt"

	"github.com/tikblok/core/internal/models"
	"github.com/tikblok/core/internal/pkg/vector"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// reindexBatchSize bounds bulk-upsert payload size and peak concurrent
// embedding calls. Fixed tuning constant, not derived from input size.
const reindexBatchSize = 100

// ReindexAll wipes the namespace and rebuilds it from the full video
// collection in batches. Destructive and idempotent: re-invocation starts
// from a clean namespace. Any remote failure aborts the whole run and leaves
// the index partially rebuilt; there is no rollback. No single-flight guard
// either: overlapping invocations interleave destructively (operational
// convention keeps this admin-only and infrequent).
func (s *Service) ReindexAll(ctx context.Context) (int, error) {
	s.logger.Warn("full reindex starting, namespace will be wiped")

	if err := s.index.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("delete all vectors: %w", err)
	}

	videos, err := s.videos.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load videos: %w", err)
	}
	s.logger.Info("reindexing videos", zap.Int("total", len(videos)))

	for start := 0; start < len(videos); start += reindexBatchSize {
		end := start + reindexBatchSize
		if end > len(videos) {
			end = len(videos)
		}
		batch := videos[start:end]

		entries, err := s.embedBatch(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("batch starting at %d: %w", start, err)
		}
		if err := s.index.UpsertBatch(ctx, entries); err != nil {
			return 0, fmt.Errorf("bulk upsert batch starting at %d: %w", start, err)
		}
		s.logger.Info("reindex progress", zap.Int("processed", end), zap.Int("total", len(videos)))
	}

	s.logger.Info("reindex completed", zap.Int("total", len(videos)))
	return len(videos), nil
}

// embedBatch fans out one embedding call per video, joins all of them, and
// returns the batch entries in input order.
func (s *Service) embedBatch(ctx context.Context, batch []models.Video) ([]vector.Vector, error) {
	entries := make([]vector.Vector, len(batch))
	g, gctx := errgroup.WithContext(ctx)
	for i := range batch {
		v := &batch[i]
		idx := i
		g.Go(func() error {
			vec, err := s.embedder.EmbedText(gctx, canonicalText(v))
			if err != nil {
				return fmt.Errorf("embed video %s: %w", v.ID, err)
			}
			entries[idx] = vector.Vector{ID: v.ID, Values: vec, Metadata: entryMetadata(v)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}
