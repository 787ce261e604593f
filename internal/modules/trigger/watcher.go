package trigger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tikblok/core/internal/database"
	"github.com/tikblok/core/internal/models"
	"github.com/tikblok/core/internal/modules/summary"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	// invocationTimeout bounds one event reaction, matching the wall-clock
	// limit the original platform enforced on light handlers.
	invocationTimeout = 60 * time.Second

	// streamRetryDelay paces reconnection after a change stream drops.
	streamRetryDelay = 5 * time.Second
)

// Indexer executes index effects for video writes.
type Indexer interface {
	Upsert(ctx context.Context, videoID string, v *models.Video) error
	Delete(ctx context.Context, videoID string) error
}

// Summarizer reacts to comment writes.
type Summarizer interface {
	Refresh(ctx context.Context, videoID string) summary.Outcome
}

// Watcher consumes document change streams and dispatches reactions. Events
// are at-least-once: redundant delivery is tolerated by the idempotent index
// writes and the summarizer cooldown, not deduplicated here. Reaction
// failures are logged and swallowed so the stream keeps advancing.
type Watcher struct {
	db         *mongo.Database
	indexer    Indexer
	summarizer Summarizer
	logger     *zap.Logger
}

func NewWatcher(db *mongo.Database, indexer Indexer, summarizer Summarizer, logger *zap.Logger) *Watcher {
	return &Watcher{db: db, indexer: indexer, summarizer: summarizer, logger: logger}
}

// Run blocks until ctx is cancelled, keeping both change streams open.
func (w *Watcher) Run(ctx context.Context) {
	go w.watchLoop(ctx, database.CollectionVideos, w.handleVideoEvent)
	w.watchLoop(ctx, database.CollectionComments, w.handleCommentEvent)
}

func (w *Watcher) watchLoop(ctx context.Context, collection string, handle func(ctx context.Context, cs *mongo.ChangeStream)) {
	opts := options.ChangeStream().
		SetFullDocument(options.UpdateLookup).
		SetFullDocumentBeforeChange(options.WhenAvailable)

	for {
		if ctx.Err() != nil {
			return
		}
		cs, err := w.db.Collection(collection).Watch(ctx, mongo.Pipeline{}, opts)
		if err != nil {
			w.logger.Error("open change stream failed",
				zap.String("collection", collection), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(streamRetryDelay):
			}
			continue
		}

		handle(ctx, cs)
		cs.Close(context.Background())

		if ctx.Err() == nil {
			w.logger.Warn("change stream ended, reconnecting",
				zap.String("collection", collection))
			select {
			case <-ctx.Done():
				return
			case <-time.After(streamRetryDelay):
			}
		}
	}
}

type videoEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument             *models.Video `bson:"fullDocument"`
	FullDocumentBeforeChange *models.Video `bson:"fullDocumentBeforeChange"`
}

func (w *Watcher) handleVideoEvent(ctx context.Context, cs *mongo.ChangeStream) {
	for cs.Next(ctx) {
		var ev videoEvent
		if err := cs.Decode(&ev); err != nil {
			w.logger.Error("decode video event failed", zap.Error(err))
			continue
		}

		invocation := uuid.NewString()
		effect := Decide(ev.DocumentKey.ID, ev.FullDocumentBeforeChange, ev.FullDocument)

		reactCtx, cancel := context.WithTimeout(ctx, invocationTimeout)
		switch effect.Kind {
		case EffectUpsert:
			if err := w.indexer.Upsert(reactCtx, effect.ID, effect.Video); err != nil {
				w.logger.Error("video index upsert failed",
					zap.String("invocation", invocation),
					zap.String("video_id", effect.ID),
					zap.Error(err))
			}
		case EffectDelete:
			if err := w.indexer.Delete(reactCtx, effect.ID); err != nil {
				w.logger.Error("video index delete failed",
					zap.String("invocation", invocation),
					zap.String("video_id", effect.ID),
					zap.Error(err))
			}
		case EffectNoOp:
			w.logger.Debug("video event ignored",
				zap.String("invocation", invocation),
				zap.String("op", ev.OperationType))
		}
		cancel()
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		w.logger.Error("video change stream error", zap.Error(err))
	}
}

type commentEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID string `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument             *models.Comment `bson:"fullDocument"`
	FullDocumentBeforeChange *models.Comment `bson:"fullDocumentBeforeChange"`
}

func (w *Watcher) handleCommentEvent(ctx context.Context, cs *mongo.ChangeStream) {
	for cs.Next(ctx) {
		var ev commentEvent
		if err := cs.Decode(&ev); err != nil {
			w.logger.Error("decode comment event failed", zap.Error(err))
			continue
		}

		videoID := ""
		if ev.FullDocument != nil {
			videoID = ev.FullDocument.VideoID
		} else if ev.FullDocumentBeforeChange != nil {
			videoID = ev.FullDocumentBeforeChange.VideoID
		}
		if videoID == "" {
			// Delete without a pre-image: the parent video is unknown. The
			// next qualifying comment write repairs the summary.
			w.logger.Warn("comment event without video id, skipped",
				zap.String("comment_id", ev.DocumentKey.ID),
				zap.String("op", ev.OperationType))
			continue
		}

		invocation := uuid.NewString()
		reactCtx, cancel := context.WithTimeout(ctx, invocationTimeout)
		outcome := w.summarizer.Refresh(reactCtx, videoID)
		cancel()

		fields := []zap.Field{
			zap.String("invocation", invocation),
			zap.String("video_id", videoID),
			zap.String("comment_id", ev.DocumentKey.ID),
			zap.String("status", string(outcome.Status)),
			zap.Int("comment_count", outcome.CommentCount),
		}
		if outcome.Status == summary.StatusFailed {
			// Swallowed by policy: a failed attempt leaves the previous
			// summary in place and retries on the next qualifying write.
			w.logger.Error("comment summary refresh failed",
				append(fields, zap.String("reason", outcome.Reason), zap.Error(outcome.Err))...)
			continue
		}
		w.logger.Info("comment summary refresh", fields...)
	}
	if err := cs.Err(); err != nil && ctx.Err() == nil {
		w.logger.Error("comment change stream error", zap.Error(err))
	}
}
