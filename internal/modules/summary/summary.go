package summary

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/tikblok/core/internal/models"
	"go.uber.org/zap"
)

const (
	// cooldown debounces bursts of comment writes: at most one regeneration
	// per window, trading freshness for bounded model-call cost.
	cooldown = 10 * time.Second

	// maxComments caps the prompt input at the top comments by like count.
	maxComments = 50
)

// Service regenerates the cached comment summary of a video. Stateless per
// invocation; safe to invoke redundantly. Two concurrent invocations can both
// pass the cooldown read and both regenerate. That race costs an extra model
// call, with last write winning on the timestamp.
type Service struct {
	summaries SummaryStore
	comments  CommentSource
	chat      Completer
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(summaries SummaryStore, comments CommentSource, chat Completer, logger *zap.Logger) *Service {
	return &Service{
		summaries: summaries,
		comments:  comments,
		chat:      chat,
		logger:    logger,
		now:       time.Now,
	}
}

// Refresh runs the summarization state machine for one video and returns a
// tagged outcome. It never panics past an error: failures are folded into
// Outcome for the caller to log.
func (s *Service) Refresh(ctx context.Context, videoID string) Outcome {
	existing, err := s.summaries.Get(ctx, videoID)
	if err != nil {
		return Outcome{Status: StatusFailed, Reason: "read summary metadata", Err: err}
	}

	if existing != nil {
		elapsed := s.now().Sub(existing.UpdatedAt)
		if elapsed <= cooldown {
			return Outcome{
				Status:       StatusSkippedCooldown,
				Reason:       elapsed.String() + " since last update",
				CommentCount: existing.CommentCount,
			}
		}
	}

	comments, err := s.comments.TopByLikes(ctx, videoID, maxComments)
	if err != nil {
		return Outcome{Status: StatusFailed, Reason: "fetch comments", Err: err}
	}

	// A video whose comments were all deleted reverts to "no summary"
	// rather than showing a stale one.
	if len(comments) == 0 {
		if err := s.summaries.Delete(ctx, videoID); err != nil {
			return Outcome{Status: StatusFailed, Reason: "delete stale summary", Err: err}
		}
		return Outcome{Status: StatusRemoved}
	}

	stats := computeStats(comments)

	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = c.Text
	}
	prompt := buildSummaryPrompt(strings.Join(texts, "\n"))

	text, usage, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		return Outcome{Status: StatusFailed, Reason: "chat completion", Err: err}
	}

	doc := &models.CommentSummary{
		VideoID:      videoID,
		Summary:      text,
		CommentCount: len(comments),
		Stats:        stats,
	}
	if err := s.summaries.Save(ctx, doc); err != nil {
		return Outcome{Status: StatusFailed, Reason: "persist summary", Err: err}
	}

	s.logger.Info("comment summary generated",
		zap.String("video_id", videoID),
		zap.Int("comment_count", len(comments)),
		zap.Int("summary_len", len(text)),
		zap.Int64("total_tokens", usage.TotalTokens),
	)
	return Outcome{Status: StatusGenerated, CommentCount: len(comments)}
}

// computeStats derives the informational aggregates stored alongside the
// summary: total likes, integer-rounded average text length, count of
// comments with at least one reply, and the max single-comment like count.
func computeStats(comments []models.Comment) models.CommentStats {
	var stats models.CommentStats
	var lengthSum int
	for _, c := range comments {
		stats.TotalLikes += c.LikeCount
		lengthSum += len(c.Text)
		if c.ReplyCount > 0 {
			stats.WithReplies++
		}
		if c.LikeCount > stats.MaxLikes {
			stats.MaxLikes = c.LikeCount
		}
	}
	if len(comments) > 0 {
		stats.AvgLength = int(math.Round(float64(lengthSum) / float64(len(comments))))
	}
	return stats
}
