package summary

import (
	"context"

	"github.com/tikblok/core/internal/models"
)

// Status tags the outcome of one Refresh invocation. The trigger adapter
// logs these; it never propagates a failure upward.
type Status string

const (
	StatusSkippedCooldown Status = "skipped_cooldown"
	StatusGenerated       Status = "generated"
	StatusRemoved         Status = "removed_no_comments"
	StatusFailed          Status = "failed"
)

// Outcome is the tagged result of a summarization attempt.
type Outcome struct {
	Status       Status
	Reason       string
	CommentCount int
	Err          error
}

// Usage reports token counts from the chat-completion call.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Completer generates text from a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, Usage, error)
}

// SummaryStore persists the per-video comment summary document.
type SummaryStore interface {
	Get(ctx context.Context, videoID string) (*models.CommentSummary, error)
	Save(ctx context.Context, s *models.CommentSummary) error
	Delete(ctx context.Context, videoID string) error
}

// CommentSource reads a video's comments, most-liked first.
type CommentSource interface {
	TopByLikes(ctx context.Context, videoID string, limit int) ([]models.Comment, error)
}
