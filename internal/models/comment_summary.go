package models

import "time"

// CommentStats are aggregate numbers computed alongside a summary. They are
// informational metadata only and never feed back into the prompt.
type CommentStats struct {
	TotalLikes  int64 `bson:"totalLikes"  json:"total_likes"`
	AvgLength   int   `bson:"avgLength"   json:"avg_length"`
	WithReplies int   `bson:"withReplies" json:"with_replies"`
	MaxLikes    int64 `bson:"maxLikes"    json:"max_likes"`
}

// CommentSummary caches the AI-generated summary of a video's comment
// section. Keyed by video id; at most one document per video, and it exists
// only while the video has at least one comment.
type CommentSummary struct {
	VideoID      string       `bson:"_id"          json:"video_id"`
	Summary      string       `bson:"summary"      json:"summary"`
	UpdatedAt    time.Time    `bson:"updatedAt"    json:"updated_at"`
	CommentCount int          `bson:"commentCount" json:"comment_count"`
	Stats        CommentStats `bson:"stats"        json:"stats"`
}
