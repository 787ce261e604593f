package models

import "time"

// Video is a document in the `videos` collection. The app writes these;
// this service only reads them and mirrors them into the vector index.
type Video struct {
	ID              string    `bson:"_id"             json:"id"`
	Title           string    `bson:"title"           json:"title"`
	Description     string    `bson:"description"     json:"description"`
	VideoURL        string    `bson:"videoUrl"        json:"video_url"`
	ThumbnailURL    string    `bson:"thumbnailUrl"    json:"thumbnail_url"`
	CaptionsURL     string    `bson:"captionsUrl,omitempty" json:"captions_url,omitempty"`
	DurationMs      int64     `bson:"durationMs"      json:"duration_ms"`
	CreatorID       string    `bson:"creatorId"       json:"creator_id"`
	CreatorUsername string    `bson:"creatorUsername" json:"creator_username"`
	Tags            []string  `bson:"tags"            json:"tags"`
	CreatedAt       time.Time `bson:"createdAt"       json:"created_at"`
	LikeCount       int64     `bson:"likeCount"       json:"like_count"`
	CommentCount    int64     `bson:"commentCount"    json:"comment_count"`
	ViewCount       int64     `bson:"viewCount"       json:"view_count"`
}
