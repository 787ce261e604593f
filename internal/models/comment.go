package models

import "time"

// Comment is a document in the `comments` collection, read-only here.
// VideoID links it to its parent video.
type Comment struct {
	ID         string    `bson:"_id"        json:"id"`
	VideoID    string    `bson:"videoId"    json:"video_id"`
	AuthorID   string    `bson:"authorId"   json:"author_id"`
	Text       string    `bson:"text"       json:"text"`
	LikeCount  int64     `bson:"likeCount"  json:"like_count"`
	ReplyCount int64     `bson:"replyCount" json:"reply_count"`
	CreatedAt  time.Time `bson:"createdAt"  json:"created_at"`
}
