package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tikblok/core/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used across the service.
const (
	CollectionVideos    = "videos"
	CollectionComments  = "comments"
	CollectionSummaries = "comment_summaries"
)

// Connect opens a MongoDB connection, verifies it and ensures indexes.
// The returned database handle is injected into repositories; there is no
// package-level singleton.
func Connect(ctx context.Context, cfg *config.AppConfig) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Mongo.Name)
	if err := ensureIndexes(connectCtx, db); err != nil {
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return db, nil
}

// Disconnect closes the underlying client of a database handle.
func Disconnect(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return nil
	}
	return db.Client().Disconnect(ctx)
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	// comments: the summarizer reads top comments per video by like count.
	if _, err := db.Collection(CollectionComments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "videoId", Value: 1}, {Key: "likeCount", Value: -1}},
		Options: options.Index().SetName("idx_video_likes_desc"),
	}); err != nil {
		return err
	}

	// videos: reindex reads the whole collection; creator lookups come from the app.
	if _, err := db.Collection(CollectionVideos).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "creatorId", Value: 1}},
		Options: options.Index().SetName("idx_creator"),
	}); err != nil {
		return err
	}

	return nil
}
