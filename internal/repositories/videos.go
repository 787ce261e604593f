package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/tikblok/core/internal/database"
	"github.com/tikblok/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrVideoNotFound is returned when a referenced video does not exist.
var ErrVideoNotFound = errors.New("video not found")

type VideoRepository struct {
	col *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{col: db.Collection(database.CollectionVideos)}
}

// FindByID returns a single video or ErrVideoNotFound.
func (r *VideoRepository) FindByID(ctx context.Context, id string) (*models.Video, error) {
	var v models.Video
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindAll loads the entire video collection into memory. The reindex
// orchestrator is the only caller; collection size is bounded by product
// scale, not by this service.
func (r *VideoRepository) FindAll(ctx context.Context) ([]models.Video, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find videos: %w", err)
	}
	defer cur.Close(ctx)

	var videos []models.Video
	if err := cur.All(ctx, &videos); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}
	return videos, nil
}
