package repositories

import (
	"context"
	"fmt"

	"github.com/tikblok/core/internal/database"
	"github.com/tikblok/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(database.CollectionComments)}
}

// TopByLikes returns up to limit comments for a video, most-liked first.
func (r *CommentRepository) TopByLikes(ctx context.Context, videoID string, limit int) ([]models.Comment, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "likeCount", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"videoId": videoID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	defer cur.Close(ctx)

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}
