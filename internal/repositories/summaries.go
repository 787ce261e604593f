package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/tikblok/core/internal/database"
	"github.com/tikblok/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SummaryRepository struct {
	col *mongo.Collection
}

func NewSummaryRepository(db *mongo.Database) *SummaryRepository {
	return &SummaryRepository{col: db.Collection(database.CollectionSummaries)}
}

// Get returns the summary for a video, or (nil, nil) when none exists.
func (r *SummaryRepository) Get(ctx context.Context, videoID string) (*models.CommentSummary, error) {
	var s models.CommentSummary
	if err := r.col.FindOne(ctx, bson.M{"_id": videoID}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Save upserts the summary document for a video, stamping UpdatedAt with the
// current server time. Last write wins.
func (r *SummaryRepository) Save(ctx context.Context, s *models.CommentSummary) error {
	s.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"summary":      s.Summary,
			"updatedAt":    s.UpdatedAt,
			"commentCount": s.CommentCount,
			"stats":        s.Stats,
		},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": s.VideoID}, update, options.Update().SetUpsert(true))
	return err
}

// Delete removes the summary document; deleting a missing one is not an error.
func (r *SummaryRepository) Delete(ctx context.Context, videoID string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": videoID})
	return err
}
