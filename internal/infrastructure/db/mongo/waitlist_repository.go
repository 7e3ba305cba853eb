package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ironhealth/clinic-api/internal/core/domain"
)

const collectionWaitlist = "waitlist"

type WaitlistRepository struct {
	col *mongo.Collection
}

func NewWaitlistRepository(db *mongo.Database) *WaitlistRepository {
	return &WaitlistRepository{col: db.Collection(collectionWaitlist)}
}

// Add upserts on email so a repeated signup keeps the first timestamp.
func (r *WaitlistRepository) Add(ctx context.Context, s *domain.Subscriber) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"email": s.Email},
		bson.M{"$setOnInsert": bson.M{"email": s.Email, "createdAt": s.SubscribedAt}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// Two concurrent upserts of the same address: the loser hits the index.
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("add subscriber: %w", err)
	}
	return res.UpsertedCount > 0, nil
}

func (r *WaitlistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(uniqueIndexPrefix + "email"),
	})
	if err != nil {
		return fmt.Errorf("waitlist indexes: %w", err)
	}
	return nil
}
