package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "permitdesk/internal/bookings/errors"
	"permitdesk/pkg/config"
	"permitdesk/pkg/dates"
	"permitdesk/pkg/model"
)

const (
	HoldCollectionName = "SlotHolds"
)

// HoldLockRepository grants short-lived advisory locks on a
// (product, trek date) slot so two creations cannot race the same capacity.
// Expired holds are reaped by a TTL index on expires_at.
type HoldLockRepository interface {
	Acquire(ctx context.Context, product string, trekDate time.Time) error
	Release(ctx context.Context, product string, trekDate time.Time) error
}

type mongoHoldLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHoldLockRepository(cfg *config.Config) HoldLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoldLockRepository{
		cfg:        cfg,
		collection: db.Collection(HoldCollectionName),
	}
}

func holdID(product string, trekDate time.Time) string {
	return fmt.Sprintf("%s|%s", product, dates.Day(trekDate).Format("2006-01-02"))
}

func (r *mongoHoldLockRepository) Acquire(ctx context.Context, product string, trekDate time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	// Stale holds past their TTL may linger briefly before the reaper runs,
	// so clear any expired document for this slot first.
	_, _ = r.collection.DeleteOne(ctx, bson.M{
		"_id":        holdID(product, trekDate),
		"expires_at": bson.M{"$lt": time.Now().UTC()},
	})

	hold := model.HoldLock{
		ID:        holdID(product, trekDate),
		ExpiresAt: time.Now().UTC().Add(r.cfg.HoldLockTTL),
	}
	_, err := r.collection.InsertOne(ctx, hold)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrHoldContested
		}
		return fmt.Errorf("failed to acquire slot hold: %w", err)
	}
	return nil
}

func (r *mongoHoldLockRepository) Release(ctx context.Context, product string, trekDate time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": holdID(product, trekDate)})
	if err != nil {
		return fmt.Errorf("failed to release slot hold: %w", err)
	}
	return nil
}
