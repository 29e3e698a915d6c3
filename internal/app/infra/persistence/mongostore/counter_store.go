package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"pickup/internal/app/domains/entity/etcounter"
	"pickup/internal/app/domains/repo/rpcounter"
	"pickup/internal/app/infra/persistence/document"
)

const maxCASAttempts = 32

var _ rpcounter.CounterRepository = (*CounterStore)(nil)

// CounterStore implements rpcounter.CounterRepository with compare-and-swap on the
// version field of the singleton counter document.
type CounterStore struct {
	*Store
}

func (s *CounterStore) coll() *mongo.Collection {
	return s.db.Collection(document.CollectionCounters)
}

func (s *CounterStore) Update(ctx context.Context, fn rpcounter.MutateFunc) (*etcounter.SequenceCounter, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		current, found, err := s.load(ctx)
		if err != nil {
			return nil, err
		}

		next := *current
		if err := fn(&next); err != nil {
			return nil, err
		}
		next.Version = current.Version + 1

		swapped, err := s.swap(ctx, current.Version, found, &next)
		if err != nil {
			return nil, mongoError("update counter", err, nil)
		}
		if swapped {
			s.written(ctx, document.CollectionCounters)
			return &next, nil
		}
	}
	return nil, mongoError("update counter", fmt.Errorf("lost %d compare-and-swap rounds", maxCASAttempts), nil)
}

func (s *CounterStore) Get(ctx context.Context) (*etcounter.SequenceCounter, error) {
	c, _, err := s.load(ctx)
	return c, err
}

func (s *CounterStore) load(ctx context.Context) (*etcounter.SequenceCounter, bool, error) {
	var doc document.Counter
	err := s.coll().FindOne(ctx, bson.M{"_id": document.CounterID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &etcounter.SequenceCounter{}, false, nil
	}
	if err != nil {
		return nil, false, mongoError("get counter", err, nil)
	}
	return doc.ToCounter(), true, nil
}

// swap writes next only if the stored version still equals expected.
func (s *CounterStore) swap(ctx context.Context, expected int64, exists bool, next *etcounter.SequenceCounter) (bool, error) {
	doc := document.FromCounter(next)
	if !exists {
		_, err := s.coll().InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return err == nil, err
	}

	result, err := s.coll().UpdateOne(ctx,
		bson.M{"_id": document.CounterID, "version": expected},
		bson.M{"$set": bson.M{
			"totalOrders":      doc.TotalOrders,
			"dailyPickupCount": doc.DailyPickupCount,
			"lastPickupDate":   doc.LastPickupDate,
			"version":          doc.Version,
		}},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}
