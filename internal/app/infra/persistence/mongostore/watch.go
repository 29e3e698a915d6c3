package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickup/internal/app/infra/persistence/document"
)

type changeEvent struct {
	NS struct {
		Coll string `bson:"coll"`
	} `bson:"ns"`
}

// Watch opens a change stream on the order and payment collections and calls onChange
// with the collection of every event until ctx is cancelled. Requires a replica set.
func (s *Store) Watch(ctx context.Context, onChange func(collection string)) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"ns.coll": bson.M{"$in": bson.A{document.CollectionOrders, document.CollectionPayments}},
		}}},
	}

	stream, err := s.db.Watch(ctx, pipeline, options.ChangeStream().SetFullDocument(options.Default))
	if err != nil {
		return fmt.Errorf("open change stream: %w", err)
	}
	defer stream.Close(context.Background())

	for stream.Next(ctx) {
		var ev changeEvent
		if err := stream.Decode(&ev); err != nil {
			continue
		}
		onChange(ev.NS.Coll)
	}
	if err := stream.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("change stream: %w", err)
	}
	return nil
}
