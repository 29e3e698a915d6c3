package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/clock"
	"pickup/pkg/errorx"
)

// Config of the document store connection.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
}

// Connect dials and pings the server.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo connection uri is empty")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	clientOptions := options.Client().ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetSocketTimeout(10 * time.Second)
	if cfg.MaxPoolSize > 0 {
		clientOptions.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// Store is the document store backend.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	clock  clock.Clock
	hooks  []document.WriteHook
}

// New creates a store on database dbName.
func New(client *mongo.Client, dbName string, clk clock.Clock, hooks ...document.WriteHook) *Store {
	return &Store{client: client, db: client.Database(dbName), clock: clk, hooks: hooks}
}

// OnWrite registers another hook. Not safe to call concurrently with writes.
func (s *Store) OnWrite(hook document.WriteHook) {
	s.hooks = append(s.hooks, hook)
}

func (s *Store) Orders() *OrderStore     { return &OrderStore{s} }
func (s *Store) Payments() *PaymentStore { return &PaymentStore{s} }
func (s *Store) Counter() *CounterStore  { return &CounterStore{s} }

// EnsureIndexes creates the unique and lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(document.CollectionOrders).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "pickupDate", Value: 1}, {Key: "pickupNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create order indexes: %w", err)
	}

	_, err = s.db.Collection(document.CollectionPayments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "orderId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create payment indexes: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *Store) written(ctx context.Context, collection string) {
	document.Fire(ctx, s.hooks, collection)
}

func mongoError(op string, err error, notFound func() error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) && notFound != nil {
		return notFound()
	}
	if mongo.IsDuplicateKeyError(err) {
		return errorx.Validationf("%s: duplicate key", op)
	}
	if errorx.KindOf(err) != errorx.KindUnknown {
		return err
	}
	return errorx.TransientIO(op+" failed", err)
}
