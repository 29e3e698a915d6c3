package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/clock"
	"pickup/pkg/errorx"
)

// Keys of the three documents. Each holds a whole collection.
const (
	KeyOrders   = "orders"
	KeyPayments = "payments"
	KeyCounter  = "orderCounter"
)

var keyCollections = map[string]string{
	KeyOrders:   document.CollectionOrders,
	KeyPayments: document.CollectionPayments,
	KeyCounter:  document.CollectionCounters,
}

// Store is the key/value backend. All writes go through write, which dispatches the hooks.
type Store struct {
	kv    KV
	clock clock.Clock
	hooks []document.WriteHook
}

// New creates a store over kv.
func New(kv KV, clk clock.Clock, hooks ...document.WriteHook) *Store {
	return &Store{kv: kv, clock: clk, hooks: hooks}
}

// OnWrite registers another hook. Not safe to call concurrently with writes.
func (s *Store) OnWrite(hook document.WriteHook) {
	s.hooks = append(s.hooks, hook)
}

// Orders returns the order repository view of the store.
func (s *Store) Orders() *OrderStore { return &OrderStore{s} }

// Payments returns the payment repository view of the store.
func (s *Store) Payments() *PaymentStore { return &PaymentStore{s} }

// Counter returns the counter repository view of the store.
func (s *Store) Counter() *CounterStore { return &CounterStore{s} }

// Close closes the underlying KV.
func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) write(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	if err := s.kv.Update(ctx, key, fn); err != nil {
		return ioError("write "+key, err)
	}
	collection := keyCollections[key]
	document.Fire(ctx, s.hooks, collection)
	return nil
}

func (s *Store) read(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, ioError("read "+key, err)
	}
	return raw, nil
}

func decodeList[T any](raw []byte) ([]*T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []*T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return list, nil
}

// ioError keeps domain errors as they are and marks everything else transient.
func ioError(op string, err error) error {
	if errorx.KindOf(err) != errorx.KindUnknown {
		return err
	}
	return errorx.TransientIO(op+" failed", err)
}
