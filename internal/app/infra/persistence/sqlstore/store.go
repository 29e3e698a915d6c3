package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/clock"
	"pickup/pkg/errorx"
)

// Store is the relational backend.
type Store struct {
	db    *gorm.DB
	clock clock.Clock
	hooks []document.WriteHook
}

// New creates a store over an opened database.
func New(db *gorm.DB, clk clock.Clock, hooks ...document.WriteHook) *Store {
	return &Store{db: db, clock: clk, hooks: hooks}
}

// OnWrite registers another hook. Not safe to call concurrently with writes.
func (s *Store) OnWrite(hook document.WriteHook) {
	s.hooks = append(s.hooks, hook)
}

func (s *Store) Orders() *OrderStore     { return &OrderStore{s} }
func (s *Store) Payments() *PaymentStore { return &PaymentStore{s} }
func (s *Store) Counter() *CounterStore  { return &CounterStore{s} }

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) written(ctx context.Context, collection string) {
	document.Fire(ctx, s.hooks, collection)
}

// dbError maps gorm errors onto the error kinds callers branch on.
func dbError(op string, err error, notFound func() error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound()
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Validationf("%s: duplicate key", op)
	}
	if errorx.KindOf(err) != errorx.KindUnknown {
		return err
	}
	return errorx.TransientIO(op+" failed", err)
}
