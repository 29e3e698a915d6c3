package rpcounter

import (
	"context"

	"pickup/internal/app/domains/entity/etcounter"
)

// MutateFunc edits the counter in place. Returning an error aborts the write.
type MutateFunc func(counter *etcounter.SequenceCounter) error

// CounterRepository stores the singleton sequence counter.
type CounterRepository interface {
	// Update runs fn against the current counter and persists the result atomically with
	// respect to other Update calls on the same backend. A missing counter starts zeroed.
	// fn may run more than once when the backend retries a lost compare-and-swap; the
	// returned value is the one that was persisted.
	Update(ctx context.Context, fn MutateFunc) (*etcounter.SequenceCounter, error)

	// Get reads the counter without changing it.
	Get(ctx context.Context) (*etcounter.SequenceCounter, error)
}
