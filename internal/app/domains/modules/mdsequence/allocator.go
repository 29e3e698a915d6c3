package mdsequence

import (
	"context"
	"fmt"
	"sync"

	"pickup/internal/app/domains/entity/etcounter"
	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/repo/rpcounter"
	"pickup/pkg/clock"
)

// Allocator hands out order numbers and daily pickup numbers.
//
// The in-process mutex serialises allocations from this process; the repository's
// atomic Update covers other processes writing to the same backend.
type Allocator struct {
	mu    sync.Mutex
	repo  rpcounter.CounterRepository
	clock clock.Clock
}

// NewAllocator creates an allocator over repo.
func NewAllocator(repo rpcounter.CounterRepository, clk clock.Clock) *Allocator {
	return &Allocator{repo: repo, clock: clk}
}

// Allocate consumes the next sequence. Nothing is returned unless the incremented
// counter was persisted.
func (a *Allocator) Allocate(ctx context.Context) (etorder.Sequence, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	today := clock.Today(a.clock)
	counter, err := a.repo.Update(ctx, func(c *etcounter.SequenceCounter) error {
		c.Advance(today)
		return nil
	})
	if err != nil {
		return etorder.Sequence{}, fmt.Errorf("allocate sequence: %w", err)
	}

	return etorder.Sequence{
		OrderNumber:  counter.OrderNumber(),
		PickupNumber: counter.DailyPickupCount,
		PickupDate:   counter.LastPickupDate,
	}, nil
}
