package syncbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/atomic"

	"pickup/pkg/clock"
	"pickup/pkg/logger"
)

// Sources that can trigger a refresh.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
	SourceWatch  = "watch"
	SourcePoll   = "poll"
)

// Loader reads the full current content of a collection.
type Loader func(ctx context.Context) (interface{}, error)

// Snapshot is the full content of a collection as delivered to subscribers. Consumers
// replace their view with Data wholesale.
type Snapshot struct {
	Collection  string
	Data        interface{}
	Fingerprint uint64
	Source      string
	// Stale is set once the poller gave up and cleared by the next successful change event.
	Stale bool
	At    time.Time
}

// Subscription receives snapshots of one collection. Only the latest undelivered
// snapshot is kept.
type Subscription struct {
	C <-chan Snapshot

	ch         chan Snapshot
	bus        *Bus
	id         int
	collection string
}

// Close detaches the subscription from the bus.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
}

// Bus fans collection changes out to subscribers. Every trigger reloads the collection
// and the result is dropped when it matches the last delivered snapshot.
type Bus struct {
	loaders map[string]Loader

	// refreshMu serialises load and publish so snapshots never go backwards.
	refreshMu sync.Mutex

	mu      sync.Mutex
	last    map[string]Snapshot
	subs    map[string]map[int]*Subscription
	nextID  int
	pending map[string]string
	wake    chan struct{}

	stale       *atomic.Bool
	lastRefresh *atomic.Time
	clock       clock.Clock
	logger      logger.Logger
}

// NewBus creates an event bus.
func NewBus(clk clock.Clock, log logger.Logger) *Bus {
	return &Bus{
		loaders:     make(map[string]Loader),
		last:        make(map[string]Snapshot),
		subs:        make(map[string]map[int]*Subscription),
		pending:     make(map[string]string),
		wake:        make(chan struct{}, 1),
		stale:       atomic.NewBool(false),
		lastRefresh: atomic.NewTime(time.Time{}),
		clock:       clk,
		logger:      log,
	}
}

// Register sets the loader of a collection. Must be called before Run.
func (b *Bus) Register(collection string, loader Loader) {
	b.loaders[collection] = loader
}

// Collections lists the registered collections.
func (b *Bus) Collections() []string {
	out := make([]string, 0, len(b.loaders))
	for c := range b.loaders {
		out = append(out, c)
	}
	return out
}

// Subscribe registers interest in collection. The last known snapshot is delivered
// right away when there is one.
func (b *Bus) Subscribe(collection string) *Subscription {
	ch := make(chan Snapshot, 1)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{C: ch, ch: ch, bus: b, id: b.nextID, collection: collection}
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[int]*Subscription)
	}
	b.subs[collection][sub.id] = sub
	if snap, ok := b.last[collection]; ok {
		deliver(sub, snap)
	}
	return sub
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[sub.collection], sub.id)
}

// Notify queues a refresh of collection. Safe to call from a write path: it never blocks
// and bursts of notifications for one collection collapse into one reload.
func (b *Bus) Notify(collection, source string) {
	if _, ok := b.loaders[collection]; !ok {
		return
	}

	b.mu.Lock()
	b.pending[collection] = source
	b.mu.Unlock()

	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Run processes queued notifications until ctx is cancelled.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-b.wake:
		}

		b.mu.Lock()
		batch := b.pending
		b.pending = make(map[string]string, len(batch))
		b.mu.Unlock()

		for collection, source := range batch {
			if err := b.Refresh(ctx, collection, source); err != nil {
				b.logger.Warnf(ctx, "[SyncBridge] refresh %s after %s change failed: %v", collection, source, err)
			}
		}
	}
}

// Refresh reloads collection and publishes it when it changed. Returns the load error
// so callers can count failures.
func (b *Bus) Refresh(ctx context.Context, collection, source string) error {
	loader, ok := b.loaders[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}

	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	data, err := loader(ctx)
	if err != nil {
		return err
	}
	fp, err := Fingerprint(data)
	if err != nil {
		return err
	}
	b.lastRefresh.Store(b.clock.Now())

	b.mu.Lock()
	defer b.mu.Unlock()

	// a change event proves the data is current again
	if source != SourcePoll && b.stale.Load() {
		b.stale.Store(false)
		b.redeliverLocked(false)
	}

	if prev, ok := b.last[collection]; ok && prev.Fingerprint == fp {
		return nil
	}
	snap := Snapshot{
		Collection:  collection,
		Data:        data,
		Fingerprint: fp,
		Source:      source,
		Stale:       b.stale.Load(),
		At:          b.clock.Now(),
	}
	b.last[collection] = snap
	for _, sub := range b.subs[collection] {
		deliver(sub, snap)
	}
	return nil
}

// Last returns the last published snapshot of collection.
func (b *Bus) Last(collection string) (Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap, ok := b.last[collection]
	return snap, ok
}

// LastRefresh is when any source last loaded a collection successfully.
func (b *Bus) LastRefresh() time.Time {
	return b.lastRefresh.Load()
}

// SetStale flips the staleness flag and redelivers the last snapshots so views can show
// or clear the notice.
func (b *Bus) SetStale(stale bool) {
	if b.stale.Swap(stale) == stale {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.redeliverLocked(stale)
}

// redeliverLocked pushes every last snapshot again with the given flag. Caller holds b.mu.
func (b *Bus) redeliverLocked(stale bool) {
	for collection, snap := range b.last {
		snap.Stale = stale
		b.last[collection] = snap
		for _, sub := range b.subs[collection] {
			deliver(sub, snap)
		}
	}
}

// Stale reports whether the bus lost its freshness guarantee.
func (b *Bus) Stale() bool {
	return b.stale.Load()
}

// deliver replaces an undelivered snapshot. Caller holds b.mu.
func deliver(sub *Subscription, snap Snapshot) {
	for {
		select {
		case sub.ch <- snap:
			return
		default:
		}
		select {
		case <-sub.ch:
		default:
		}
	}
}

// Fingerprint hashes the JSON form of data.
func Fingerprint(data interface{}) (uint64, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return 0, fmt.Errorf("fingerprint snapshot: %w", err)
	}
	return xxhash.Sum64(raw), nil
}
