package syncbridge

import (
	"context"
	"time"

	"go.uber.org/atomic"

	"pickup/pkg/logger"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultMaxFailures  = 5
)

// Poller reloads every collection on an interval. A tick is skipped when another source
// refreshed the bus within the last half interval. After maxFailures consecutive failed
// ticks the poller stops and marks the bus stale.
type Poller struct {
	bus         *Bus
	interval    time.Duration
	maxFailures int32
	failures    *atomic.Int32
	disabled    *atomic.Bool
	logger      logger.Logger
}

// NewPoller creates a poller. Zero values pick the defaults.
func NewPoller(bus *Bus, interval time.Duration, maxFailures int, log logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	return &Poller{
		bus:         bus,
		interval:    interval,
		maxFailures: int32(maxFailures),
		failures:    atomic.NewInt32(0),
		disabled:    atomic.NewBool(false),
		logger:      log,
	}
}

func (p *Poller) Name() string { return "poller" }

// Disabled reports whether the poller gave up.
func (p *Poller) Disabled() bool {
	return p.disabled.Load()
}

// Failures is the current count of consecutive failed ticks.
func (p *Poller) Failures() int {
	return int(p.failures.Load())
}

// Run polls until ctx is cancelled or the failure budget is spent.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if !p.Tick(ctx) {
			return nil
		}
	}
}

// Tick runs one poll round. Returns false once the poller is disabled.
func (p *Poller) Tick(ctx context.Context) bool {
	if p.disabled.Load() {
		return false
	}
	if last := p.bus.LastRefresh(); !last.IsZero() && p.bus.clock.Now().Sub(last) < p.interval/2 {
		return true
	}

	var failed error
	for _, collection := range p.bus.Collections() {
		if err := p.bus.Refresh(ctx, collection, SourcePoll); err != nil {
			failed = err
		}
	}

	if failed == nil {
		if p.failures.Swap(0) > 0 {
			p.logger.Infof(ctx, "[Poller] recovered")
		}
		return true
	}

	n := p.failures.Inc()
	p.logger.Warnf(ctx, "[Poller] poll failed (%d/%d): %v", n, p.maxFailures, failed)
	if n >= p.maxFailures {
		p.disabled.Store(true)
		p.bus.SetStale(true)
		p.logger.Errorf(ctx, "[Poller] giving up after %d consecutive failures, views are stale", n)
		return false
	}
	return true
}
