package syncbridge

import (
	"context"

	"golang.org/x/sync/errgroup"

	"pickup/pkg/logger"
)

// Bridge runs the bus and all its sources. A failing source is logged and dropped; the
// others keep running.
type Bridge struct {
	bus     *Bus
	sources []Source
	logger  logger.Logger
}

// NewBridge creates a bridge over bus.
func NewBridge(bus *Bus, log logger.Logger, sources ...Source) *Bridge {
	return &Bridge{bus: bus, sources: sources, logger: log}
}

// Bus returns the underlying bus.
func (b *Bridge) Bus() *Bus {
	return b.bus
}

// Run blocks until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return b.bus.Run(ctx)
	})

	// prime the views before the first change arrives
	for _, collection := range b.bus.Collections() {
		b.bus.Notify(collection, SourceLocal)
	}

	for _, src := range b.sources {
		g.Go(func() error {
			b.logger.Infof(ctx, "[SyncBridge] source %s started", src.Name())
			if err := src.Run(ctx); err != nil && ctx.Err() == nil {
				b.logger.Warnf(ctx, "[SyncBridge] source %s stopped: %v", src.Name(), err)
			}
			return nil
		})
	}

	return g.Wait()
}
