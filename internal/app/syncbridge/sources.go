package syncbridge

import (
	"context"

	"pickup/internal/app/infra/persistence/document"
	"pickup/internal/app/infra/persistence/redis"
	"pickup/pkg/clock"
	"pickup/pkg/logger"
)

// Source is one independent path that feeds the bus.
type Source interface {
	Name() string
	Run(ctx context.Context) error
}

// LocalHook turns writes made by this process into bus notifications.
func LocalHook(bus *Bus) document.WriteHook {
	return func(_ context.Context, collection string) {
		bus.Notify(collection, SourceLocal)
	}
}

// RedisRelay shares local writes with other processes over a Redis channel and feeds
// their writes into the bus. Notifications carrying our own origin are ignored.
type RedisRelay struct {
	pubsub *redis.PubSubClient
	bus    *Bus
	origin string
	clock  clock.Clock
	logger logger.Logger
}

// NewRedisRelay creates a relay. origin must be unique per process.
func NewRedisRelay(pubsub *redis.PubSubClient, bus *Bus, origin string, clk clock.Clock, log logger.Logger) *RedisRelay {
	return &RedisRelay{pubsub: pubsub, bus: bus, origin: origin, clock: clk, logger: log}
}

func (r *RedisRelay) Name() string { return "redis" }

// Hook publishes every local write. A failed publish only delays other processes until
// their poller runs.
func (r *RedisRelay) Hook() document.WriteHook {
	return func(ctx context.Context, collection string) {
		err := r.pubsub.Publish(context.WithoutCancel(ctx), &redis.ChangeNotification{
			Collection: collection,
			Origin:     r.origin,
			Timestamp:  r.clock.Now().UnixMilli(),
		})
		if err != nil {
			r.logger.Warnf(ctx, "[SyncBridge] publish change of %s failed: %v", collection, err)
		}
	}
}

// Run listens until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	return r.pubsub.Listen(ctx, func(n *redis.ChangeNotification) {
		if n.Origin == r.origin {
			return
		}
		r.bus.Notify(n.Collection, SourceRemote)
	})
}

// WatchFunc is a backend change feed such as a Mongo change stream.
type WatchFunc func(ctx context.Context, onChange func(collection string)) error

// WatchSource feeds a backend change feed into the bus.
type WatchSource struct {
	watch WatchFunc
	bus   *Bus
}

// NewWatchSource creates a watch source.
func NewWatchSource(watch WatchFunc, bus *Bus) *WatchSource {
	return &WatchSource{watch: watch, bus: bus}
}

func (w *WatchSource) Name() string { return "watch" }

func (w *WatchSource) Run(ctx context.Context) error {
	return w.watch(ctx, func(collection string) {
		w.bus.Notify(collection, SourceWatch)
	})
}
