package syncbridge

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/infra/persistence/document"
	"pickup/internal/app/infra/persistence/kvstore"
	"pickup/internal/app/infra/persistence/redis"
	"pickup/internal/app/infra/persistence/storetest"
	"pickup/pkg/clock"
	"pickup/pkg/logger"
)

func TestLocalHook_StoreWritesReachSubscribers(t *testing.T) {
	clk := clock.NewFake(testStart)
	bus := NewBus(clk, logger.NewNop())
	store := kvstore.New(kvstore.NewMemoryKV(), clk, LocalHook(bus))
	bus.Register(document.CollectionOrders, func(ctx context.Context) (interface{}, error) {
		return store.Orders().List(ctx)
	})
	sub := bus.Subscribe(document.CollectionOrders)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = bus.Run(ctx) }()

	require.NoError(t, store.Orders().Create(ctx, storetest.Order("o-1", 1)))

	snap := receive(t, sub)
	orders, ok := snap.Data.([]*etorder.Order)
	require.True(t, ok)
	require.Len(t, orders, 1)
	assert.Equal(t, "o-1", orders[0].ID)
	assert.Equal(t, SourceLocal, snap.Source)
}

func TestRedisRelay_CrossProcess(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	newSide := func(origin string) (*Bus, *RedisRelay, *fakeCollection) {
		coll := &fakeCollection{data: []string{origin}}
		bus, clk := newTestBus(coll)
		relay := NewRedisRelay(redis.NewPubSubClient(rdb, "pickup:changes"), bus, origin, clk, logger.NewNop())
		go func() { _ = bus.Run(ctx) }()
		go func() { _ = relay.Run(ctx) }()
		return bus, relay, coll
	}

	_, relayA, collA := newSide("process-a")
	busB, _, _ := newSide("process-b")
	sub := busB.Subscribe("orders")

	hook := relayA.Hook()
	var snap Snapshot
	require.Eventually(t, func() bool {
		hook(context.Background(), "orders")
		select {
		case snap = <-sub.C:
			return true
		default:
			return false
		}
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, SourceRemote, snap.Source)

	assert.Never(t, func() bool { return collA.loadCount() > 0 }, 200*time.Millisecond, 20*time.Millisecond)
}

func TestWatchSource(t *testing.T) {
	coll := &fakeCollection{data: []string{"a"}}
	bus, _ := newTestBus(coll)
	sub := bus.Subscribe("orders")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = bus.Run(ctx) }()

	watch := func(ctx context.Context, onChange func(string)) error {
		onChange("orders")
		<-ctx.Done()
		return nil
	}
	go func() { _ = NewWatchSource(watch, bus).Run(ctx) }()

	assert.Equal(t, SourceWatch, receive(t, sub).Source)
}

func TestBridge_PrimesAndStops(t *testing.T) {
	coll := &fakeCollection{data: []string{"a"}}
	bus, _ := newTestBus(coll)
	sub := bus.Subscribe("orders")

	failing := NewWatchSource(func(context.Context, func(string)) error {
		return assert.AnError
	}, bus)
	bridge := NewBridge(bus, logger.NewNop(), failing)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bridge.Run(ctx) }()

	assert.Equal(t, []string{"a"}, receive(t, sub).Data)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("bridge did not stop")
	}
}
