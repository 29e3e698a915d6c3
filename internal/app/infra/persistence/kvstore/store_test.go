package kvstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/infra/persistence/document"
	"pickup/internal/app/infra/persistence/storetest"
	"pickup/pkg/clock"
)

func reposOf(s *Store) storetest.Repos {
	return storetest.Repos{Orders: s.Orders(), Payments: s.Payments(), Counter: s.Counter()}
}

func TestMemoryStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Repos {
		return reposOf(New(NewMemoryKV(), clock.New(time.UTC)))
	})
}

func TestRedisStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Repos {
		mr := miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		return reposOf(New(NewRedisKV(rdb, "pickup:"), clock.New(time.UTC)))
	})
}

func TestRedisKV_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := New(NewRedisKV(rdb, "pickup:"), clock.New(time.UTC))
	require.NoError(t, s.Orders().Create(context.Background(), storetest.Order("o-1", 1)))

	assert.True(t, mr.Exists("pickup:"+KeyOrders))
}

func TestStore_WriteHooks(t *testing.T) {
	var mu sync.Mutex
	var got []string
	hook := func(_ context.Context, collection string) {
		mu.Lock()
		got = append(got, collection)
		mu.Unlock()
	}

	s := New(NewMemoryKV(), clock.New(time.UTC), hook)
	ctx := context.Background()
	require.NoError(t, s.Orders().Create(ctx, storetest.Order("o-1", 1)))

	status := etorder.StatusPreparing
	_, err := s.Orders().Update(ctx, "o-1", etorder.Patch{Status: &status})
	require.NoError(t, err)

	// failed writes do not fire
	_, err = s.Orders().Update(ctx, "missing", etorder.Patch{Status: &status})
	require.Error(t, err)

	assert.Equal(t, []string{document.CollectionOrders, document.CollectionOrders}, got)
}

func TestStore_UpdateStampsUpdatedAt(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	s := New(NewMemoryKV(), clk)
	ctx := context.Background()
	require.NoError(t, s.Orders().Create(ctx, storetest.Order("o-1", 1)))

	status := etorder.StatusPreparing
	updated, err := s.Orders().Update(ctx, "o-1", etorder.Patch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, clk.Now(), updated.UpdatedAt)
}
