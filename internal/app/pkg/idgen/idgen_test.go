package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnowflake_UniqueWithinSecond(t *testing.T) {
	g := NewSnowflakeIDGenerator(7)
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return fixed }

	seen := make(map[int64]bool)
	for i := 0; i < 500; i++ {
		id := g.NextID()
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Equal(t, int64(7), (g.NextID()/1000)%100)
}

func TestSnowflake_InvalidMachineID(t *testing.T) {
	g := NewSnowflakeIDGenerator(120)
	assert.Equal(t, int64(0), g.machineID)
}

func TestUUIDGenerator(t *testing.T) {
	g := New(1)

	assert.NotEqual(t, g.NewID(), g.NewID())
	ref := g.CashReference()
	assert.True(t, strings.HasPrefix(ref, CashReferencePrefix))
	assert.NotEqual(t, ref, g.CashReference())
}
