package idgen

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator produces entity ids and the synthetic reference stored on cash payments.
type Generator interface {
	NewID() string
	CashReference() string
}

// SnowflakeIDGenerator 15-digit ids: seconds since epoch, machine id (2 digits), sequence (3 digits).
type SnowflakeIDGenerator struct {
	mu        sync.Mutex
	epoch     int64
	machineID int64
	sequence  int64
	lastTime  int64
	now       func() time.Time
}

const (
	maxMachineID = 99
	maxSequence  = 999

	// CashReferencePrefix marks a transaction id that no provider issued.
	CashReferencePrefix = "cash_"
)

// NewSnowflakeIDGenerator machineID outside 0-99 falls back to 0.
func NewSnowflakeIDGenerator(machineID int64) *SnowflakeIDGenerator {
	if machineID < 0 || machineID > maxMachineID {
		machineID = 0
	}

	return &SnowflakeIDGenerator{
		epoch:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
		machineID: machineID,
		now:       time.Now,
	}
}

// NextID returns the next id, waiting for the next second when the sequence is exhausted.
func (g *SnowflakeIDGenerator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().Unix()
	if now <= g.lastTime {
		// same second (or a clock step back): keep counting on lastTime
		now = g.lastTime
		g.sequence = (g.sequence + 1) % (maxSequence + 1)
		if g.sequence == 0 {
			now = g.lastTime + 1
			for g.now().Unix() < now {
				time.Sleep(time.Millisecond)
			}
		}
	} else {
		g.sequence = 0
	}
	g.lastTime = now

	return (now-g.epoch)*100000 + g.machineID*1000 + g.sequence
}

// UUIDGenerator uses random UUIDs for entity ids and snowflake ids for cash references.
type UUIDGenerator struct {
	snowflake *SnowflakeIDGenerator
}

// New creates the default generator.
func New(machineID int64) *UUIDGenerator {
	return &UUIDGenerator{snowflake: NewSnowflakeIDGenerator(machineID)}
}

func (g *UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// CashReference e.g. "cash_1830012345001".
func (g *UUIDGenerator) CashReference() string {
	return CashReferencePrefix + strconv.FormatInt(g.snowflake.NextID(), 10)
}
