package clock

import (
	"sync"
	"time"
)

// DateLayout is the layout of a calendar day key such as a pickup date.
const DateLayout = "2006-01-02"

// Clock supplies the current time in the restaurant's location.
type Clock interface {
	Now() time.Time
}

// Today returns the calendar day of c.Now() as a date key.
func Today(c Clock) string {
	return c.Now().Format(DateLayout)
}

type systemClock struct {
	loc *time.Location
}

// New returns the wall clock in loc. A nil loc means time.Local.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fake is a settable clock for tests and simulations.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake starts a fake clock at t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
