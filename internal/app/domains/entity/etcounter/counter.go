package etcounter

import "fmt"

// OrderNumberWidth is the zero-padded width of an order number.
const OrderNumberWidth = 4

// SequenceCounter is the per-backend singleton behind order and pickup numbers.
type SequenceCounter struct {
	TotalOrders      int64
	DailyPickupCount int
	LastPickupDate   string
	// Version is bumped by adapters that use compare-and-swap.
	Version int64
}

// Advance consumes the next sequence for today. The daily count restarts at the
// first allocation of a new calendar day.
func (c *SequenceCounter) Advance(today string) {
	if c.LastPickupDate != today {
		c.DailyPickupCount = 0
		c.LastPickupDate = today
	}
	c.TotalOrders++
	c.DailyPickupCount++
}

// OrderNumber formats TotalOrders.
func (c *SequenceCounter) OrderNumber() string {
	return FormatOrderNumber(c.TotalOrders)
}

// FormatOrderNumber zero-pads n to OrderNumberWidth. Larger numbers keep all digits.
func FormatOrderNumber(n int64) string {
	return fmt.Sprintf("%0*d", OrderNumberWidth, n)
}
