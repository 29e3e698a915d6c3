package mdqueue

import (
	"sort"

	"pickup/internal/app/domains/entity/etorder"
)

// Estimate is a customer's view of the kitchen queue.
type Estimate struct {
	// CurrentlyPreparingOrderNumber is empty when nothing is being prepared.
	CurrentlyPreparingOrderNumber string
	// AheadCount is the number of active orders placed before the target.
	AheadCount int
	// ActiveCount is the number of pending or preparing orders.
	ActiveCount int
}

// EstimateQueue derives the queue position of target from all orders. Active orders are
// ranked by creation time, ties broken by order number. A target that is not active
// (or not in the list) has nobody ahead.
func EstimateQueue(target *etorder.Order, all []*etorder.Order) Estimate {
	active := make([]*etorder.Order, 0, len(all))
	for _, o := range all {
		if o != nil && o.Status.Active() {
			active = append(active, o)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.Before(active[j].CreatedAt)
		}
		return active[i].OrderNumber < active[j].OrderNumber
	})

	est := Estimate{ActiveCount: len(active)}
	for i, o := range active {
		if est.CurrentlyPreparingOrderNumber == "" && o.Status == etorder.StatusPreparing {
			est.CurrentlyPreparingOrderNumber = o.OrderNumber
		}
		if target != nil && o.ID == target.ID {
			est.AheadCount = i
		}
	}
	return est
}
