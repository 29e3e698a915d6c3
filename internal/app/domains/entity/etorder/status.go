package etorder

import (
	"time"

	"pickup/internal/app/domains/entity/etpayment"
	"pickup/pkg/errorx"
)

// Status is the kitchen workflow status of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions lists the legal forward moves. Cancel is legal from any non-terminal state.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return s, nil
	}
	return "", errorx.Validationf("unknown order status: %q", raw)
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active reports whether the order still waits in the kitchen queue.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusPreparing
}

// CanTransitionTo reports whether s -> next is a legal move.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Patch is a partial update of an order. Nil fields are left untouched.
// Identity, sequence, items and total are not patchable.
type Patch struct {
	Status        *Status
	PaymentMethod *etpayment.Method
	PaymentStatus *etpayment.Status
	PaymentID     *string
	NotifiedAt    *time.Time
}

// IsEmpty reports whether the patch writes nothing.
func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.PaymentMethod == nil && p.PaymentStatus == nil &&
		p.PaymentID == nil && p.NotifiedAt == nil
}

// Apply writes the provided fields onto o.
func (p Patch) Apply(o *Order, now time.Time) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.PaymentMethod != nil {
		o.PaymentMethod = *p.PaymentMethod
	}
	if p.PaymentStatus != nil {
		o.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentID != nil {
		o.PaymentID = *p.PaymentID
	}
	if p.NotifiedAt != nil {
		notifiedAt := *p.NotifiedAt
		o.NotifiedAt = &notifiedAt
	}
	o.UpdatedAt = now
}

// Transition validates current -> next and returns the patch to persist. Entering ready
// stamps notifiedAt unless it is already set.
func (o *Order) Transition(next Status, now time.Time) (Patch, error) {
	if o.Status == StatusCancelled && next != StatusCancelled {
		return Patch{}, errorx.OrderCancelled(o.ID)
	}
	if !o.Status.CanTransitionTo(next) {
		return Patch{}, errorx.InvalidTransition(string(o.Status), string(next))
	}

	patch := Patch{Status: &next}
	if next == StatusReady && o.NotifiedAt == nil {
		patch.NotifiedAt = &now
	}
	return patch, nil
}

// RenotifyPolicy decides what a notify call does on an order that is already ready.
type RenotifyPolicy string

const (
	// RenotifyKeep leaves notifiedAt untouched.
	RenotifyKeep RenotifyPolicy = "keep"
	// RenotifyRestamp moves notifiedAt to the time of the latest notify.
	RenotifyRestamp RenotifyPolicy = "restamp"
)

// Notify moves a pending or preparing order to ready and stamps notifiedAt. On an order
// already ready the result depends on policy; an empty patch means nothing to write.
func (o *Order) Notify(policy RenotifyPolicy, now time.Time) (Patch, error) {
	switch o.Status {
	case StatusPending, StatusPreparing:
		ready := StatusReady
		patch := Patch{Status: &ready}
		if o.NotifiedAt == nil {
			patch.NotifiedAt = &now
		}
		return patch, nil
	case StatusReady:
		if policy == RenotifyRestamp {
			return Patch{NotifiedAt: &now}, nil
		}
		return Patch{}, nil
	case StatusCancelled:
		return Patch{}, errorx.OrderCancelled(o.ID)
	default:
		return Patch{}, errorx.InvalidTransition(string(o.Status), string(StatusReady))
	}
}
