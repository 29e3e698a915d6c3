package liveview

import (
	"context"
	"errors"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/modules/mdorder"
	"pickup/internal/app/domains/modules/mdqueue"
	"pickup/internal/app/domains/repo/rppayment"
	"pickup/internal/app/domains/services/svorder"
	"pickup/internal/app/infra/persistence/document"
	"pickup/internal/app/syncbridge"
	"pickup/pkg/errorx"
	"pickup/pkg/logger"
)

// OrderReader is the read side of the order service.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (*etorder.Order, error)
	GetPaymentByOrder(ctx context.Context, orderID string) (*etpayment.Payment, error)
	GetQueue(ctx context.Context, orderID string) (*svorder.QueueInfo, error)
	ListOrders(ctx context.Context, status etorder.Status) ([]*etorder.Order, error)
}

// CustomerState is what the customer's order page shows.
type CustomerState struct {
	Order   *etorder.Order
	Payment *etpayment.Payment
	Queue   mdqueue.Estimate
	Stale   bool
}

// AdminState is what the kitchen dashboard shows.
type AdminState struct {
	Orders []*etorder.Order
	Stale  bool
}

// Views builds the customer and admin views and keeps them current from the bus.
type Views struct {
	reader   OrderReader
	bus      *syncbridge.Bus
	timeouts Timeouts
	retry    RetryPolicy
	logger   logger.Logger
}

// NewViews creates the view builder.
func NewViews(reader OrderReader, bus *syncbridge.Bus, timeouts Timeouts, retry RetryPolicy, log logger.Logger) *Views {
	return &Views{reader: reader, bus: bus, timeouts: timeouts, retry: retry, logger: log}
}

// CustomerSnapshot reads the current customer view.
func (v *Views) CustomerSnapshot(ctx context.Context, orderID string) (*CustomerState, error) {
	order, err := fetch(ctx, "order fetch", v.timeouts.Order, v.retry, func(ctx context.Context) (*etorder.Order, error) {
		return v.reader.GetOrder(ctx, orderID)
	})
	if err != nil {
		return nil, err
	}

	payment, err := fetch(ctx, "payment fetch", v.timeouts.Payment, v.retry, func(ctx context.Context) (*etpayment.Payment, error) {
		p, err := v.reader.GetPaymentByOrder(ctx, orderID)
		if errors.Is(err, errorx.ErrPaymentNotFound) {
			return nil, nil
		}
		return p, err
	})
	if err != nil {
		return nil, err
	}

	queue, err := fetch(ctx, "queue info", v.timeouts.Queue, v.retry, func(ctx context.Context) (*svorder.QueueInfo, error) {
		return v.reader.GetQueue(ctx, orderID)
	})
	if err != nil {
		return nil, err
	}

	return &CustomerState{Order: order, Payment: payment, Queue: queue.Estimate, Stale: v.bus.Stale()}, nil
}

// StreamCustomer emits the customer view now and after every change until ctx is
// cancelled or emit fails. Identical consecutive states are emitted once.
func (v *Views) StreamCustomer(ctx context.Context, orderID string, emit func(*CustomerState) error) error {
	ordersSub := v.bus.Subscribe(document.CollectionOrders)
	defer ordersSub.Close()
	paymentsSub := v.bus.Subscribe(document.CollectionPayments)
	defer paymentsSub.Close()
	drain(ordersSub, paymentsSub)

	state, err := v.CustomerSnapshot(ctx, orderID)
	if err != nil {
		return err
	}
	e := newEmitter(emit)
	if err := e.send(state); err != nil {
		return err
	}

	var orders []*etorder.Order
	for {
		next := *state
		select {
		case <-ctx.Done():
			return nil
		case snap := <-ordersSub.C:
			list, ok := snap.Data.([]*etorder.Order)
			if !ok {
				continue
			}
			orders = list
			for _, o := range orders {
				if o.ID == orderID {
					next.Order = o
				}
			}
			next.Queue = mdqueue.EstimateQueue(next.Order, orders)
			next.Stale = snap.Stale
		case snap := <-paymentsSub.C:
			list, ok := snap.Data.([]*etpayment.Payment)
			if !ok {
				continue
			}
			if latest := rppayment.Latest(list, orderID); latest != nil {
				next.Payment = latest
			}
			next.Stale = snap.Stale
		}

		state = &next
		if err := e.send(state); err != nil {
			return err
		}
	}
}

// AdminSnapshot reads the order list, newest first.
func (v *Views) AdminSnapshot(ctx context.Context, status etorder.Status) (*AdminState, error) {
	orders, err := fetch(ctx, "order list", v.timeouts.Order, v.retry, func(ctx context.Context) ([]*etorder.Order, error) {
		return v.reader.ListOrders(ctx, status)
	})
	if err != nil {
		return nil, err
	}
	return &AdminState{Orders: orders, Stale: v.bus.Stale()}, nil
}

// StreamAdmin emits the order list now and after every change.
func (v *Views) StreamAdmin(ctx context.Context, status etorder.Status, emit func(*AdminState) error) error {
	sub := v.bus.Subscribe(document.CollectionOrders)
	defer sub.Close()
	drain(sub)

	state, err := v.AdminSnapshot(ctx, status)
	if err != nil {
		return err
	}
	e := newEmitter(emit)
	if err := e.send(state); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-sub.C:
			list, ok := snap.Data.([]*etorder.Order)
			if !ok {
				continue
			}
			orders := make([]*etorder.Order, 0, len(list))
			for _, o := range list {
				if status == "" || o.Status == status {
					orders = append(orders, o)
				}
			}
			mdorder.SortNewestFirst(orders)
			if err := e.send(&AdminState{Orders: orders, Stale: snap.Stale}); err != nil {
				return err
			}
		}
	}
}

// drain discards the cached snapshot Subscribe hands out. It can predate the fetch that
// follows and would move the view backwards.
func drain(subs ...*syncbridge.Subscription) {
	for _, sub := range subs {
		select {
		case <-sub.C:
		default:
		}
	}
}

// emitter drops a state identical to the previous one.
type emitter[T any] struct {
	emit func(T) error
	last uint64
	sent bool
}

func newEmitter[T any](emit func(T) error) *emitter[T] {
	return &emitter[T]{emit: emit}
}

func (e *emitter[T]) send(state T) error {
	fp, err := syncbridge.Fingerprint(state)
	if err == nil && e.sent && fp == e.last {
		return nil
	}
	e.last, e.sent = fp, true
	return e.emit(state)
}
