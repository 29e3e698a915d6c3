package rppayment

import (
	"context"

	"pickup/internal/app/domains/entity/etpayment"
)

// PaymentRepository is the payment store contract.
type PaymentRepository interface {
	Create(ctx context.Context, payment *etpayment.Payment) error

	// GetByID returns errorx.PaymentNotFound when absent.
	GetByID(ctx context.Context, paymentID string) (*etpayment.Payment, error)

	// GetByOrder returns the most recently created payment of the order.
	GetByOrder(ctx context.Context, orderID string) (*etpayment.Payment, error)

	Update(ctx context.Context, paymentID string, patch etpayment.Patch) (*etpayment.Payment, error)

	List(ctx context.Context) ([]*etpayment.Payment, error)
}

// Latest picks the newest payment for orderID out of payments. Adapters without an
// indexed query use it for GetByOrder.
func Latest(payments []*etpayment.Payment, orderID string) *etpayment.Payment {
	var latest *etpayment.Payment
	for _, p := range payments {
		if p.OrderID != orderID {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) ||
			(p.CreatedAt.Equal(latest.CreatedAt) && p.ID > latest.ID) {
			latest = p
		}
	}
	return latest
}
