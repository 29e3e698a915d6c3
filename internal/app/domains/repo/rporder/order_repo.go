package rporder

import (
	"context"

	"pickup/internal/app/domains/entity/etorder"
)

// OrderRepository is the order store contract. Implementations live under infra/persistence
// and must not carry business rules.
type OrderRepository interface {
	// Create stores a new order.
	Create(ctx context.Context, order *etorder.Order) error

	// GetByID returns errorx.OrderNotFound when absent.
	GetByID(ctx context.Context, orderID string) (*etorder.Order, error)

	// GetByNumber looks an order up by its order number.
	GetByNumber(ctx context.Context, orderNumber string) (*etorder.Order, error)

	// Update writes only the fields set on patch and returns the stored order.
	Update(ctx context.Context, orderID string, patch etorder.Patch) (*etorder.Order, error)

	// List returns every order in no particular order.
	List(ctx context.Context) ([]*etorder.Order, error)
}
