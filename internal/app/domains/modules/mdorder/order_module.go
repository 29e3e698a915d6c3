package mdorder

import (
	"context"
	"sort"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/modules/mdsequence"
	"pickup/internal/app/domains/repo/rporder"
)

// OrderModule is the data layer of the order workflow.
type OrderModule struct {
	orderRepo rporder.OrderRepository
	allocator *mdsequence.Allocator
}

// NewOrderModule creates an order module.
func NewOrderModule(orderRepo rporder.OrderRepository, allocator *mdsequence.Allocator) *OrderModule {
	return &OrderModule{
		orderRepo: orderRepo,
		allocator: allocator,
	}
}

// AllocateSequence consumes the next order and pickup number.
func (m *OrderModule) AllocateSequence(ctx context.Context) (etorder.Sequence, error) {
	return m.allocator.Allocate(ctx)
}

// CreateOrder stores a new order.
func (m *OrderModule) CreateOrder(ctx context.Context, order *etorder.Order) error {
	return m.orderRepo.Create(ctx, order)
}

// GetOrder returns an order by id.
func (m *OrderModule) GetOrder(ctx context.Context, orderID string) (*etorder.Order, error) {
	return m.orderRepo.GetByID(ctx, orderID)
}

// GetOrderByNumber returns an order by its order number.
func (m *OrderModule) GetOrderByNumber(ctx context.Context, orderNumber string) (*etorder.Order, error) {
	return m.orderRepo.GetByNumber(ctx, orderNumber)
}

// UpdateOrder applies a partial update.
func (m *OrderModule) UpdateOrder(ctx context.Context, orderID string, patch etorder.Patch) (*etorder.Order, error) {
	return m.orderRepo.Update(ctx, orderID, patch)
}

// ListOrders returns all orders, newest first. A non-empty status filters the result.
func (m *OrderModule) ListOrders(ctx context.Context, status etorder.Status) ([]*etorder.Order, error) {
	orders, err := m.orderRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if status != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.Status == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	SortNewestFirst(orders)
	return orders, nil
}

// SortNewestFirst orders by createdAt descending, ties by order number descending.
func SortNewestFirst(orders []*etorder.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].OrderNumber > orders[j].OrderNumber
	})
}
