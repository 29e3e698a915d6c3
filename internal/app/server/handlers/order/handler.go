package order

import (
	"pickup/internal/app/domains/services/svorder"
	"pickup/internal/app/liveview"
)

// OrderHandler serves the customer order endpoints.
type OrderHandler struct {
	orderService *svorder.OrderService
	views        *liveview.Views
}

// NewOrderHandler creates the order handler.
func NewOrderHandler(orderService *svorder.OrderService, views *liveview.Views) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		views:        views,
	}
}
