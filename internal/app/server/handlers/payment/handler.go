package payment

import "pickup/internal/app/domains/services/svorder"

// PaymentHandler serves the payment endpoints.
type PaymentHandler struct {
	orderService *svorder.OrderService
}

// NewPaymentHandler creates the payment handler.
func NewPaymentHandler(orderService *svorder.OrderService) *PaymentHandler {
	return &PaymentHandler{orderService: orderService}
}
