package response

import "time"

// PaymentResponse is the public payment shape.
type PaymentResponse struct {
	ID            string     `json:"id"`
	OrderID       string     `json:"orderId"`
	Method        string     `json:"method"`
	Amount        string     `json:"amount"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PaymentResultResponse is the outcome of a payment attempt.
type PaymentResultResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Payment *PaymentResponse `json:"payment,omitempty"`
}
