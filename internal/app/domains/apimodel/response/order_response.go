package response

import "time"

// OrderResponse is the public order shape. Money is rendered with two decimals.
type OrderResponse struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	PickupNumber  int         `json:"pickupNumber"`
	PickupDate    string      `json:"pickupDate"`
	Items         []*LineItem `json:"items"`
	TotalAmount   string      `json:"totalAmount" example:"50.00"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	PaymentStatus string      `json:"paymentStatus"`
	PaymentID     string      `json:"paymentId,omitempty"`
	NotifiedAt    *time.Time  `json:"notifiedAt,omitempty"`
	TableNumber   string      `json:"tableNumber,omitempty"`
	CustomerName  string      `json:"customerName,omitempty"`
	Phone         string      `json:"phone,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// LineItem is one order line.
type LineItem struct {
	MenuItemID string    `json:"menuItemId"`
	Name       string    `json:"name"`
	Size       *Option   `json:"size,omitempty"`
	AddOns     []*Option `json:"addOns,omitempty"`
	Price      string    `json:"price"`
	Quantity   int       `json:"quantity"`
	Subtotal   string    `json:"subtotal"`
}

// Option is a chosen size or add-on.
type Option struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// QueueResponse is a customer's place in the kitchen queue.
type QueueResponse struct {
	OrderID                       string  `json:"orderId"`
	OrderNumber                   string  `json:"orderNumber"`
	PickupNumber                  int     `json:"pickupNumber"`
	Status                        string  `json:"status"`
	CurrentlyPreparingOrderNumber *string `json:"currentlyPreparingOrderNumber"`
	AheadCount                    int     `json:"aheadCount"`
	ActiveCount                   int     `json:"activeCount"`
}

// PrintResponse acknowledges a queued receipt.
type PrintResponse struct {
	JobID string `json:"jobId"`
}
