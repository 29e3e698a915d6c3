// Package receiptjob is the message shape shared by the API server (publisher) and the
// print worker (consumer).
package receiptjob

import "time"

// ActionPrintReceipt is the action type of a receipt print job.
const ActionPrintReceipt = "receipt_print"

// Job envelope: payload.data carries the routing fields, payload.data.data the business data.
type Job struct {
	Payload *Payload `json:"payload"`
}

type Payload struct {
	Data *Envelope `json:"data"`
}

type Envelope struct {
	RequestID  string   `json:"request_id"`
	ActionType string   `json:"action_type"`
	ID         string   `json:"id"`
	Data       *Receipt `json:"data"`
}

// Receipt is everything needed to print without reading the store.
type Receipt struct {
	OrderID      string     `json:"order_id"`
	OrderNumber  string     `json:"order_number"`
	PickupNumber int        `json:"pickup_number"`
	PickupDate   string     `json:"pickup_date"`
	TableNumber  string     `json:"table_number,omitempty"`
	CustomerName string     `json:"customer_name,omitempty"`
	Lines        []Line     `json:"lines"`
	TotalAmount  string     `json:"total_amount"`
	Status       string     `json:"status"`
	Payment      *Payment   `json:"payment,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	RequestedAt  *time.Time `json:"requested_at,omitempty"`
}

type Line struct {
	Name      string   `json:"name"`
	Size      string   `json:"size,omitempty"`
	AddOns    []string `json:"add_ons,omitempty"`
	Quantity  int      `json:"quantity"`
	UnitPrice string   `json:"unit_price"`
	Subtotal  string   `json:"subtotal"`
}

type Payment struct {
	ID            string     `json:"id"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	Amount        string     `json:"amount"`
	TransactionID string     `json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

// New wraps a receipt in the job envelope.
func New(requestID string, r *Receipt) *Job {
	return &Job{Payload: &Payload{Data: &Envelope{
		RequestID:  requestID,
		ActionType: ActionPrintReceipt,
		ID:         r.OrderID,
		Data:       r,
	}}}
}
