package etpayment

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPaymentID = errors.New("payment ID cannot be empty")
	ErrInvalidOrderID   = errors.New("payment order ID cannot be empty")
)

// Method is how the customer pays.
type Method string

const (
	MethodCash Method = "cash"
	MethodCard Method = "card"
	MethodVisa Method = "visa"
)

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodVisa:
		return true
	}
	return false
}

// Electronic reports whether m is confirmed through the external handshake.
func (m Method) Electronic() bool {
	return m == MethodCard || m == MethodVisa
}

// Status is the payment status, mirrored on the order as paymentStatus.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further payment transition is possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Payment is one payment attempt for an order. Never deleted, only superseded.
type Payment struct {
	ID            string
	OrderID       string
	Method        Method
	Amount        decimal.Decimal
	Status        Status
	TransactionID string
	PaidAt        *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPayment creates a payment attempt in the given status.
func NewPayment(id, orderID string, method Method, amount decimal.Decimal, status Status, transactionID string, now time.Time) (*Payment, error) {
	if id == "" {
		return nil, ErrInvalidPaymentID
	}
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	p := &Payment{
		ID:            id,
		OrderID:       orderID,
		Method:        method,
		Amount:        amount,
		Status:        status,
		TransactionID: transactionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == StatusCompleted {
		paidAt := now
		p.PaidAt = &paidAt
	}
	return p, nil
}

// Patch is a partial update of a payment. Nil fields are left untouched.
type Patch struct {
	Status        *Status
	TransactionID *string
	PaidAt        *time.Time
}

// IsEmpty reports whether the patch writes nothing.
func (p Patch) IsEmpty() bool {
	return p.Status == nil && p.TransactionID == nil && p.PaidAt == nil
}

// Apply writes the provided fields onto pay.
func (p Patch) Apply(pay *Payment, now time.Time) {
	if p.Status != nil {
		pay.Status = *p.Status
	}
	if p.TransactionID != nil {
		pay.TransactionID = *p.TransactionID
	}
	if p.PaidAt != nil {
		paidAt := *p.PaidAt
		pay.PaidAt = &paidAt
	}
	pay.UpdatedAt = now
}

// Completed builds the patch that marks a payment paid at now.
func Completed(now time.Time) Patch {
	status := StatusCompleted
	return Patch{Status: &status, PaidAt: &now}
}

// WithStatus builds a status-only patch.
func WithStatus(status Status) Patch {
	return Patch{Status: &status}
}
