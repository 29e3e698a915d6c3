package etorder

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"pickup/internal/app/domains/entity/etpayment"
)

var (
	ErrInvalidOrderID     = errors.New("order ID cannot be empty")
	ErrInvalidOrderNumber = errors.New("order number cannot be empty")
	ErrInvalidPickup      = errors.New("pickup number must be positive")
	ErrEmptyItems         = errors.New("order must have at least one item")
	ErrInvalidQuantity    = errors.New("item quantity must be positive")
	ErrNegativePrice      = errors.New("item price cannot be negative")
	ErrMissingMenuItem    = errors.New("item menu reference cannot be empty")
)

// Order is the aggregate root of the ordering domain.
type Order struct {
	ID           string
	OrderNumber  string
	PickupNumber int
	PickupDate   string
	Items        []*LineItem
	TotalAmount  decimal.Decimal
	Status       Status

	PaymentMethod etpayment.Method
	PaymentStatus etpayment.Status
	PaymentID     string

	NotifiedAt   *time.Time
	TableNumber  string
	CustomerName string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LineItem is one cart line. Prices are captured at order time.
type LineItem struct {
	MenuItemID string
	Name       string
	Size       *Option
	AddOns     []*Option
	UnitPrice  decimal.Decimal
	Quantity   int
}

// Option is a chosen size or add-on with its price delta.
type Option struct {
	Name       string
	PriceDelta decimal.Decimal
}

// Subtotal is (unitPrice + sizeDelta + Σ addOnDeltas) × quantity.
func (li *LineItem) Subtotal() decimal.Decimal {
	unit := li.UnitPrice
	if li.Size != nil {
		unit = unit.Add(li.Size.PriceDelta)
	}
	for _, addOn := range li.AddOns {
		if addOn != nil {
			unit = unit.Add(addOn.PriceDelta)
		}
	}
	return unit.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ComputeTotal sums the line subtotals.
func ComputeTotal(items []*LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ValidateItems checks the cart before an order is created.
func ValidateItems(items []*LineItem) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range items {
		if item == nil || item.MenuItemID == "" {
			return ErrMissingMenuItem
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.UnitPrice.IsNegative() {
			return ErrNegativePrice
		}
	}
	return nil
}

// Sequence is what the allocator hands out for a new order.
type Sequence struct {
	OrderNumber  string
	PickupNumber int
	PickupDate   string
}

// Contact holds the optional customer fields.
type Contact struct {
	TableNumber  string
	CustomerName string
	Phone        string
}

// NewOrder creates a pending order. The total is computed here and never again.
func NewOrder(id string, seq Sequence, items []*LineItem, contact Contact, now time.Time) (*Order, error) {
	if id == "" {
		return nil, ErrInvalidOrderID
	}
	if seq.OrderNumber == "" {
		return nil, ErrInvalidOrderNumber
	}
	if seq.PickupNumber <= 0 {
		return nil, ErrInvalidPickup
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	return &Order{
		ID:            id,
		OrderNumber:   seq.OrderNumber,
		PickupNumber:  seq.PickupNumber,
		PickupDate:    seq.PickupDate,
		Items:         items,
		TotalAmount:   ComputeTotal(items),
		Status:        StatusPending,
		PaymentStatus: etpayment.StatusPending,
		TableNumber:   contact.TableNumber,
		CustomerName:  contact.CustomerName,
		Phone:         contact.Phone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsPaid applies the revenue rule: cash counts once the order is ready or completed,
// other methods once the payment completed.
func (o *Order) IsPaid() bool {
	if o.PaymentMethod == etpayment.MethodCash {
		return o.Status == StatusReady || o.Status == StatusCompleted
	}
	return o.PaymentMethod != "" && o.PaymentStatus == etpayment.StatusCompleted
}
