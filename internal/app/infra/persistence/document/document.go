// Package document holds the persisted shapes shared by the JSON, key/value and document
// store adapters. Money is stored as a decimal string.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pickup/internal/app/domains/entity/etcounter"
	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
)

// Collection names, also used as change-notification topics.
const (
	CollectionOrders   = "orders"
	CollectionPayments = "payments"
	CollectionCounters = "counters"

	// CounterID is the id of the singleton counter document.
	CounterID = "orderCounter"
)

type Option struct {
	Name       string `json:"name" bson:"name"`
	PriceDelta string `json:"priceDelta" bson:"priceDelta"`
}

type LineItem struct {
	MenuItemID string    `json:"menuItemId" bson:"menuItemId"`
	Name       string    `json:"name" bson:"name"`
	Size       *Option   `json:"size,omitempty" bson:"size,omitempty"`
	AddOns     []*Option `json:"addOns,omitempty" bson:"addOns,omitempty"`
	UnitPrice  string    `json:"unitPrice" bson:"unitPrice"`
	Quantity   int       `json:"quantity" bson:"quantity"`
}

type Order struct {
	ID            string      `json:"id" bson:"_id"`
	OrderNumber   string      `json:"orderNumber" bson:"orderNumber"`
	PickupNumber  int         `json:"pickupNumber" bson:"pickupNumber"`
	PickupDate    string      `json:"pickupDate" bson:"pickupDate"`
	Items         []*LineItem `json:"items" bson:"items"`
	TotalAmount   string      `json:"totalAmount" bson:"totalAmount"`
	Status        string      `json:"status" bson:"status"`
	PaymentMethod string      `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	PaymentStatus string      `json:"paymentStatus" bson:"paymentStatus"`
	PaymentID     string      `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	NotifiedAt    *time.Time  `json:"notifiedAt,omitempty" bson:"notifiedAt,omitempty"`
	TableNumber   string      `json:"tableNumber,omitempty" bson:"tableNumber,omitempty"`
	CustomerName  string      `json:"customerName,omitempty" bson:"customerName,omitempty"`
	Phone         string      `json:"phone,omitempty" bson:"phone,omitempty"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedAt"`
}

type Payment struct {
	ID            string     `json:"id" bson:"_id"`
	OrderID       string     `json:"orderId" bson:"orderId"`
	Method        string     `json:"method" bson:"method"`
	Amount        string     `json:"amount" bson:"amount"`
	Status        string     `json:"status" bson:"status"`
	TransactionID string     `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

type Counter struct {
	ID               string `json:"id" bson:"_id"`
	TotalOrders      int64  `json:"totalOrders" bson:"totalOrders"`
	DailyPickupCount int    `json:"dailyPickupCount" bson:"dailyPickupCount"`
	LastPickupDate   string `json:"lastPickupDate" bson:"lastPickupDate"`
	Version          int64  `json:"version" bson:"version"`
}

func fromOption(o *etorder.Option) *Option {
	if o == nil {
		return nil
	}
	return &Option{Name: o.Name, PriceDelta: o.PriceDelta.String()}
}

func toOption(o *Option) (*etorder.Option, error) {
	if o == nil {
		return nil, nil
	}
	delta, err := parseAmount(o.PriceDelta)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", o.Name, err)
	}
	return &etorder.Option{Name: o.Name, PriceDelta: delta}, nil
}

// FromOrder converts the domain order into its document.
func FromOrder(o *etorder.Order) *Order {
	items := make([]*LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		addOns := make([]*Option, 0, len(it.AddOns))
		for _, a := range it.AddOns {
			addOns = append(addOns, fromOption(a))
		}
		items = append(items, &LineItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Size:       fromOption(it.Size),
			AddOns:     addOns,
			UnitPrice:  it.UnitPrice.String(),
			Quantity:   it.Quantity,
		})
	}

	return &Order{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		PickupNumber:  o.PickupNumber,
		PickupDate:    o.PickupDate,
		Items:         items,
		TotalAmount:   o.TotalAmount.String(),
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: string(o.PaymentStatus),
		PaymentID:     o.PaymentID,
		NotifiedAt:    o.NotifiedAt,
		TableNumber:   o.TableNumber,
		CustomerName:  o.CustomerName,
		Phone:         o.Phone,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToOrder converts a stored document back into the domain order.
func (d *Order) ToOrder() (*etorder.Order, error) {
	items := make([]*etorder.LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		price, err := parseAmount(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s item %s: %w", d.ID, it.MenuItemID, err)
		}
		size, err := toOption(it.Size)
		if err != nil {
			return nil, err
		}
		addOns := make([]*etorder.Option, 0, len(it.AddOns))
		for _, a := range it.AddOns {
			addOn, err := toOption(a)
			if err != nil {
				return nil, err
			}
			addOns = append(addOns, addOn)
		}
		items = append(items, &etorder.LineItem{
			MenuItemID: it.MenuItemID,
			Name:       it.Name,
			Size:       size,
			AddOns:     addOns,
			UnitPrice:  price,
			Quantity:   it.Quantity,
		})
	}

	total, err := parseAmount(d.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("order %s total: %w", d.ID, err)
	}

	return &etorder.Order{
		ID:            d.ID,
		OrderNumber:   d.OrderNumber,
		PickupNumber:  d.PickupNumber,
		PickupDate:    d.PickupDate,
		Items:         items,
		TotalAmount:   total,
		Status:        etorder.Status(d.Status),
		PaymentMethod: etpayment.Method(d.PaymentMethod),
		PaymentStatus: etpayment.Status(d.PaymentStatus),
		PaymentID:     d.PaymentID,
		NotifiedAt:    d.NotifiedAt,
		TableNumber:   d.TableNumber,
		CustomerName:  d.CustomerName,
		Phone:         d.Phone,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

// FromPayment converts the domain payment into its document.
func FromPayment(p *etpayment.Payment) *Payment {
	return &Payment{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Method:        string(p.Method),
		Amount:        p.Amount.String(),
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToPayment converts a stored document back into the domain payment.
func (d *Payment) ToPayment() (*etpayment.Payment, error) {
	amount, err := parseAmount(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("payment %s amount: %w", d.ID, err)
	}
	return &etpayment.Payment{
		ID:            d.ID,
		OrderID:       d.OrderID,
		Method:        etpayment.Method(d.Method),
		Amount:        amount,
		Status:        etpayment.Status(d.Status),
		TransactionID: d.TransactionID,
		PaidAt:        d.PaidAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

// FromCounter converts the counter into its document.
func FromCounter(c *etcounter.SequenceCounter) *Counter {
	return &Counter{
		ID:               CounterID,
		TotalOrders:      c.TotalOrders,
		DailyPickupCount: c.DailyPickupCount,
		LastPickupDate:   c.LastPickupDate,
		Version:          c.Version,
	}
}

// ToCounter converts a stored document back into the counter.
func (d *Counter) ToCounter() *etcounter.SequenceCounter {
	return &etcounter.SequenceCounter{
		TotalOrders:      d.TotalOrders,
		DailyPickupCount: d.DailyPickupCount,
		LastPickupDate:   d.LastPickupDate,
		Version:          d.Version,
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// WriteHook runs after every successful write with the collection that changed.
type WriteHook func(ctx context.Context, collection string)

// Fire runs hooks in order.
func Fire(ctx context.Context, hooks []WriteHook, collection string) {
	for _, hook := range hooks {
		hook(ctx, collection)
	}
}
