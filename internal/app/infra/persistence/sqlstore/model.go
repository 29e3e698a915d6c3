package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderPO orders table.
type OrderPO struct {
	ID           string          `gorm:"column:id;primaryKey;type:varchar(64)"`
	OrderNumber  string          `gorm:"column:order_number;type:varchar(32);not null;uniqueIndex:uk_order_number"`
	PickupNumber int             `gorm:"column:pickup_number;not null;uniqueIndex:uk_pickup"`
	PickupDate   string          `gorm:"column:pickup_date;type:varchar(10);not null;uniqueIndex:uk_pickup"`
	Items        datatypes.JSON  `gorm:"column:items;type:json;not null"`
	TotalAmount  decimal.Decimal `gorm:"column:total_amount;type:decimal(12,2);not null"`
	Status       string          `gorm:"column:status;type:varchar(16);not null;index:idx_status"`

	PaymentMethod string `gorm:"column:payment_method;type:varchar(16)"`
	PaymentStatus string `gorm:"column:payment_status;type:varchar(16);not null"`
	PaymentID     string `gorm:"column:payment_id;type:varchar(64)"`

	NotifiedAt   *time.Time `gorm:"column:notified_at"`
	TableNumber  string     `gorm:"column:table_number;type:varchar(16)"`
	CustomerName string     `gorm:"column:customer_name;type:varchar(128)"`
	Phone        string     `gorm:"column:phone;type:varchar(32)"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (OrderPO) TableName() string {
	return "orders"
}

// PaymentPO payments table.
type PaymentPO struct {
	ID            string          `gorm:"column:id;primaryKey;type:varchar(64)"`
	OrderID       string          `gorm:"column:order_id;type:varchar(64);not null;index:idx_order_created"`
	Method        string          `gorm:"column:method;type:varchar(16);not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null"`
	Status        string          `gorm:"column:status;type:varchar(16);not null"`
	TransactionID string          `gorm:"column:transaction_id;type:varchar(128)"`
	PaidAt        *time.Time      `gorm:"column:paid_at"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null;index:idx_order_created"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;not null"`
}

func (PaymentPO) TableName() string {
	return "payments"
}

// CounterPO sequence_counters table, one row keyed by name.
type CounterPO struct {
	Name             string `gorm:"column:name;primaryKey;type:varchar(32)"`
	TotalOrders      int64  `gorm:"column:total_orders;not null"`
	DailyPickupCount int    `gorm:"column:daily_pickup_count;not null"`
	LastPickupDate   string `gorm:"column:last_pickup_date;type:varchar(10)"`
	Version          int64  `gorm:"column:version;not null"`
}

func (CounterPO) TableName() string {
	return "sequence_counters"
}
