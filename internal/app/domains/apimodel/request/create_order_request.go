package request

import "github.com/shopspring/decimal"

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	Items        []*OrderItem `json:"items" binding:"required,min=1,dive,required"`
	TableNumber  string       `json:"tableNumber" binding:"max=16" example:"12"`
	CustomerName string       `json:"customerName" binding:"max=64" example:"Ana"`
	Phone        string       `json:"phone" binding:"max=32" example:"+1-415-555-0100"`
}

// OrderItem is one cart line. Prices are the menu prices the customer saw.
type OrderItem struct {
	MenuItemID string          `json:"menuItemId" binding:"required" example:"m-latte"`
	Name       string          `json:"name" binding:"required" example:"Latte"`
	Size       *Option         `json:"size"`
	AddOns     []*Option       `json:"addOns" binding:"dive,required"`
	Price      decimal.Decimal `json:"price" swaggertype:"string" example:"4.25"`
	Quantity   int             `json:"quantity" binding:"required,min=1,max=99" example:"2"`
}

// Option is a chosen size or add-on.
type Option struct {
	Name  string          `json:"name" binding:"required" example:"Large"`
	Price decimal.Decimal `json:"price" swaggertype:"string" example:"1.50"`
}
