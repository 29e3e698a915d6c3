package request

import (
	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/services/svorder"
)

// ToCreateOrderInput converts the request DTO into the service input.
func (r *CreateOrderRequest) ToCreateOrderInput() svorder.CreateOrderInput {
	items := make([]*etorder.LineItem, 0, len(r.Items))
	for _, dto := range r.Items {
		items = append(items, toLineItemEntity(dto))
	}
	return svorder.CreateOrderInput{
		Items: items,
		Contact: etorder.Contact{
			TableNumber:  r.TableNumber,
			CustomerName: r.CustomerName,
			Phone:        r.Phone,
		},
	}
}

func toLineItemEntity(dto *OrderItem) *etorder.LineItem {
	if dto == nil {
		return nil
	}
	addOns := make([]*etorder.Option, 0, len(dto.AddOns))
	for _, addOn := range dto.AddOns {
		addOns = append(addOns, toOptionEntity(addOn))
	}
	return &etorder.LineItem{
		MenuItemID: dto.MenuItemID,
		Name:       dto.Name,
		Size:       toOptionEntity(dto.Size),
		AddOns:     addOns,
		UnitPrice:  dto.Price,
		Quantity:   dto.Quantity,
	}
}

func toOptionEntity(dto *Option) *etorder.Option {
	if dto == nil {
		return nil
	}
	return &etorder.Option{
		Name:       dto.Name,
		PriceDelta: dto.Price,
	}
}

// PaymentMethod returns the requested method.
func (r *ProcessPaymentRequest) PaymentMethod() etpayment.Method {
	return etpayment.Method(r.Method)
}

// TransactionID returns the confirmation reference, empty when none was sent.
func (r *ProcessPaymentRequest) TransactionID() string {
	if r.CardInfo == nil {
		return ""
	}
	return r.CardInfo.TransactionID
}

// ToCommand validates the union and returns the payment command for orderID.
func (r *ProcessPaymentRequest) ToCommand(orderID string) (etpayment.Command, error) {
	return etpayment.NewCommand(orderID, r.PaymentMethod(), r.TransactionID())
}
