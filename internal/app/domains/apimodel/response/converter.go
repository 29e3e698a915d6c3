package response

import (
	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/modules/mdpayment"
	"pickup/internal/app/domains/services/svorder"
	"pickup/internal/app/domains/services/svstats"
	"pickup/internal/app/liveview"
)

// FromOrderEntity converts a domain order into the response DTO.
func FromOrderEntity(order *etorder.Order) *OrderResponse {
	items := make([]*LineItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, fromLineItemEntity(item))
	}
	return &OrderResponse{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		PickupNumber:  order.PickupNumber,
		PickupDate:    order.PickupDate,
		Items:         items,
		TotalAmount:   order.TotalAmount.StringFixed(2),
		Status:        string(order.Status),
		PaymentMethod: string(order.PaymentMethod),
		PaymentStatus: string(order.PaymentStatus),
		PaymentID:     order.PaymentID,
		NotifiedAt:    order.NotifiedAt,
		TableNumber:   order.TableNumber,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// FromOrderEntities converts a list of orders.
func FromOrderEntities(orders []*etorder.Order) []*OrderResponse {
	resp := make([]*OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, FromOrderEntity(o))
	}
	return resp
}

func fromLineItemEntity(item *etorder.LineItem) *LineItem {
	dto := &LineItem{
		MenuItemID: item.MenuItemID,
		Name:       item.Name,
		Size:       fromOptionEntity(item.Size),
		Price:      item.UnitPrice.StringFixed(2),
		Quantity:   item.Quantity,
		Subtotal:   item.Subtotal().StringFixed(2),
	}
	for _, addOn := range item.AddOns {
		dto.AddOns = append(dto.AddOns, fromOptionEntity(addOn))
	}
	return dto
}

func fromOptionEntity(opt *etorder.Option) *Option {
	if opt == nil {
		return nil
	}
	return &Option{Name: opt.Name, Price: opt.PriceDelta.StringFixed(2)}
}

// FromPaymentEntity converts a domain payment into the response DTO.
func FromPaymentEntity(payment *etpayment.Payment) *PaymentResponse {
	if payment == nil {
		return nil
	}
	return &PaymentResponse{
		ID:            payment.ID,
		OrderID:       payment.OrderID,
		Method:        string(payment.Method),
		Amount:        payment.Amount.StringFixed(2),
		Status:        string(payment.Status),
		TransactionID: payment.TransactionID,
		PaidAt:        payment.PaidAt,
		CreatedAt:     payment.CreatedAt,
	}
}

// FromPaymentResult converts a processor result.
func FromPaymentResult(result *mdpayment.Result) *PaymentResultResponse {
	return &PaymentResultResponse{
		Success: result.Success,
		Message: result.Message,
		Payment: FromPaymentEntity(result.Payment),
	}
}

// FromQueueInfo converts a queue estimate.
func FromQueueInfo(info *svorder.QueueInfo) *QueueResponse {
	resp := &QueueResponse{
		OrderID:      info.Order.ID,
		OrderNumber:  info.Order.OrderNumber,
		PickupNumber: info.Order.PickupNumber,
		Status:       string(info.Order.Status),
		AheadCount:   info.Estimate.AheadCount,
		ActiveCount:  info.Estimate.ActiveCount,
	}
	if n := info.Estimate.CurrentlyPreparingOrderNumber; n != "" {
		resp.CurrentlyPreparingOrderNumber = &n
	}
	return resp
}

// FromOrderStats converts the dashboard summary.
func FromOrderStats(stats *svstats.OrderStats) *OrderStatsResponse {
	return &OrderStatsResponse{
		TodayOrders:  stats.TodayOrders,
		TodayRevenue: stats.TodayRevenue.StringFixed(2),
		MonthOrders:  stats.MonthOrders,
		MonthRevenue: stats.MonthRevenue.StringFixed(2),
		TotalOrders:  stats.TotalOrders,
	}
}

// FromAdminStats converts the back office summary.
func FromAdminStats(stats *svstats.AdminStats) *AdminStatsResponse {
	byStatus := make(map[string]int, len(stats.ByStatus))
	for status, n := range stats.ByStatus {
		byStatus[string(status)] = n
	}
	return &AdminStatsResponse{
		OrderStatsResponse: *FromOrderStats(&stats.OrderStats),
		ByStatus:           byStatus,
		ActiveOrders:       stats.ActiveOrders,
		PaidOrders:         stats.PaidOrders,
		PendingPayments:    stats.PendingPayments,
		TotalRevenue:       stats.TotalRevenue.StringFixed(2),
		AverageOrderValue:  stats.AverageOrderValue.StringFixed(2),
	}
}

// FromCustomerState converts a customer view frame.
func FromCustomerState(state *liveview.CustomerState) *CustomerLiveResponse {
	return &CustomerLiveResponse{
		Order:   FromOrderEntity(state.Order),
		Payment: FromPaymentEntity(state.Payment),
		Queue:   FromQueueInfo(&svorder.QueueInfo{Order: state.Order, Estimate: state.Queue}),
		Stale:   state.Stale,
	}
}

// FromAdminState converts an admin view frame.
func FromAdminState(state *liveview.AdminState) *AdminLiveResponse {
	return &AdminLiveResponse{
		Orders: FromOrderEntities(state.Orders),
		Stale:  state.Stale,
	}
}
