package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/repo/rporder"
	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/errorx"
)

var _ rporder.OrderRepository = (*OrderStore)(nil)

// OrderStore implements rporder.OrderRepository on the orders table.
type OrderStore struct {
	*Store
}

func (s *OrderStore) Create(ctx context.Context, order *etorder.Order) error {
	po, err := toOrderPO(order)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(po).Error; err != nil {
		return dbError("create order", err, nil)
	}
	s.written(ctx, document.CollectionOrders)
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, orderID string) (*etorder.Order, error) {
	var po OrderPO
	err := s.db.WithContext(ctx).Where("id = ?", orderID).First(&po).Error
	if err != nil {
		return nil, dbError("get order", err, func() error { return errorx.OrderNotFound(orderID) })
	}
	return toOrder(&po)
}

func (s *OrderStore) GetByNumber(ctx context.Context, orderNumber string) (*etorder.Order, error) {
	var po OrderPO
	err := s.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&po).Error
	if err != nil {
		return nil, dbError("get order", err, func() error { return errorx.OrderNotFound(orderNumber) })
	}
	return toOrder(&po)
}

// Update writes only the patched columns. Last write wins.
func (s *OrderStore) Update(ctx context.Context, orderID string, patch etorder.Patch) (*etorder.Order, error) {
	updates := map[string]interface{}{
		"updated_at": s.clock.Now(),
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if patch.PaymentMethod != nil {
		updates["payment_method"] = string(*patch.PaymentMethod)
	}
	if patch.PaymentStatus != nil {
		updates["payment_status"] = string(*patch.PaymentStatus)
	}
	if patch.PaymentID != nil {
		updates["payment_id"] = *patch.PaymentID
	}
	if patch.NotifiedAt != nil {
		updates["notified_at"] = *patch.NotifiedAt
	}

	var updated *etorder.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&OrderPO{}).Where("id = ?", orderID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var po OrderPO
		if err := tx.Where("id = ?", orderID).First(&po).Error; err != nil {
			return err
		}
		order, err := toOrder(&po)
		if err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, dbError("update order", err, func() error { return errorx.OrderNotFound(orderID) })
	}

	s.written(ctx, document.CollectionOrders)
	return updated, nil
}

func (s *OrderStore) List(ctx context.Context) ([]*etorder.Order, error) {
	var pos []OrderPO
	if err := s.db.WithContext(ctx).Find(&pos).Error; err != nil {
		return nil, dbError("list orders", err, nil)
	}

	orders := make([]*etorder.Order, 0, len(pos))
	for i := range pos {
		order, err := toOrder(&pos[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// toOrderPO stores line items as a JSON column in the document shape.
func toOrderPO(o *etorder.Order) (*OrderPO, error) {
	doc := document.FromOrder(o)
	items, err := json.Marshal(doc.Items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}

	return &OrderPO{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		PickupNumber:  o.PickupNumber,
		PickupDate:    o.PickupDate,
		Items:         items,
		TotalAmount:   o.TotalAmount,
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
	}, nil
}

func toOrder(po *OrderPO) (*etorder.Order, error) {
	doc := &document.Order{ID: po.ID, TotalAmount: po.TotalAmount.String()}
	if err := json.Unmarshal(po.Items, &doc.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", po.ID, err)
	}
	order, err := doc.ToOrder()
	if err != nil {
		return nil, err
	}

	order.OrderNumber = po.OrderNumber
	order.PickupNumber = po.PickupNumber
	order.PickupDate = po.PickupDate
	order.Status = etorder.Status(po.Status)
	order.PaymentMethod = etpayment.Method(po.PaymentMethod)
	order.PaymentStatus = etpayment.Status(po.PaymentStatus)
	order.PaymentID = po.PaymentID
	order.NotifiedAt = po.NotifiedAt
	order.TableNumber = po.TableNumber
	order.CustomerName = po.CustomerName
	order.Phone = po.Phone
	order.CreatedAt = po.CreatedAt
	order.UpdatedAt = po.UpdatedAt
	return order, nil
}
