package kvstore

import (
	"context"
	"encoding/json"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/repo/rporder"
	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/errorx"
)

var _ rporder.OrderRepository = (*OrderStore)(nil)

// OrderStore implements rporder.OrderRepository on the orders key.
type OrderStore struct {
	*Store
}

func (s *OrderStore) Create(ctx context.Context, order *etorder.Order) error {
	doc := document.FromOrder(order)
	return s.write(ctx, KeyOrders, func(current []byte) ([]byte, error) {
		list, err := decodeList[document.Order](current)
		if err != nil {
			return nil, err
		}
		for _, existing := range list {
			if existing.ID == doc.ID {
				return nil, errorx.Validationf("order already exists: %s", doc.ID)
			}
		}
		return json.Marshal(append(list, doc))
	})
}

func (s *OrderStore) GetByID(ctx context.Context, orderID string) (*etorder.Order, error) {
	return s.find(ctx, orderID, func(d *document.Order) bool { return d.ID == orderID })
}

func (s *OrderStore) GetByNumber(ctx context.Context, orderNumber string) (*etorder.Order, error) {
	return s.find(ctx, orderNumber, func(d *document.Order) bool { return d.OrderNumber == orderNumber })
}

func (s *OrderStore) find(ctx context.Context, ref string, match func(*document.Order) bool) (*etorder.Order, error) {
	raw, err := s.read(ctx, KeyOrders)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[document.Order](raw)
	if err != nil {
		return nil, ioError("decode orders", err)
	}
	for _, d := range list {
		if match(d) {
			return d.ToOrder()
		}
	}
	return nil, errorx.OrderNotFound(ref)
}

func (s *OrderStore) Update(ctx context.Context, orderID string, patch etorder.Patch) (*etorder.Order, error) {
	var updated *etorder.Order
	err := s.write(ctx, KeyOrders, func(current []byte) ([]byte, error) {
		list, err := decodeList[document.Order](current)
		if err != nil {
			return nil, err
		}
		for i, d := range list {
			if d.ID != orderID {
				continue
			}
			order, err := d.ToOrder()
			if err != nil {
				return nil, err
			}
			patch.Apply(order, s.clock.Now())
			list[i] = document.FromOrder(order)
			updated = order
			return json.Marshal(list)
		}
		return nil, errorx.OrderNotFound(orderID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *OrderStore) List(ctx context.Context) ([]*etorder.Order, error) {
	raw, err := s.read(ctx, KeyOrders)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[document.Order](raw)
	if err != nil {
		return nil, ioError("decode orders", err)
	}
	orders := make([]*etorder.Order, 0, len(list))
	for _, d := range list {
		o, err := d.ToOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
