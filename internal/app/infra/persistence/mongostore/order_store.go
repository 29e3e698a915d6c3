package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/repo/rporder"
	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/errorx"
)

var _ rporder.OrderRepository = (*OrderStore)(nil)

// OrderStore implements rporder.OrderRepository on the orders collection.
type OrderStore struct {
	*Store
}

func (s *OrderStore) coll() string { return document.CollectionOrders }

func (s *OrderStore) Create(ctx context.Context, order *etorder.Order) error {
	_, err := s.db.Collection(s.coll()).InsertOne(ctx, document.FromOrder(order))
	if err != nil {
		return mongoError("create order", err, nil)
	}
	s.written(ctx, s.coll())
	return nil
}

func (s *OrderStore) GetByID(ctx context.Context, orderID string) (*etorder.Order, error) {
	return s.findOne(ctx, bson.M{"_id": orderID}, orderID)
}

func (s *OrderStore) GetByNumber(ctx context.Context, orderNumber string) (*etorder.Order, error) {
	return s.findOne(ctx, bson.M{"orderNumber": orderNumber}, orderNumber)
}

func (s *OrderStore) findOne(ctx context.Context, filter bson.M, ref string) (*etorder.Order, error) {
	var doc document.Order
	err := s.db.Collection(s.coll()).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, mongoError("get order", err, func() error { return errorx.OrderNotFound(ref) })
	}
	return doc.ToOrder()
}

func (s *OrderStore) Update(ctx context.Context, orderID string, patch etorder.Patch) (*etorder.Order, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc document.Order
	err := s.db.Collection(s.coll()).
		FindOneAndUpdate(ctx, bson.M{"_id": orderID}, bson.M{"$set": orderSet(patch, s.clock.Now())}, opts).
		Decode(&doc)
	if err != nil {
		return nil, mongoError("update order", err, func() error { return errorx.OrderNotFound(orderID) })
	}

	s.written(ctx, s.coll())
	return doc.ToOrder()
}

func (s *OrderStore) List(ctx context.Context) ([]*etorder.Order, error) {
	cursor, err := s.db.Collection(s.coll()).Find(ctx, bson.M{})
	if err != nil {
		return nil, mongoError("list orders", err, nil)
	}
	var docs []*document.Order
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError("list orders", err, nil)
	}

	orders := make([]*etorder.Order, 0, len(docs))
	for _, d := range docs {
		o, err := d.ToOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
