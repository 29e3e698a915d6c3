package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/repo/rppayment"
	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/errorx"
)

var _ rppayment.PaymentRepository = (*PaymentStore)(nil)

// PaymentStore implements rppayment.PaymentRepository on the payments collection.
type PaymentStore struct {
	*Store
}

func (s *PaymentStore) coll() string { return document.CollectionPayments }

func (s *PaymentStore) Create(ctx context.Context, payment *etpayment.Payment) error {
	_, err := s.db.Collection(s.coll()).InsertOne(ctx, document.FromPayment(payment))
	if err != nil {
		return mongoError("create payment", err, nil)
	}
	s.written(ctx, s.coll())
	return nil
}

func (s *PaymentStore) GetByID(ctx context.Context, paymentID string) (*etpayment.Payment, error) {
	var doc document.Payment
	err := s.db.Collection(s.coll()).FindOne(ctx, bson.M{"_id": paymentID}).Decode(&doc)
	if err != nil {
		return nil, mongoError("get payment", err, func() error { return errorx.PaymentNotFound(paymentID) })
	}
	return doc.ToPayment()
}

func (s *PaymentStore) GetByOrder(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var doc document.Payment
	err := s.db.Collection(s.coll()).FindOne(ctx, bson.M{"orderId": orderID}, opts).Decode(&doc)
	if err != nil {
		return nil, mongoError("get payment", err, func() error { return errorx.PaymentNotFound("order " + orderID) })
	}
	return doc.ToPayment()
}

func (s *PaymentStore) Update(ctx context.Context, paymentID string, patch etpayment.Patch) (*etpayment.Payment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc document.Payment
	err := s.db.Collection(s.coll()).
		FindOneAndUpdate(ctx, bson.M{"_id": paymentID}, bson.M{"$set": paymentSet(patch, s.clock.Now())}, opts).
		Decode(&doc)
	if err != nil {
		return nil, mongoError("update payment", err, func() error { return errorx.PaymentNotFound(paymentID) })
	}

	s.written(ctx, s.coll())
	return doc.ToPayment()
}

func (s *PaymentStore) List(ctx context.Context) ([]*etpayment.Payment, error) {
	cursor, err := s.db.Collection(s.coll()).Find(ctx, bson.M{})
	if err != nil {
		return nil, mongoError("list payments", err, nil)
	}
	var docs []*document.Payment
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mongoError("list payments", err, nil)
	}

	payments := make([]*etpayment.Payment, 0, len(docs))
	for _, d := range docs {
		p, err := d.ToPayment()
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
