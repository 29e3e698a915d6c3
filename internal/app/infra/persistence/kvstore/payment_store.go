package kvstore

import (
	"context"
	"encoding/json"

	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/repo/rppayment"
	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/errorx"
)

var _ rppayment.PaymentRepository = (*PaymentStore)(nil)

// PaymentStore implements rppayment.PaymentRepository on the payments key.
type PaymentStore struct {
	*Store
}

func (s *PaymentStore) Create(ctx context.Context, payment *etpayment.Payment) error {
	doc := document.FromPayment(payment)
	return s.write(ctx, KeyPayments, func(current []byte) ([]byte, error) {
		list, err := decodeList[document.Payment](current)
		if err != nil {
			return nil, err
		}
		for _, existing := range list {
			if existing.ID == doc.ID {
				return nil, errorx.Validationf("payment already exists: %s", doc.ID)
			}
		}
		return json.Marshal(append(list, doc))
	})
}

func (s *PaymentStore) GetByID(ctx context.Context, paymentID string) (*etpayment.Payment, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		if p.ID == paymentID {
			return p, nil
		}
	}
	return nil, errorx.PaymentNotFound(paymentID)
}

func (s *PaymentStore) GetByOrder(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if latest := rppayment.Latest(list, orderID); latest != nil {
		return latest, nil
	}
	return nil, errorx.PaymentNotFound("order " + orderID)
}

func (s *PaymentStore) Update(ctx context.Context, paymentID string, patch etpayment.Patch) (*etpayment.Payment, error) {
	var updated *etpayment.Payment
	err := s.write(ctx, KeyPayments, func(current []byte) ([]byte, error) {
		list, err := decodeList[document.Payment](current)
		if err != nil {
			return nil, err
		}
		for i, d := range list {
			if d.ID != paymentID {
				continue
			}
			payment, err := d.ToPayment()
			if err != nil {
				return nil, err
			}
			patch.Apply(payment, s.clock.Now())
			list[i] = document.FromPayment(payment)
			updated = payment
			return json.Marshal(list)
		}
		return nil, errorx.PaymentNotFound(paymentID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PaymentStore) List(ctx context.Context) ([]*etpayment.Payment, error) {
	raw, err := s.read(ctx, KeyPayments)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[document.Payment](raw)
	if err != nil {
		return nil, ioError("decode payments", err)
	}
	payments := make([]*etpayment.Payment, 0, len(list))
	for _, d := range list {
		p, err := d.ToPayment()
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, nil
}
