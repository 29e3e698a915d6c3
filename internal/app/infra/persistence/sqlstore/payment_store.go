package sqlstore

import (
	"context"

	"gorm.io/gorm"

	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/repo/rppayment"
	"pickup/internal/app/infra/persistence/document"
	"pickup/pkg/errorx"
)

var _ rppayment.PaymentRepository = (*PaymentStore)(nil)

// PaymentStore implements rppayment.PaymentRepository on the payments table.
type PaymentStore struct {
	*Store
}

func (s *PaymentStore) Create(ctx context.Context, payment *etpayment.Payment) error {
	if err := s.db.WithContext(ctx).Create(toPaymentPO(payment)).Error; err != nil {
		return dbError("create payment", err, nil)
	}
	s.written(ctx, document.CollectionPayments)
	return nil
}

func (s *PaymentStore) GetByID(ctx context.Context, paymentID string) (*etpayment.Payment, error) {
	var po PaymentPO
	err := s.db.WithContext(ctx).Where("id = ?", paymentID).First(&po).Error
	if err != nil {
		return nil, dbError("get payment", err, func() error { return errorx.PaymentNotFound(paymentID) })
	}
	return toPayment(&po), nil
}

func (s *PaymentStore) GetByOrder(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	var po PaymentPO
	err := s.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").Order("id DESC").
		First(&po).Error
	if err != nil {
		return nil, dbError("get payment", err, func() error { return errorx.PaymentNotFound("order " + orderID) })
	}
	return toPayment(&po), nil
}

func (s *PaymentStore) Update(ctx context.Context, paymentID string, patch etpayment.Patch) (*etpayment.Payment, error) {
	updates := map[string]interface{}{
		"updated_at": s.clock.Now(),
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if patch.TransactionID != nil {
		updates["transaction_id"] = *patch.TransactionID
	}
	if patch.PaidAt != nil {
		updates["paid_at"] = *patch.PaidAt
	}

	var po PaymentPO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&PaymentPO{}).Where("id = ?", paymentID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", paymentID).First(&po).Error
	})
	if err != nil {
		return nil, dbError("update payment", err, func() error { return errorx.PaymentNotFound(paymentID) })
	}

	s.written(ctx, document.CollectionPayments)
	return toPayment(&po), nil
}

func (s *PaymentStore) List(ctx context.Context) ([]*etpayment.Payment, error) {
	var pos []PaymentPO
	if err := s.db.WithContext(ctx).Find(&pos).Error; err != nil {
		return nil, dbError("list payments", err, nil)
	}
	payments := make([]*etpayment.Payment, 0, len(pos))
	for i := range pos {
		payments = append(payments, toPayment(&pos[i]))
	}
	return payments, nil
}

func toPaymentPO(p *etpayment.Payment) *PaymentPO {
	return &PaymentPO{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Method:        string(p.Method),
		Amount:        p.Amount,
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		PaidAt:        p.PaidAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPayment(po *PaymentPO) *etpayment.Payment {
	return &etpayment.Payment{
		ID:            po.ID,
		OrderID:       po.OrderID,
		Method:        etpayment.Method(po.Method),
		Amount:        po.Amount,
		Status:        etpayment.Status(po.Status),
		TransactionID: po.TransactionID,
		PaidAt:        po.PaidAt,
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}
}
