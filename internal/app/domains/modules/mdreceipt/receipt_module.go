package mdreceipt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/pkg/clock"
	"pickup/pkg/errorx"
	"pickup/pkg/logger"
	"pickup/pkg/receiptjob"
)

// Queue is the job queue receipts are published to.
type Queue interface {
	Publish(queue string, data []byte, ttl, delay time.Duration) (string, error)
}

// ReceiptModule hands receipts to the print worker.
type ReceiptModule struct {
	queue     Queue
	queueName string
	ttl       time.Duration
	clock     clock.Clock
	logger    logger.Logger
}

// NewReceiptModule creates a receipt module publishing to queueName.
func NewReceiptModule(queue Queue, queueName string, ttl time.Duration, clk clock.Clock, log logger.Logger) *ReceiptModule {
	return &ReceiptModule{queue: queue, queueName: queueName, ttl: ttl, clock: clk, logger: log}
}

// Enqueue publishes a print job for order and its payment (may be nil). Returns the job id.
func (m *ReceiptModule) Enqueue(ctx context.Context, order *etorder.Order, payment *etpayment.Payment) (string, error) {
	receipt := BuildReceipt(order, payment, m.clock.Now())
	data, err := json.Marshal(receiptjob.New(logger.TraceID(ctx), receipt))
	if err != nil {
		return "", fmt.Errorf("marshal receipt job: %w", err)
	}

	jobID, err := m.queue.Publish(m.queueName, data, m.ttl, 0)
	if err != nil {
		return "", errorx.TransientIO("publish receipt job", err)
	}

	m.logger.Infof(ctx, "[ReceiptModule] receipt job published, job_id=%s, order_number=%s", jobID, order.OrderNumber)
	return jobID, nil
}

// BuildReceipt flattens an order and payment into the printable shape.
func BuildReceipt(order *etorder.Order, payment *etpayment.Payment, now time.Time) *receiptjob.Receipt {
	lines := make([]receiptjob.Line, 0, len(order.Items))
	for _, item := range order.Items {
		line := receiptjob.Line{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		}
		if item.Size != nil {
			line.Size = item.Size.Name
		}
		for _, addOn := range item.AddOns {
			line.AddOns = append(line.AddOns, addOn.Name)
		}
		lines = append(lines, line)
	}

	r := &receiptjob.Receipt{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		PickupNumber: order.PickupNumber,
		PickupDate:   order.PickupDate,
		TableNumber:  order.TableNumber,
		CustomerName: order.CustomerName,
		Lines:        lines,
		TotalAmount:  order.TotalAmount.StringFixed(2),
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
		RequestedAt:  &now,
	}
	if payment != nil {
		r.Payment = &receiptjob.Payment{
			ID:            payment.ID,
			Method:        string(payment.Method),
			Status:        string(payment.Status),
			Amount:        payment.Amount.StringFixed(2),
			TransactionID: payment.TransactionID,
			PaidAt:        payment.PaidAt,
		}
	}
	return r
}
