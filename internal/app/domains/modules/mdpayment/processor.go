package mdpayment

import (
	"context"
	"errors"
	"fmt"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/repo/rporder"
	"pickup/internal/app/domains/repo/rppayment"
	"pickup/internal/app/pkg/idgen"
	"pickup/pkg/clock"
	"pickup/pkg/errorx"
	"pickup/pkg/logger"
)

// Result is the outcome of a payment attempt.
type Result struct {
	Success bool
	Payment *etpayment.Payment
	Message string
}

// Processor records payments and links them to their order.
type Processor struct {
	orderRepo   rporder.OrderRepository
	paymentRepo rppayment.PaymentRepository
	verifier    Verifier
	ids         idgen.Generator
	clock       clock.Clock
	logger      logger.Logger
}

// NewProcessor creates a payment processor.
func NewProcessor(
	orderRepo rporder.OrderRepository,
	paymentRepo rppayment.PaymentRepository,
	verifier Verifier,
	ids idgen.Generator,
	clk clock.Clock,
	log logger.Logger,
) *Processor {
	return &Processor{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		verifier:    verifier,
		ids:         ids,
		clock:       clk,
		logger:      log,
	}
}

// Process runs one payment attempt.
// 1. load the order, reject cancelled orders
// 2. return the existing payment when the order is already paid
// 3. cash: record a pending payment, order status untouched
// 4. card/visa: verify the proof, record a completed payment, move a pending order to preparing
// 5. supersede the previous pending attempt
func (p *Processor) Process(ctx context.Context, cmd etpayment.Command) (*Result, error) {
	ctx = logger.WithOrderID(ctx, cmd.OrderID())

	order, err := p.orderRepo.GetByID(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if order.Status == etorder.StatusCancelled {
		return nil, errorx.OrderCancelled(order.ID)
	}

	previous, err := p.latestPayment(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if previous != nil && previous.Status == etpayment.StatusCompleted {
		p.logger.Infof(ctx, "[PaymentProcessor] order already paid, payment_id=%s", previous.ID)
		return &Result{Success: true, Payment: previous, Message: "order already paid"}, nil
	}

	var result *Result
	switch c := cmd.(type) {
	case etpayment.CashCommand:
		result, err = p.processCash(ctx, order)
	case etpayment.CardCommand:
		result, err = p.processCard(ctx, order, c)
	default:
		return nil, errorx.Validationf("unsupported payment method: %q", cmd.Method())
	}

	// a failed verification still recorded a new attempt, so the old one is superseded too
	var verifyErr *errorx.Error
	recorded := err == nil || (errors.As(err, &verifyErr) && verifyErr.Kind == errorx.KindExternalVerification)
	if recorded && previous != nil && !previous.Status.Terminal() {
		p.supersede(ctx, previous)
	}

	return result, err
}

func (p *Processor) processCash(ctx context.Context, order *etorder.Order) (*Result, error) {
	now := p.clock.Now()
	payment, err := etpayment.NewPayment(p.ids.NewID(), order.ID, etpayment.MethodCash,
		order.TotalAmount, etpayment.StatusPending, p.ids.CashReference(), now)
	if err != nil {
		return nil, err
	}
	if err := p.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("save payment failed: %w", err)
	}

	method := etpayment.MethodCash
	status := etpayment.StatusPending
	if _, err := p.orderRepo.Update(ctx, order.ID, etorder.Patch{
		PaymentMethod: &method,
		PaymentStatus: &status,
		PaymentID:     &payment.ID,
	}); err != nil {
		return nil, fmt.Errorf("link payment to order failed: %w", err)
	}

	p.logger.Infof(ctx, "[PaymentProcessor] cash payment recorded, payment_id=%s", payment.ID)
	return &Result{Success: true, Payment: payment, Message: "pay at the counter"}, nil
}

func (p *Processor) processCard(ctx context.Context, order *etorder.Order, cmd etpayment.CardCommand) (*Result, error) {
	verifyErr := p.verifier.Verify(ctx, cmd.TransactionID(), order.TotalAmount)
	if verifyErr != nil && errorx.KindOf(verifyErr) != errorx.KindExternalVerification {
		p.logger.Warnf(ctx, "[PaymentProcessor] verifier unavailable: %v", verifyErr)
		if errorx.KindOf(verifyErr) == errorx.KindTransientIO {
			return nil, verifyErr
		}
		return nil, errorx.TransientIO("payment verification unavailable", verifyErr)
	}

	now := p.clock.Now()
	status := etpayment.StatusCompleted
	if verifyErr != nil {
		status = etpayment.StatusFailed
	}

	payment, err := etpayment.NewPayment(p.ids.NewID(), order.ID, cmd.Method(),
		order.TotalAmount, status, cmd.TransactionID(), now)
	if err != nil {
		return nil, err
	}
	if err := p.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("save payment failed: %w", err)
	}

	method := cmd.Method()
	patch := etorder.Patch{
		PaymentMethod: &method,
		PaymentStatus: &status,
		PaymentID:     &payment.ID,
	}
	if verifyErr == nil && order.Status == etorder.StatusPending {
		preparing := etorder.StatusPreparing
		patch.Status = &preparing
	}
	if _, err := p.orderRepo.Update(ctx, order.ID, patch); err != nil {
		return nil, fmt.Errorf("link payment to order failed: %w", err)
	}

	if verifyErr != nil {
		p.logger.Warnf(ctx, "[PaymentProcessor] payment rejected by provider, payment_id=%s: %v", payment.ID, verifyErr)
		return &Result{Success: false, Payment: payment, Message: "payment verification failed"}, verifyErr
	}

	p.logger.Infof(ctx, "[PaymentProcessor] %s payment completed, payment_id=%s", method, payment.ID)
	return &Result{Success: true, Payment: payment, Message: "payment completed"}, nil
}

func (p *Processor) latestPayment(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	payment, err := p.paymentRepo.GetByOrder(ctx, orderID)
	if errors.Is(err, errorx.ErrNotFound) {
		return nil, nil
	}
	return payment, err
}

// supersede cancels an earlier non-terminal attempt. Failure only leaves a stale pending record.
func (p *Processor) supersede(ctx context.Context, previous *etpayment.Payment) {
	if _, err := p.paymentRepo.Update(ctx, previous.ID, etpayment.WithStatus(etpayment.StatusCancelled)); err != nil {
		p.logger.Warnf(ctx, "[PaymentProcessor] supersede payment failed, payment_id=%s: %v", previous.ID, err)
	}
}

// GetPayment returns a payment by id.
func (p *Processor) GetPayment(ctx context.Context, paymentID string) (*etpayment.Payment, error) {
	return p.paymentRepo.GetByID(ctx, paymentID)
}

// GetPaymentByOrder returns the latest payment of an order.
func (p *Processor) GetPaymentByOrder(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	return p.paymentRepo.GetByOrder(ctx, orderID)
}

// ListPayments returns every payment.
func (p *Processor) ListPayments(ctx context.Context) ([]*etpayment.Payment, error) {
	return p.paymentRepo.List(ctx)
}

// CompletePending marks the pending payment of an order completed. Used when a cash order
// is handed over.
func (p *Processor) CompletePending(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	return p.settlePending(ctx, orderID, etpayment.Completed(p.clock.Now()))
}

// CancelPending cancels the pending payment of an order.
func (p *Processor) CancelPending(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	return p.settlePending(ctx, orderID, etpayment.WithStatus(etpayment.StatusCancelled))
}

// PendingPayment returns the latest payment of an order while it is still open, nil otherwise.
func (p *Processor) PendingPayment(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	payment, err := p.latestPayment(ctx, orderID)
	if err != nil || payment == nil {
		return nil, err
	}
	if payment.Status != etpayment.StatusPending && payment.Status != etpayment.StatusProcessing {
		return nil, nil
	}
	return payment, nil
}

func (p *Processor) settlePending(ctx context.Context, orderID string, patch etpayment.Patch) (*etpayment.Payment, error) {
	payment, err := p.PendingPayment(ctx, orderID)
	if err != nil || payment == nil {
		return nil, err
	}
	return p.paymentRepo.Update(ctx, payment.ID, patch)
}
