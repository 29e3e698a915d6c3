package svorder

import (
	"context"
	"errors"
	"fmt"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/modules/mdorder"
	"pickup/internal/app/domains/modules/mdpayment"
	"pickup/internal/app/domains/modules/mdqueue"
	"pickup/internal/app/domains/modules/mdreceipt"
	"pickup/internal/app/pkg/idgen"
	"pickup/pkg/clock"
	"pickup/pkg/errorx"
	"pickup/pkg/logger"
)

// CreateOrderInput is what a customer submits at checkout.
type CreateOrderInput struct {
	Items   []*etorder.LineItem
	Contact etorder.Contact
}

// QueueInfo is an order together with its queue position.
type QueueInfo struct {
	Order    *etorder.Order
	Estimate mdqueue.Estimate
}

// OrderService orchestrates the order and payment lifecycle.
type OrderService struct {
	orderModule *mdorder.OrderModule
	processor   *mdpayment.Processor
	receipts    *mdreceipt.ReceiptModule
	ids         idgen.Generator
	clock       clock.Clock
	policy      etorder.RenotifyPolicy
	logger      logger.Logger
}

// NewOrderService creates the order service. receipts may be nil when printing is disabled.
func NewOrderService(
	orderModule *mdorder.OrderModule,
	processor *mdpayment.Processor,
	receipts *mdreceipt.ReceiptModule,
	ids idgen.Generator,
	clk clock.Clock,
	policy etorder.RenotifyPolicy,
	log logger.Logger,
) *OrderService {
	if policy == "" {
		policy = etorder.RenotifyKeep
	}
	return &OrderService{
		orderModule: orderModule,
		processor:   processor,
		receipts:    receipts,
		ids:         ids,
		clock:       clk,
		policy:      policy,
		logger:      log,
	}
}

// CreateOrder places a new order.
// 1. validate the cart so a bad request never consumes a number
// 2. allocate order and pickup numbers
// 3. build the pending order, total computed once
// 4. persist
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*etorder.Order, error) {
	if err := etorder.ValidateItems(in.Items); err != nil {
		return nil, errorx.Validation(err.Error())
	}

	seq, err := s.orderModule.AllocateSequence(ctx)
	if err != nil {
		return nil, err
	}

	order, err := etorder.NewOrder(s.ids.NewID(), seq, in.Items, in.Contact, s.clock.Now())
	if err != nil {
		return nil, errorx.Validation(err.Error())
	}

	if err := s.orderModule.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("save order failed: %w", err)
	}

	ctx = logger.WithOrderID(ctx, order.ID)
	s.logger.Infof(ctx, "[OrderService] order created, order_number=%s, pickup=%s#%d, total=%s",
		order.OrderNumber, order.PickupDate, order.PickupNumber, order.TotalAmount.StringFixed(2))
	return order, nil
}

// GetOrder returns an order by id.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*etorder.Order, error) {
	return s.orderModule.GetOrder(ctx, orderID)
}

// GetOrderByNumber returns an order by its order number.
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*etorder.Order, error) {
	return s.orderModule.GetOrderByNumber(ctx, orderNumber)
}

// ListOrders returns orders newest first, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, status etorder.Status) ([]*etorder.Order, error) {
	return s.orderModule.ListOrders(ctx, status)
}

// UpdateOrderStatus moves an order through the kitchen workflow. Setting the current
// status again only retries an unfinished payment settlement.
// 1. validate the transition
// 2. persist the order patch; a failed write leaves the payment untouched
// 3. settle the linked payment: handing over a cash order completes it, cancelling cancels it
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, next etorder.Status) (*etorder.Order, error) {
	ctx = logger.WithOrderID(ctx, orderID)

	order, err := s.orderModule.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == next {
		// a repeat finishes a payment settlement an earlier call left behind
		if err := s.settlePayment(ctx, order, next); err != nil {
			return nil, err
		}
		return order, nil
	}

	now := s.clock.Now()
	patch, err := order.Transition(next, now)
	if err != nil {
		return nil, err
	}

	if settles(order, next) {
		pending, err := s.processor.PendingPayment(ctx, order.ID)
		if err != nil {
			return nil, fmt.Errorf("load pending payment failed: %w", err)
		}
		if pending != nil {
			status := etpayment.StatusCancelled
			if next == etorder.StatusCompleted {
				status = etpayment.StatusCompleted
			}
			patch.PaymentStatus = &status
		}
	}

	updated, err := s.orderModule.UpdateOrder(ctx, order.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("update order status failed: %w", err)
	}

	if err := s.settlePayment(ctx, order, next); err != nil {
		return nil, err
	}

	s.logger.Infof(ctx, "[OrderService] order status changed, %s -> %s", order.Status, next)
	return updated, nil
}

// settles reports whether moving order to next closes its open payment.
func settles(order *etorder.Order, next etorder.Status) bool {
	return next == etorder.StatusCancelled ||
		(next == etorder.StatusCompleted && order.PaymentMethod == etpayment.MethodCash)
}

func (s *OrderService) settlePayment(ctx context.Context, order *etorder.Order, next etorder.Status) error {
	if !settles(order, next) {
		return nil
	}
	if next == etorder.StatusCompleted {
		if _, err := s.processor.CompletePending(ctx, order.ID); err != nil {
			return fmt.Errorf("complete cash payment failed: %w", err)
		}
		return nil
	}
	if _, err := s.processor.CancelPending(ctx, order.ID); err != nil {
		return fmt.Errorf("cancel pending payment failed: %w", err)
	}
	return nil
}

// NotifyCustomer marks the order ready for pickup. Repeated calls follow the configured
// re-notify policy.
func (s *OrderService) NotifyCustomer(ctx context.Context, orderID string) (*etorder.Order, error) {
	ctx = logger.WithOrderID(ctx, orderID)

	order, err := s.orderModule.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	patch, err := order.Notify(s.policy, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return order, nil
	}

	updated, err := s.orderModule.UpdateOrder(ctx, order.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("notify customer failed: %w", err)
	}

	s.logger.Infof(ctx, "[OrderService] customer notified, order_number=%s", updated.OrderNumber)
	return updated, nil
}

// ProcessPayment runs one payment attempt for an already validated command.
func (s *OrderService) ProcessPayment(ctx context.Context, cmd etpayment.Command) (*mdpayment.Result, error) {
	return s.processor.Process(ctx, cmd)
}

// GetPayment returns a payment by id.
func (s *OrderService) GetPayment(ctx context.Context, paymentID string) (*etpayment.Payment, error) {
	return s.processor.GetPayment(ctx, paymentID)
}

// GetPaymentByOrder returns the latest payment of an order.
func (s *OrderService) GetPaymentByOrder(ctx context.Context, orderID string) (*etpayment.Payment, error) {
	if _, err := s.orderModule.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.processor.GetPaymentByOrder(ctx, orderID)
}

// GetQueue returns the queue position of an order.
func (s *OrderService) GetQueue(ctx context.Context, orderID string) (*QueueInfo, error) {
	order, err := s.orderModule.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	all, err := s.orderModule.ListOrders(ctx, "")
	if err != nil {
		return nil, err
	}
	return &QueueInfo{Order: order, Estimate: mdqueue.EstimateQueue(order, all)}, nil
}

// PrintReceipt queues a receipt for the order and its latest payment, if any.
func (s *OrderService) PrintReceipt(ctx context.Context, orderID string) (string, error) {
	if s.receipts == nil {
		return "", errorx.TransientIO("receipt printing is not configured", nil)
	}
	ctx = logger.WithOrderID(ctx, orderID)

	order, err := s.orderModule.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	payment, err := s.processor.GetPaymentByOrder(ctx, orderID)
	if err != nil && !errors.Is(err, errorx.ErrNotFound) {
		return "", err
	}

	return s.receipts.Enqueue(ctx, order, payment)
}
