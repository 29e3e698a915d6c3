// Package storetest holds the behaviour every persistence adapter must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/app/domains/entity/etcounter"
	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/domains/repo/rpcounter"
	"pickup/internal/app/domains/repo/rporder"
	"pickup/internal/app/domains/repo/rppayment"
	"pickup/pkg/errorx"
)

// Repos is one backend under test.
type Repos struct {
	Orders   rporder.OrderRepository
	Payments rppayment.PaymentRepository
	Counter  rpcounter.CounterRepository
}

var baseTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// Order builds a valid order numbered n.
func Order(id string, n int) *etorder.Order {
	o, err := etorder.NewOrder(id,
		etorder.Sequence{OrderNumber: etcounter.FormatOrderNumber(int64(n)), PickupNumber: n, PickupDate: "2024-05-01"},
		[]*etorder.LineItem{{
			MenuItemID: "m-espresso",
			Name:       "Espresso",
			AddOns:     []*etorder.Option{{Name: "Sugar", PriceDelta: decimal.Zero}},
			UnitPrice:  decimal.RequireFromString("2.50"),
			Quantity:   2,
		}},
		etorder.Contact{Phone: "555-0100"},
		baseTime.Add(time.Duration(n)*time.Minute),
	)
	if err != nil {
		panic(err)
	}
	return o
}

// Run exercises the shared contract. newRepos must return an empty backend on every call.
func Run(t *testing.T, newRepos func(t *testing.T) Repos) {
	t.Run("OrderCreateAndGet", func(t *testing.T) { testOrderCreateAndGet(t, newRepos(t)) })
	t.Run("OrderNotFound", func(t *testing.T) { testOrderNotFound(t, newRepos(t)) })
	t.Run("OrderPartialUpdate", func(t *testing.T) { testOrderPartialUpdate(t, newRepos(t)) })
	t.Run("OrderList", func(t *testing.T) { testOrderList(t, newRepos(t)) })
	t.Run("PaymentLifecycle", func(t *testing.T) { testPaymentLifecycle(t, newRepos(t)) })
	t.Run("CounterUpdate", func(t *testing.T) { testCounterUpdate(t, newRepos(t)) })
	t.Run("CounterConcurrent", func(t *testing.T) { testCounterConcurrent(t, newRepos(t)) })
	t.Run("CounterAbort", func(t *testing.T) { testCounterAbort(t, newRepos(t)) })
}

func testOrderCreateAndGet(t *testing.T, r Repos) {
	ctx := context.Background()
	o := Order("o-1", 1)
	require.NoError(t, r.Orders.Create(ctx, o))

	got, err := r.Orders.GetByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "0001", got.OrderNumber)
	assert.True(t, o.TotalAmount.Equal(got.TotalAmount))
	assert.Equal(t, etorder.StatusPending, got.Status)
	assert.Equal(t, "555-0100", got.Phone)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, o.CreatedAt.Equal(got.CreatedAt))

	byNumber, err := r.Orders.GetByNumber(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, "o-1", byNumber.ID)
}

func testOrderNotFound(t *testing.T, r Repos) {
	ctx := context.Background()

	_, err := r.Orders.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, errorx.ErrOrderNotFound)

	_, err = r.Orders.GetByNumber(ctx, "9999")
	assert.ErrorIs(t, err, errorx.ErrNotFound)

	status := etorder.StatusPreparing
	_, err = r.Orders.Update(ctx, "missing", etorder.Patch{Status: &status})
	assert.ErrorIs(t, err, errorx.ErrOrderNotFound)

	_, err = r.Payments.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, errorx.ErrPaymentNotFound)

	_, err = r.Payments.GetByOrder(ctx, "missing")
	assert.ErrorIs(t, err, errorx.ErrNotFound)
}

func testOrderPartialUpdate(t *testing.T, r Repos) {
	ctx := context.Background()
	require.NoError(t, r.Orders.Create(ctx, Order("o-1", 1)))

	method := etpayment.MethodCash
	paymentID := "p-1"
	updated, err := r.Orders.Update(ctx, "o-1", etorder.Patch{PaymentMethod: &method, PaymentID: &paymentID})
	require.NoError(t, err)
	assert.Equal(t, etpayment.MethodCash, updated.PaymentMethod)
	assert.Equal(t, etorder.StatusPending, updated.Status)

	notified := baseTime.Add(time.Hour)
	ready := etorder.StatusReady
	_, err = r.Orders.Update(ctx, "o-1", etorder.Patch{Status: &ready, NotifiedAt: &notified})
	require.NoError(t, err)

	got, err := r.Orders.GetByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, etorder.StatusReady, got.Status)
	assert.Equal(t, "p-1", got.PaymentID)
	assert.Equal(t, etpayment.MethodCash, got.PaymentMethod)
	require.NotNil(t, got.NotifiedAt)
	assert.True(t, notified.Equal(*got.NotifiedAt))
	assert.Equal(t, "0001", got.OrderNumber)
}

func testOrderList(t *testing.T, r Repos) {
	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		require.NoError(t, r.Orders.Create(ctx, Order(fmt.Sprintf("o-%d", i), i)))
	}

	orders, err := r.Orders.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	assert.ElementsMatch(t, []string{"o-1", "o-2", "o-3"}, ids)
}

func testPaymentLifecycle(t *testing.T, r Repos) {
	ctx := context.Background()
	first, err := etpayment.NewPayment("p-1", "o-1", etpayment.MethodCash, decimal.RequireFromString("5.00"),
		etpayment.StatusPending, "cash_1", baseTime)
	require.NoError(t, err)
	second, err := etpayment.NewPayment("p-2", "o-1", etpayment.MethodCard, decimal.RequireFromString("5.00"),
		etpayment.StatusCompleted, "pi_1", baseTime.Add(time.Minute))
	require.NoError(t, err)

	require.NoError(t, r.Payments.Create(ctx, first))
	require.NoError(t, r.Payments.Create(ctx, second))

	latest, err := r.Payments.GetByOrder(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, "p-2", latest.ID)
	require.NotNil(t, latest.PaidAt)

	cancelled, err := r.Payments.Update(ctx, "p-1", etpayment.WithStatus(etpayment.StatusCancelled))
	require.NoError(t, err)
	assert.Equal(t, etpayment.StatusCancelled, cancelled.Status)
	assert.Equal(t, "cash_1", cancelled.TransactionID)

	got, err := r.Payments.GetByID(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, etpayment.StatusCancelled, got.Status)
	assert.True(t, decimal.RequireFromString("5").Equal(got.Amount))

	all, err := r.Payments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testCounterUpdate(t *testing.T, r Repos) {
	ctx := context.Background()

	c, err := r.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.TotalOrders)

	c, err = r.Counter.Update(ctx, func(c *etcounter.SequenceCounter) error {
		c.Advance("2024-05-01")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.TotalOrders)
	assert.Equal(t, 1, c.DailyPickupCount)

	got, err := r.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.TotalOrders)
	assert.Equal(t, "2024-05-01", got.LastPickupDate)
}

func testCounterConcurrent(t *testing.T, r Repos) {
	const n = 20
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int64]bool)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := r.Counter.Update(ctx, func(c *etcounter.SequenceCounter) error {
				c.Advance("2024-05-01")
				return nil
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			seen[c.TotalOrders] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	got, err := r.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.TotalOrders)
	assert.Equal(t, n, got.DailyPickupCount)
}

func testCounterAbort(t *testing.T, r Repos) {
	ctx := context.Background()

	_, err := r.Counter.Update(ctx, func(c *etcounter.SequenceCounter) error {
		c.Advance("2024-05-01")
		return errorx.Validation("abort")
	})
	require.Error(t, err)

	got, err := r.Counter.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.TotalOrders)
}
