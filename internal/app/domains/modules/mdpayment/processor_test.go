package mdpayment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
	"pickup/internal/app/infra/persistence/kvstore"
	"pickup/internal/app/infra/persistence/storetest"
	"pickup/internal/app/pkg/idgen"
	"pickup/pkg/clock"
	"pickup/pkg/errorx"
	"pickup/pkg/logger"
)

type fixture struct {
	store     *kvstore.Store
	clock     *clock.Fake
	processor *Processor
	verifyErr error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{clock: clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))}
	f.store = kvstore.New(kvstore.NewMemoryKV(), f.clock)
	verifier := VerifierFunc(func(context.Context, string, decimal.Decimal) error { return f.verifyErr })
	f.processor = NewProcessor(f.store.Orders(), f.store.Payments(), verifier, idgen.New(1), f.clock, logger.NewNop())

	require.NoError(t, f.store.Orders().Create(context.Background(), storetest.Order("o-1", 1)))
	return f
}

func (f *fixture) order(t *testing.T) *etorder.Order {
	t.Helper()
	o, err := f.store.Orders().GetByID(context.Background(), "o-1")
	require.NoError(t, err)
	return o
}

func command(t *testing.T, method etpayment.Method, txID string) etpayment.Command {
	t.Helper()
	cmd, err := etpayment.NewCommand("o-1", method, txID)
	require.NoError(t, err)
	return cmd
}

func TestProcess_Cash(t *testing.T) {
	f := newFixture(t)

	res, err := f.processor.Process(context.Background(), command(t, etpayment.MethodCash, ""))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, etpayment.StatusPending, res.Payment.Status)
	assert.True(t, strings.HasPrefix(res.Payment.TransactionID, idgen.CashReferencePrefix))
	assert.Nil(t, res.Payment.PaidAt)

	o := f.order(t)
	assert.Equal(t, etorder.StatusPending, o.Status)
	assert.Equal(t, etpayment.MethodCash, o.PaymentMethod)
	assert.Equal(t, etpayment.StatusPending, o.PaymentStatus)
	assert.Equal(t, res.Payment.ID, o.PaymentID)
	assert.True(t, o.TotalAmount.Equal(res.Payment.Amount))
}

func TestProcess_CashNeverChangesStatus(t *testing.T) {
	f := newFixture(t)
	preparing := etorder.StatusPreparing
	_, err := f.store.Orders().Update(context.Background(), "o-1", etorder.Patch{Status: &preparing})
	require.NoError(t, err)

	_, err = f.processor.Process(context.Background(), command(t, etpayment.MethodCash, ""))
	require.NoError(t, err)
	assert.Equal(t, etorder.StatusPreparing, f.order(t).Status)
}

func TestProcess_Card(t *testing.T) {
	f := newFixture(t)

	res, err := f.processor.Process(context.Background(), command(t, etpayment.MethodVisa, "pi_1"))
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, etpayment.StatusCompleted, res.Payment.Status)
	require.NotNil(t, res.Payment.PaidAt)
	assert.Equal(t, f.clock.Now(), *res.Payment.PaidAt)

	o := f.order(t)
	assert.Equal(t, etorder.StatusPreparing, o.Status)
	assert.Equal(t, etpayment.MethodVisa, o.PaymentMethod)
	assert.Equal(t, etpayment.StatusCompleted, o.PaymentStatus)
	assert.Equal(t, res.Payment.ID, o.PaymentID)
}

func TestProcess_CardKeepsLaterStatus(t *testing.T) {
	f := newFixture(t)
	ready := etorder.StatusReady
	_, err := f.store.Orders().Update(context.Background(), "o-1", etorder.Patch{Status: &ready})
	require.NoError(t, err)

	_, err = f.processor.Process(context.Background(), command(t, etpayment.MethodCard, "pi_1"))
	require.NoError(t, err)
	assert.Equal(t, etorder.StatusReady, f.order(t).Status)
}

func TestProcess_VerificationFailed(t *testing.T) {
	f := newFixture(t)
	f.verifyErr = errorx.ExternalVerificationFailed("declined")

	res, err := f.processor.Process(context.Background(), command(t, etpayment.MethodCard, "pi_bad"))
	assert.ErrorIs(t, err, errorx.ErrExternalVerification)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, etpayment.StatusFailed, res.Payment.Status)

	o := f.order(t)
	assert.Equal(t, etorder.StatusPending, o.Status)
	assert.Equal(t, etpayment.StatusFailed, o.PaymentStatus)
}

func TestProcess_VerifierUnavailable(t *testing.T) {
	f := newFixture(t)
	f.verifyErr = errors.New("connection reset")

	_, err := f.processor.Process(context.Background(), command(t, etpayment.MethodCard, "pi_1"))
	assert.ErrorIs(t, err, errorx.ErrTransientIO)
	assert.True(t, errorx.IsRetryable(err))

	payments, err := f.store.Payments().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.Empty(t, f.order(t).PaymentID)
}

func TestProcess_Rejections(t *testing.T) {
	f := newFixture(t)

	cmd, err := etpayment.NewCommand("missing", etpayment.MethodCash, "")
	require.NoError(t, err)
	_, err = f.processor.Process(context.Background(), cmd)
	assert.ErrorIs(t, err, errorx.ErrOrderNotFound)

	cancelled := etorder.StatusCancelled
	_, err = f.store.Orders().Update(context.Background(), "o-1", etorder.Patch{Status: &cancelled})
	require.NoError(t, err)
	_, err = f.processor.Process(context.Background(), command(t, etpayment.MethodCard, "pi_1"))
	assert.ErrorIs(t, err, errorx.ErrOrderCancelled)
}

func TestProcess_AlreadyPaid(t *testing.T) {
	f := newFixture(t)

	first, err := f.processor.Process(context.Background(), command(t, etpayment.MethodCard, "pi_1"))
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	again, err := f.processor.Process(context.Background(), command(t, etpayment.MethodCard, "pi_2"))
	require.NoError(t, err)
	assert.Equal(t, first.Payment.ID, again.Payment.ID)

	payments, err := f.store.Payments().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestProcess_SupersedesPending(t *testing.T) {
	f := newFixture(t)

	cash, err := f.processor.Process(context.Background(), command(t, etpayment.MethodCash, ""))
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	card, err := f.processor.Process(context.Background(), command(t, etpayment.MethodCard, "pi_1"))
	require.NoError(t, err)

	old, err := f.store.Payments().GetByID(context.Background(), cash.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, etpayment.StatusCancelled, old.Status)

	latest, err := f.processor.GetPaymentByOrder(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, card.Payment.ID, latest.ID)
	assert.Equal(t, card.Payment.ID, f.order(t).PaymentID)
}

func TestSettlePending(t *testing.T) {
	f := newFixture(t)
	_, err := f.processor.Process(context.Background(), command(t, etpayment.MethodCash, ""))
	require.NoError(t, err)

	completed, err := f.processor.CompletePending(context.Background(), "o-1")
	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.Equal(t, etpayment.StatusCompleted, completed.Status)
	require.NotNil(t, completed.PaidAt)

	// nothing pending anymore
	again, err := f.processor.CancelPending(context.Background(), "o-1")
	require.NoError(t, err)
	assert.Nil(t, again)

	none, err := f.processor.CancelPending(context.Background(), "o-unpaid")
	require.NoError(t, err)
	assert.Nil(t, none)
}
