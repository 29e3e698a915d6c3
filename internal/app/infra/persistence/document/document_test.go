package document

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/entity/etpayment"
)

func TestOrderConversion(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	items := []*etorder.LineItem{{
		MenuItemID: "m-1",
		Name:       "Flat white",
		Size:       &etorder.Option{Name: "Small", PriceDelta: decimal.RequireFromString("-0.50")},
		AddOns:     []*etorder.Option{{Name: "Syrup", PriceDelta: decimal.RequireFromString("0.40")}},
		UnitPrice:  decimal.RequireFromString("3.80"),
		Quantity:   1,
	}}
	o, err := etorder.NewOrder("o-1", etorder.Sequence{OrderNumber: "0042", PickupNumber: 3, PickupDate: "2024-05-01"},
		items, etorder.Contact{CustomerName: "Ana"}, now)
	require.NoError(t, err)
	o.PaymentMethod = etpayment.MethodCash
	o.NotifiedAt = &now

	got, err := FromOrder(o).ToOrder()
	require.NoError(t, err)

	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	assert.Equal(t, "3.7", got.TotalAmount.String())
	assert.Equal(t, etpayment.MethodCash, got.PaymentMethod)
	assert.Equal(t, "Ana", got.CustomerName)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Size.PriceDelta.Equal(decimal.RequireFromString("-0.5")))
	assert.Len(t, got.Items[0].AddOns, 1)
	assert.Equal(t, now, *got.NotifiedAt)
}

func TestOrderConversion_BadAmount(t *testing.T) {
	d := &Order{ID: "o-1", TotalAmount: "twelve"}
	_, err := d.ToOrder()
	assert.Error(t, err)
}

func TestPaymentConversion(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p, err := etpayment.NewPayment("p-1", "o-1", etpayment.MethodCard, decimal.RequireFromString("9.90"),
		etpayment.StatusCompleted, "pi_123", now)
	require.NoError(t, err)

	got, err := FromPayment(p).ToPayment()
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(got.Amount))
	assert.Equal(t, etpayment.StatusCompleted, got.Status)
	assert.Equal(t, now, *got.PaidAt)
}
