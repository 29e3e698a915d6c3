package receipt

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/printworker/domains/common"
	"pickup/pkg/receiptjob"
)

type recordingPrinter struct {
	got *receiptjob.Receipt
}

func (p *recordingPrinter) Print(ctx context.Context, r *receiptjob.Receipt) error {
	p.got = r
	return nil
}

func TestNewPrintHandler(t *testing.T) {
	meta := &common.Meta{ActionType: receiptjob.ActionPrintReceipt, ID: "o-1"}
	p := &recordingPrinter{}
	deps := &common.Deps{Printer: p}

	payload, err := json.Marshal(&receiptjob.Receipt{
		OrderID:     "o-1",
		OrderNumber: "0002",
		Lines:       []receiptjob.Line{{Name: "Tea", Quantity: 1, UnitPrice: "3.00", Subtotal: "3.00"}},
		TotalAmount: "3.00",
	})
	require.NoError(t, err)

	h, err := NewPrintHandler(context.Background(), meta, payload, deps)
	require.NoError(t, err)
	require.NoError(t, h.GetProcess())
	require.NotNil(t, p.got)
	assert.Equal(t, "0002", p.got.OrderNumber)

	invalid := []string{`{"order_number":"0002","lines":[{"name":"Tea"}]}`, `{"order_id":"o-1","lines":[{"name":"Tea"}]}`, `{"order_id":"o-1","order_number":"0002"}`, `[]`}
	for _, raw := range invalid {
		_, err := NewPrintHandler(context.Background(), meta, json.RawMessage(raw), deps)
		assert.Error(t, err, raw)
	}

	_, err = NewPrintHandler(context.Background(), meta, payload, nil)
	assert.Error(t, err)
}
