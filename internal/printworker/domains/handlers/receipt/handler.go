package receipt

import (
	"context"
	"encoding/json"
	"fmt"

	"pickup/internal/printworker/domains/common"
	"pickup/internal/printworker/printer"
	"pickup/pkg/logger"
	"pickup/pkg/receiptjob"
)

// PrintHandler prints one receipt.
type PrintHandler struct {
	ctx     context.Context
	meta    *common.Meta
	receipt *receiptjob.Receipt
	printer printer.Printer
}

// NewPrintHandler decodes and checks the receipt carried by the job.
func NewPrintHandler(ctx context.Context, meta *common.Meta, payload json.RawMessage, deps *common.Deps) (common.HandlerServ, error) {
	if deps == nil || deps.Printer == nil {
		return nil, fmt.Errorf("printer is not configured")
	}

	var r receiptjob.Receipt
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, fmt.Errorf("unmarshal receipt failed: %w", err)
	}
	if r.OrderID == "" {
		return nil, fmt.Errorf("order_id is required")
	}
	if r.OrderNumber == "" {
		return nil, fmt.Errorf("order_number is required")
	}
	if len(r.Lines) == 0 {
		return nil, fmt.Errorf("receipt has no lines")
	}

	return &PrintHandler{
		ctx:     logger.WithOrderID(ctx, r.OrderID),
		meta:    meta,
		receipt: &r,
		printer: deps.Printer,
	}, nil
}

func (h *PrintHandler) GetProcess() error {
	if err := h.printer.Print(h.ctx, h.receipt); err != nil {
		return fmt.Errorf("print receipt %s failed: %w", h.receipt.OrderNumber, err)
	}
	return nil
}
