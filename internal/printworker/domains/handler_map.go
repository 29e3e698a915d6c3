package domains

import (
	"pickup/internal/printworker/domains/common"
	"pickup/internal/printworker/domains/handlers/receipt"
	"pickup/pkg/receiptjob"
)

// HandlerMap routes an action type to its handler.
var HandlerMap = map[string]common.HandlerServProc{
	receiptjob.ActionPrintReceipt: receipt.NewPrintHandler,
}
