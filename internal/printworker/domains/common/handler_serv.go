package common

import (
	"context"
	"encoding/json"

	"pickup/internal/printworker/printer"
)

// Deps are the services handlers may use.
type Deps struct {
	Printer printer.Printer
}

// HandlerServProc builds the handler for one job. An error means the payload is unusable.
type HandlerServProc func(ctx context.Context, meta *Meta, payload json.RawMessage, deps *Deps) (HandlerServ, error)

// HandlerServ runs one job.
type HandlerServ interface {
	GetProcess() error
}
