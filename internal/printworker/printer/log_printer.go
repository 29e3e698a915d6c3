package printer

import (
	"context"

	"pickup/pkg/logger"
	"pickup/pkg/receiptjob"
)

// LogPrinter writes the rendered ticket to the log. Used when no printer gateway is configured.
type LogPrinter struct {
	logger logger.Logger
}

func NewLogPrinter(log logger.Logger) *LogPrinter {
	return &LogPrinter{logger: log}
}

func (p *LogPrinter) Print(ctx context.Context, r *receiptjob.Receipt) error {
	p.logger.Infof(ctx, "[LogPrinter] receipt for order %s\n%s", r.OrderNumber, Render(r))
	return nil
}
