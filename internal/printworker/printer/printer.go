// Package printer turns a receipt job into a printed ticket.
package printer

import (
	"context"
	"fmt"
	"strings"

	"pickup/pkg/receiptjob"
)

// Printer prints one receipt. Retryable errors (errorx.IsRetryable) leave the job for redelivery.
type Printer interface {
	Print(ctx context.Context, r *receiptjob.Receipt) error
}

const ticketWidth = 32

// Render lays the receipt out as a fixed-width text ticket.
func Render(r *receiptjob.Receipt) string {
	var b strings.Builder
	rule := strings.Repeat("-", ticketWidth) + "\n"

	fmt.Fprintf(&b, "%s\n", center("ORDER "+r.OrderNumber))
	fmt.Fprintf(&b, "%s\n", center(fmt.Sprintf("PICKUP #%d", r.PickupNumber)))
	fmt.Fprintf(&b, "%s\n", center(r.PickupDate))
	if r.TableNumber != "" {
		fmt.Fprintf(&b, "Table: %s\n", r.TableNumber)
	}
	if r.CustomerName != "" {
		fmt.Fprintf(&b, "Name: %s\n", r.CustomerName)
	}
	b.WriteString(rule)

	for _, l := range r.Lines {
		b.WriteString(columns(fmt.Sprintf("%dx %s", l.Quantity, l.Name), l.Subtotal))
		if l.Size != "" {
			fmt.Fprintf(&b, "   %s\n", l.Size)
		}
		for _, a := range l.AddOns {
			fmt.Fprintf(&b, "   + %s\n", a)
		}
	}

	b.WriteString(rule)
	b.WriteString(columns("TOTAL", r.TotalAmount))
	if p := r.Payment; p != nil {
		b.WriteString(columns(strings.ToUpper(p.Method), p.Status))
	} else {
		b.WriteString(columns("PAYMENT", "unpaid"))
	}
	b.WriteString(rule)
	fmt.Fprintf(&b, "%s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	return b.String()
}

func center(s string) string {
	if len(s) >= ticketWidth {
		return s
	}
	return strings.Repeat(" ", (ticketWidth-len(s))/2) + s
}

func columns(left, right string) string {
	pad := ticketWidth - len(left) - len(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right + "\n"
}
