package etpayment

import (
	"strings"

	"pickup/pkg/errorx"
)

// Command is a payment request, one concrete type per method family.
type Command interface {
	OrderID() string
	Method() Method
}

// CashCommand pays at the counter; confirmed later by staff.
type CashCommand struct {
	orderID string
}

func (c CashCommand) OrderID() string { return c.orderID }
func (c CashCommand) Method() Method  { return MethodCash }

// CardCommand carries the proof returned by the external confirmation handshake.
type CardCommand struct {
	orderID       string
	method        Method
	transactionID string
}

func (c CardCommand) OrderID() string       { return c.orderID }
func (c CardCommand) Method() Method        { return c.method }
func (c CardCommand) TransactionID() string { return c.transactionID }

// NewCommand validates the raw fields and returns the matching command.
func NewCommand(orderID string, method Method, transactionID string) (Command, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, errorx.Validation("order id is required")
	}

	switch method {
	case MethodCash:
		return CashCommand{orderID: orderID}, nil
	case MethodCard, MethodVisa:
		transactionID = strings.TrimSpace(transactionID)
		if transactionID == "" {
			return nil, errorx.MissingPaymentProof()
		}
		return CardCommand{orderID: orderID, method: method, transactionID: transactionID}, nil
	default:
		return nil, errorx.Validationf("unsupported payment method: %q", method)
	}
}
