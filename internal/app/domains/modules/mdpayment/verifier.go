package mdpayment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Verifier confirms a transaction id with the payment provider before the payment is
// recorded as completed.
//
// Verify returns an errorx.ExternalVerificationFailed error when the provider rejects the
// proof, and errorx.TransientIO when the provider could not be reached.
type Verifier interface {
	Verify(ctx context.Context, transactionID string, amount decimal.Decimal) error
}

// TrustingVerifier accepts every transaction id. Development only.
type TrustingVerifier struct{}

func (TrustingVerifier) Verify(context.Context, string, decimal.Decimal) error {
	return nil
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, transactionID string, amount decimal.Decimal) error

func (f VerifierFunc) Verify(ctx context.Context, transactionID string, amount decimal.Decimal) error {
	return f(ctx, transactionID, amount)
}
