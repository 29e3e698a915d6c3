package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pickup/internal/app/domains/modules/mdpayment"
	"pickup/pkg/errorx"
)

var _ mdpayment.Verifier = (*HTTPVerifier)(nil)

// StatusSucceeded is the provider status of a captured payment intent.
const StatusSucceeded = "succeeded"

// HTTPVerifier looks a payment intent up at the provider and checks that it succeeded for
// the expected amount.
type HTTPVerifier struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewHTTPVerifier GET {baseURL}/payment_intents/{id} with a bearer api key.
func NewHTTPVerifier(baseURL, apiKey string, timeout time.Duration) *HTTPVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPVerifier{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type paymentIntent struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, transactionID string, amount decimal.Decimal) error {
	endpoint := fmt.Sprintf("%s/payment_intents/%s", v.baseURL, url.PathEscape(transactionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return errorx.TransientIO("payment provider unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errorx.ExternalVerificationFailed("unknown transaction " + transactionID)
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return errorx.TransientIO(fmt.Sprintf("payment provider status %d", resp.StatusCode), nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return errorx.ExternalVerificationFailed(fmt.Sprintf("provider rejected lookup: status=%d", resp.StatusCode))
	}

	var intent paymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return errorx.TransientIO("decode payment intent", err)
	}

	if intent.Status != StatusSucceeded {
		return errorx.ExternalVerificationFailed(fmt.Sprintf("payment intent %s is %s", transactionID, intent.Status))
	}
	expected := amount.Shift(2).Round(0).IntPart()
	if intent.Amount != expected {
		return errorx.ExternalVerificationFailed(fmt.Sprintf("amount mismatch: provider=%d expected=%d", intent.Amount, expected))
	}
	return nil
}
