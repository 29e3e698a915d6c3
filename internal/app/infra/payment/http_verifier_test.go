package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"pickup/pkg/errorx"
)

func provider(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/payment_intents/pi_ok":
			_, _ = w.Write([]byte(`{"id":"pi_ok","status":"succeeded","amount":1530,"currency":"usd"}`))
		case "/payment_intents/pi_pending":
			_, _ = w.Write([]byte(`{"id":"pi_pending","status":"requires_action","amount":1530}`))
		case "/payment_intents/pi_down":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPVerifier(t *testing.T) {
	srv := provider(t)
	v := NewHTTPVerifier(srv.URL+"/", "sk_test", time.Second)
	amount := decimal.RequireFromString("15.30")

	tests := []struct {
		name string
		txID string
		amt  decimal.Decimal
		kind errorx.Kind
		ok   bool
	}{
		{"succeeded", "pi_ok", amount, 0, true},
		{"amount mismatch", "pi_ok", decimal.RequireFromString("15.31"), errorx.KindExternalVerification, false},
		{"not captured", "pi_pending", amount, errorx.KindExternalVerification, false},
		{"unknown", "pi_missing", amount, errorx.KindExternalVerification, false},
		{"provider down", "pi_down", amount, errorx.KindTransientIO, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Verify(context.Background(), tt.txID, tt.amt)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.kind, errorx.KindOf(err))
		})
	}
}

func TestHTTPVerifier_Unreachable(t *testing.T) {
	v := NewHTTPVerifier("http://127.0.0.1:1", "sk_test", 200*time.Millisecond)
	err := v.Verify(context.Background(), "pi_ok", decimal.NewFromInt(1))
	assert.True(t, errorx.IsRetryable(err))
}
