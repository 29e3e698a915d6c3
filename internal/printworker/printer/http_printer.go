package printer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pickup/pkg/errorx"
	"pickup/pkg/receiptjob"
)

// HTTPPrinter posts tickets to a network print gateway.
type HTTPPrinter struct {
	httpClient *http.Client
	endpoint   string
	deviceID   string
}

// NewHTTPPrinter POST {baseURL}/print.
func NewHTTPPrinter(baseURL, deviceID string, timeout time.Duration) *HTTPPrinter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPPrinter{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimSuffix(baseURL, "/") + "/print",
		deviceID:   deviceID,
	}
}

type printRequest struct {
	DeviceID    string `json:"device_id,omitempty"`
	Reference   string `json:"reference"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

func (p *HTTPPrinter) Print(ctx context.Context, r *receiptjob.Receipt) error {
	body, err := json.Marshal(&printRequest{
		DeviceID:    p.deviceID,
		Reference:   r.OrderID,
		ContentType: "text/plain",
		Content:     Render(r),
	})
	if err != nil {
		return fmt.Errorf("marshal print request failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errorx.TransientIO("print gateway unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return errorx.TransientIO(fmt.Sprintf("print gateway status %d", resp.StatusCode), nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return errorx.Validationf("print gateway rejected receipt %s: status=%d", r.OrderNumber, resp.StatusCode)
	}
	return nil
}
