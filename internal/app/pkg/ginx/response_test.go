package ginx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/pkg/errorx"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, fn func(c *gin.Context)) (int, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      int
		reason    string
		retryable bool
	}{
		{"validation", errorx.Validation("bad"), http.StatusBadRequest, "", false},
		{"missing proof", errorx.MissingPaymentProof(), http.StatusBadRequest, errorx.ReasonMissingProof, false},
		{"not found", errorx.OrderNotFound("o-1"), http.StatusNotFound, errorx.ReasonOrderNotFound, false},
		{"transition", errorx.InvalidTransition("completed", "pending"), http.StatusConflict, "", false},
		{"cancelled", errorx.OrderCancelled("o-1"), http.StatusConflict, errorx.ReasonOrderCancelled, false},
		{"verification", errorx.ExternalVerificationFailed("declined"), http.StatusPaymentRequired, "", false},
		{"transient", errorx.TransientIO("redis down", errors.New("eof")), http.StatusServiceUnavailable, "", true},
		{"timeout", errorx.Timeout("order fetch", 10*time.Second), http.StatusGatewayTimeout, errorx.ReasonTimeout, true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := render(t, func(c *gin.Context) { FromError(c, tt.err) })
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.code, resp.Meta.Code)
			assert.Equal(t, tt.reason, resp.Meta.Reason)
			assert.Equal(t, tt.retryable, resp.Meta.Retryable)
		})
	}
}

func TestFromError_HidesInternalMessage(t *testing.T) {
	_, resp := render(t, func(c *gin.Context) { FromError(c, errors.New("dsn password=secret")) })
	assert.Equal(t, "Internal server error", resp.Meta.Message)
}

func TestBadRequestWithValidation(t *testing.T) {
	type payload struct {
		Method string `validate:"required,oneof=cash card"`
	}
	err := validator.New().Struct(payload{Method: "cheque"})
	require.Error(t, err)

	code, resp := render(t, func(c *gin.Context) { BadRequestWithValidation(c, err) })
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, resp.Meta.Details, 1)
	assert.Equal(t, "Method", resp.Meta.Details[0].Path)
	assert.Equal(t, "Method must be one of: cash card", resp.Meta.Details[0].Info)
}

func TestSuccess(t *testing.T) {
	code, resp := render(t, func(c *gin.Context) { Success(c, map[string]string{"id": "o-1"}) })
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", resp.Meta.Message)
	assert.Equal(t, map[string]interface{}{"id": "o-1"}, resp.Data)
}
