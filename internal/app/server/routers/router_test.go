package routers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/app/domains/entity/etorder"
	"pickup/internal/app/domains/modules/mdorder"
	"pickup/internal/app/domains/modules/mdpayment"
	"pickup/internal/app/domains/modules/mdsequence"
	"pickup/internal/app/domains/services/svorder"
	"pickup/internal/app/domains/services/svstats"
	"pickup/internal/app/infra/persistence/document"
	"pickup/internal/app/infra/persistence/kvstore"
	"pickup/internal/app/liveview"
	"pickup/internal/app/pkg/idgen"
	"pickup/internal/app/server/handlers/admin"
	"pickup/internal/app/server/handlers/order"
	"pickup/internal/app/server/handlers/payment"
	"pickup/internal/app/syncbridge"
	"pickup/pkg/clock"
	"pickup/pkg/logger"
)

type envelope struct {
	Meta struct {
		Code      int    `json:"code"`
		Message   string `json:"message"`
		Reason    string `json:"reason"`
		Retryable bool   `json:"retryable"`
		Details   []struct {
			Path string `json:"path"`
		} `json:"details"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewFake(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	log := logger.NewNop()
	bus := syncbridge.NewBus(clk, log)
	store := kvstore.New(kvstore.NewMemoryKV(), clk, syncbridge.LocalHook(bus))
	bus.Register(document.CollectionOrders, func(ctx context.Context) (interface{}, error) {
		return store.Orders().List(ctx)
	})
	bus.Register(document.CollectionPayments, func(ctx context.Context) (interface{}, error) {
		return store.Payments().List(ctx)
	})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = bus.Run(ctx) }()

	ids := idgen.New(1)
	orderService := svorder.NewOrderService(
		mdorder.NewOrderModule(store.Orders(), mdsequence.NewAllocator(store.Counter(), clk)),
		mdpayment.NewProcessor(store.Orders(), store.Payments(), mdpayment.TrustingVerifier{}, ids, clk, log),
		nil, ids, clk, etorder.RenotifyKeep, log)
	statsService := svstats.NewStatsService(store.Orders(), store.Payments(), clk)
	views := liveview.NewViews(orderService, bus, liveview.DefaultTimeouts(), liveview.DefaultRetryPolicy(), log)

	return SetupRoutes(log,
		order.NewOrderHandler(orderService, views),
		payment.NewPaymentHandler(orderService),
		admin.NewAdminHandler(orderService, statsService, views))
}

func do(t *testing.T, r http.Handler, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

const cartJSON = `{"items":[
	{"menuItemId":"m-burger","name":"Burger","price":"20.00","quantity":2},
	{"menuItemId":"m-fries","name":"Fries","price":"10.00","quantity":1}
], "tableNumber":"4"}`

func createOrder(t *testing.T, r http.Handler) map[string]interface{} {
	t.Helper()
	code, env := do(t, r, http.MethodPost, "/api/v1/orders", cartJSON)
	require.Equal(t, http.StatusCreated, code)
	var o map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &o))
	return o
}

func TestOrderLifecycle(t *testing.T) {
	r := newRouter(t)

	o := createOrder(t, r)
	id := o["id"].(string)
	assert.Equal(t, "50.00", o["totalAmount"])
	assert.Equal(t, "pending", o["status"])
	assert.Equal(t, "0001", o["orderNumber"])

	code, _ := do(t, r, http.MethodGet, "/api/v1/orders/number/0001", "")
	assert.Equal(t, http.StatusOK, code)

	code, env := do(t, r, http.MethodPost, "/api/v1/orders/"+id+"/payments",
		`{"method":"card","cardInfo":{"transactionId":"tok_abc"}}`)
	require.Equal(t, http.StatusOK, code)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, true, result["success"])

	code, env = do(t, r, http.MethodGet, "/api/v1/orders/"+id, "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &o))
	assert.Equal(t, "preparing", o["status"])
	assert.Equal(t, "completed", o["paymentStatus"])

	code, env = do(t, r, http.MethodGet, "/api/v1/orders/"+id+"/queue", "")
	require.Equal(t, http.StatusOK, code)
	var queue map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &queue))
	assert.Equal(t, float64(0), queue["aheadCount"])
	assert.Equal(t, "0001", queue["currentlyPreparingOrderNumber"])

	code, _ = do(t, r, http.MethodPost, "/api/v1/admin/orders/"+id+"/notify", "")
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPatch, "/api/v1/admin/orders/"+id+"/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPatch, "/api/v1/admin/orders/"+id+"/status", `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, env = do(t, r, http.MethodGet, "/api/v1/stats", "")
	require.Equal(t, http.StatusOK, code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, "50.00", stats["todayRevenue"])

	code, env = do(t, r, http.MethodGet, "/api/v1/admin/stats", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, "50.00", stats["averageOrderValue"])
}

func TestCashPayment(t *testing.T) {
	r := newRouter(t)
	id := createOrder(t, r)["id"].(string)

	code, _ := do(t, r, http.MethodPost, "/api/v1/orders/"+id+"/payments", `{"method":"cash"}`)
	require.Equal(t, http.StatusOK, code)

	code, env := do(t, r, http.MethodGet, "/api/v1/orders/"+id+"/payment", "")
	require.Equal(t, http.StatusOK, code)
	var p map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "pending", p["status"])
	assert.Equal(t, "cash", p["method"])

	code, _ = do(t, r, http.MethodGet, "/api/v1/payments/"+p["id"].(string), "")
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/api/v1/admin/orders?status=pending", "")
	require.Equal(t, http.StatusOK, code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "pending", list[0]["status"])
}

func TestValidationErrors(t *testing.T) {
	r := newRouter(t)
	id := createOrder(t, r)["id"].(string)

	code, env := do(t, r, http.MethodPost, "/api/v1/orders/"+id+"/payments", `{"method":"cheque"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.Len(t, env.Meta.Details, 1)
	assert.Equal(t, "Method", env.Meta.Details[0].Path)

	code, env = do(t, r, http.MethodPost, "/api/v1/orders/"+id+"/payments", `{"method":"visa"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "PAYMENT_CONFIRMATION_MISSING", env.Meta.Reason)

	code, _ = do(t, r, http.MethodPost, "/api/v1/orders", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, http.MethodPatch, "/api/v1/admin/orders/"+id+"/status", `{"status":"burnt"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, http.MethodGet, "/api/v1/admin/orders?status=burnt", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestNotFoundAndUnavailable(t *testing.T) {
	r := newRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/v1/orders/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Meta.Reason)

	code, env = do(t, r, http.MethodGet, "/api/v1/payments/missing", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "PAYMENT_NOT_FOUND", env.Meta.Reason)

	id := createOrder(t, r)["id"].(string)
	code, env = do(t, r, http.MethodPost, "/api/v1/admin/orders/"+id+"/print", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, env.Meta.Retryable)
}

func TestLiveOrderStream(t *testing.T) {
	r := newRouter(t)
	id := createOrder(t, r)["id"].(string)

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/orders/"+id+"/live", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	scanner := bufio.NewScanner(resp.Body)
	var event string
	var data []byte
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		}
		if strings.HasPrefix(line, "data:") {
			data = bytes.TrimSpace([]byte(strings.TrimPrefix(line, "data:")))
			break
		}
	}
	assert.Equal(t, "order", event)

	var frame struct {
		Order struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"order"`
		Queue struct {
			AheadCount int `json:"aheadCount"`
		} `json:"queue"`
	}
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, id, frame.Order.ID)
	assert.Equal(t, "pending", frame.Order.Status)
}

func TestLiveOrderStream_NotFound(t *testing.T) {
	r := newRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/v1/orders/missing/live", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Meta.Reason)
}

func TestHealth(t *testing.T) {
	r := newRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
