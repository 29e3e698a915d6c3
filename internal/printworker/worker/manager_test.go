package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/internal/printworker/config"
	"pickup/internal/printworker/domains/common"
	"pickup/pkg/errorx"
	"pickup/pkg/lmstfy"
	"pickup/pkg/logger"
	"pickup/pkg/receiptjob"
)

// memQueue is an in-memory lmstfy stand-in. Unacked jobs are not redelivered.
type memQueue struct {
	mu    sync.Mutex
	jobs  map[string][]*lmstfy.Message
	acked map[string]bool
}

func newMemQueue() *memQueue {
	return &memQueue{jobs: map[string][]*lmstfy.Message{}, acked: map[string]bool{}}
}

func (q *memQueue) push(queue string, msg *lmstfy.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	msg.Queue = queue
	q.jobs[queue] = append(q.jobs[queue], msg)
}

func (q *memQueue) Consume(queue string, timeout, ttr time.Duration) (*lmstfy.Message, error) {
	q.mu.Lock()
	if jobs := q.jobs[queue]; len(jobs) > 0 {
		q.jobs[queue] = jobs[1:]
		q.mu.Unlock()
		return jobs[0], nil
	}
	q.mu.Unlock()
	time.Sleep(2 * time.Millisecond)
	return nil, nil
}

func (q *memQueue) Ack(queue, jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked[jobID] = true
	return nil
}

func (q *memQueue) isAcked(jobID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.acked[jobID]
}

type countingPrinter struct {
	mu      sync.Mutex
	printed []string
	failFor string
}

func (p *countingPrinter) Print(ctx context.Context, r *receiptjob.Receipt) error {
	if r.OrderNumber == p.failFor {
		return errorx.TransientIO("print gateway unreachable", nil)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.printed = append(p.printed, r.OrderNumber)
	return nil
}

func (p *countingPrinter) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.printed)
}

func job(t *testing.T, id, number string) *lmstfy.Message {
	t.Helper()
	data, err := json.Marshal(receiptjob.New("req-"+id, &receiptjob.Receipt{
		OrderID:     "order-" + id,
		OrderNumber: number,
		Lines:       []receiptjob.Line{{Name: "Latte", Quantity: 1, UnitPrice: "4.50", Subtotal: "4.50"}},
		TotalAmount: "4.50",
	}))
	require.NoError(t, err)
	return &lmstfy.Message{ID: id, Data: data}
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "printworker"},
		Workers: []config.WorkerConfig{{
			Name:       "receipts",
			QueueName:  "receipts",
			Subscriber: config.SubscriberConfig{Threads: 2, Timeout: time.Millisecond, TTR: time.Minute, ErrorBackoff: time.Millisecond},
			Processor:  config.ProcessorConfig{Threads: 2, BufferSize: 4, Timeout: time.Second},
		}},
	}
}

func TestManager_PrintsAndShutsDown(t *testing.T) {
	q := newMemQueue()
	p := &countingPrinter{failFor: "0003"}
	q.push("receipts", job(t, "j1", "0001"))
	q.push("receipts", job(t, "j2", "0002"))
	q.push("receipts", job(t, "j3", "0003"))
	q.push("receipts", &lmstfy.Message{ID: "j4", Data: []byte("not json")})

	mgr, err := NewManagerInstance(testConfig(), q, &common.Deps{Printer: p}, logger.NewNop())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- mgr.Start() }()

	require.Eventually(t, func() bool {
		return q.isAcked("j1") && q.isAcked("j2") && q.isAcked("j4")
	}, 2*time.Second, 5*time.Millisecond)

	mgr.Shutdown()
	mgr.Shutdown()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("manager did not stop")
	}

	assert.Equal(t, 2, p.count())
	assert.False(t, q.isAcked("j3"), "a retryable failure leaves the job for redelivery")
}

func TestManager_ShutdownBeforeStart(t *testing.T) {
	mgr, err := NewManagerInstance(testConfig(), newMemQueue(), &common.Deps{Printer: &countingPrinter{}}, logger.NewNop())
	require.NoError(t, err)

	mgr.Shutdown()
	assert.NoError(t, mgr.Start())
}

func TestNewManagerInstance_RequiresDeps(t *testing.T) {
	_, err := NewManagerInstance(testConfig(), nil, &common.Deps{Printer: &countingPrinter{}}, logger.NewNop())
	assert.Error(t, err)

	_, err = NewManagerInstance(testConfig(), newMemQueue(), &common.Deps{}, logger.NewNop())
	assert.Error(t, err)
}
