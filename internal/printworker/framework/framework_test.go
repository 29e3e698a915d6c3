package framework

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickup/pkg/lmstfy"
	"pickup/pkg/lmstfyx"
	"pickup/pkg/logger"
)

// fakeSource hands out queued jobs, then reports timeouts.
type fakeSource struct {
	mu       sync.Mutex
	jobs     []*lmstfy.Message
	failures int
	acked    []string
}

func (f *fakeSource) Consume(queue string, timeout, ttr time.Duration) (*lmstfy.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connection reset")
	}
	if len(f.jobs) == 0 {
		f.mu.Unlock()
		time.Sleep(time.Millisecond)
		f.mu.Lock()
		return nil, nil
	}
	msg := f.jobs[0]
	f.jobs = f.jobs[1:]
	return msg, nil
}

func (f *fakeSource) Ack(queue, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, queue+"/"+jobID)
	return nil
}

func (f *fakeSource) ackedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.acked...)
}

func (f *fakeSource) remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

func TestSubscriber_HandsOverJobs(t *testing.T) {
	src := &fakeSource{
		failures: 1,
		jobs:     []*lmstfy.Message{{ID: "j1"}, {ID: "j2", Queue: "other"}},
	}
	sub := NewSubscriber(&SubscriberConfig{
		QueueName:    "receipts",
		Concurrency:  1,
		ErrorBackoff: time.Millisecond,
	}, src, logger.NewNop())

	ch := make(chan *lmstfy.Message, 4)
	sub.Start(context.Background(), ch)

	var got []*lmstfy.Message
	for len(got) < 2 {
		select {
		case msg := <-ch:
			got = append(got, msg)
		case <-time.After(2 * time.Second):
			t.Fatal("jobs not handed over")
		}
	}

	sub.Stop()
	sub.Wait()

	assert.Equal(t, "j1", got[0].ID)
	assert.Equal(t, "receipts", got[0].Queue)
	assert.Equal(t, "other", got[1].Queue)
}

func TestSubscriber_StopWhileBlocked(t *testing.T) {
	src := &fakeSource{jobs: []*lmstfy.Message{{ID: "j1"}, {ID: "j2"}}}
	sub := NewSubscriber(&SubscriberConfig{QueueName: "receipts", Concurrency: 1}, src, logger.NewNop())

	// unbuffered and never read: the hand-over blocks until Stop
	ch := make(chan *lmstfy.Message)
	sub.Start(context.Background(), ch)
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		sub.Stop()
		sub.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not exit")
	}
	assert.Equal(t, 1, src.remaining())
}

func TestProcessor_SettlesByAction(t *testing.T) {
	src := &fakeSource{}
	proc := func(ctx context.Context, msg *lmstfy.Message) *lmstfyx.JobResp {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		switch msg.ID {
		case "ok":
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
		case "poison":
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusBury}
		default:
			return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease}
		}
	}
	p := NewProcessor(&ProcessorConfig{Concurrency: 2, Timeout: time.Second}, proc, src, logger.NewNop())

	ch := make(chan *lmstfy.Message, 3)
	ch <- &lmstfy.Message{ID: "ok", Queue: "receipts"}
	ch <- &lmstfy.Message{ID: "poison", Queue: "receipts"}
	ch <- &lmstfy.Message{ID: "flaky", Queue: "receipts"}

	p.Start(context.Background(), ch)
	require.Eventually(t, func() bool { return len(ch) == 0 }, 2*time.Second, 5*time.Millisecond)
	p.SignalShutdown()
	p.Wait()

	assert.ElementsMatch(t, []string{"receipts/ok", "receipts/poison"}, src.ackedIDs())
}

func TestProcessor_DrainsBufferedJobs(t *testing.T) {
	src := &fakeSource{}
	var mu sync.Mutex
	var handled []string
	proc := func(ctx context.Context, msg *lmstfy.Message) *lmstfyx.JobResp {
		mu.Lock()
		handled = append(handled, msg.ID)
		mu.Unlock()
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	}
	p := NewProcessor(&ProcessorConfig{Concurrency: 1, Timeout: time.Second}, proc, src, logger.NewNop())

	ch := make(chan *lmstfy.Message, 3)
	for _, id := range []string{"a", "b", "c"} {
		ch <- &lmstfy.Message{ID: id, Queue: "receipts"}
	}

	// shutdown is signalled before the goroutines start, so everything goes through drain mode
	p.SignalShutdown()
	p.Start(context.Background(), ch)
	p.Wait()

	assert.Len(t, handled, 3)
	assert.Len(t, src.ackedIDs(), 3)
}

func TestProcessor_NilResponseReleases(t *testing.T) {
	src := &fakeSource{}
	p := NewProcessor(&ProcessorConfig{Concurrency: 1, Timeout: time.Second},
		func(context.Context, *lmstfy.Message) *lmstfyx.JobResp { return nil }, src, logger.NewNop())

	ch := make(chan *lmstfy.Message, 1)
	ch <- &lmstfy.Message{ID: "x", Queue: "receipts"}
	p.SignalShutdown()
	p.Start(context.Background(), ch)
	p.Wait()

	assert.Empty(t, src.ackedIDs())
}
