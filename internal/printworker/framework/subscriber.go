package framework

import (
	"context"
	"sync"
	"time"

	"pickup/pkg/lmstfy"
	"pickup/pkg/logger"
)

// Subscriber pulls jobs from the queue and hands them to the Processor.
type Subscriber struct {
	cfg        *SubscriberConfig
	source     MessageSource
	logger     Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewSubscriber creates a subscriber.
func NewSubscriber(cfg *SubscriberConfig, source MessageSource, log Logger) *Subscriber {
	return &Subscriber{
		cfg:    cfg,
		source: source,
		logger: log,
	}
}

// Start launches cfg.Concurrency pulling goroutines.
func (s *Subscriber) Start(parentCtx context.Context, inputChan chan<- *lmstfy.Message) {
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancelFunc = cancel

	s.logger.Infof(ctx, "[Subscriber] starting %d workers for queue %s", s.cfg.Concurrency, s.cfg.QueueName)

	for i := 0; i < s.cfg.Concurrency; i++ {
		s.wg.Add(1)
		go s.loop(logger.WithWorkerID(ctx, i), i, inputChan)
	}
}

// Stop stops pulling new jobs. A Consume in flight still finishes.
func (s *Subscriber) Stop() {
	s.logger.Infof(context.Background(), "[Subscriber] stopping")
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
}

// Wait blocks until every pulling goroutine has exited.
func (s *Subscriber) Wait() {
	s.wg.Wait()
	s.logger.Infof(context.Background(), "[Subscriber] all workers exited")
}

func (s *Subscriber) loop(ctx context.Context, workerID int, inputChan chan<- *lmstfy.Message) {
	defer s.wg.Done()
	s.logger.Debugf(ctx, "[Subscriber-%d] started", workerID)

	for {
		// 1. pull one job
		msg, err := s.source.Consume(s.cfg.QueueName, s.cfg.Timeout, s.cfg.TTR)
		if err != nil {
			s.logger.Warnf(ctx, "[Subscriber-%d] consume error: %v, retrying", workerID, err)
			if !sleep(ctx, s.cfg.ErrorBackoff) {
				return
			}
			continue
		}

		if msg == nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		if msg.Queue == "" {
			msg.Queue = s.cfg.QueueName
		}

		// 2. hand over; an unacked job dropped here is redelivered after its TTR
		select {
		case inputChan <- msg:
			s.logger.Debugf(ctx, "[Subscriber-%d] job handed over: %s", workerID, msg.ID)
		case <-ctx.Done():
			s.logger.Warnf(ctx, "[Subscriber-%d] dropping job on shutdown: %s", workerID, msg.ID)
			return
		}

		// 3. rate limit
		if !sleep(ctx, s.cfg.Rate) {
			return
		}
	}
}

// sleep waits d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
