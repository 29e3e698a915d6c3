package framework

import (
	"context"
	"sync"
	"time"

	"pickup/pkg/lmstfy"
	"pickup/pkg/lmstfyx"
	"pickup/pkg/logger"
)

// Processor runs the injected Proc on every handed-over job and settles it on the queue.
type Processor struct {
	cfg        *ProcessorConfig
	proc       lmstfyx.Proc
	source     MessageSource
	logger     Logger
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewProcessor creates a processor. source is used to ack settled jobs.
func NewProcessor(cfg *ProcessorConfig, proc lmstfyx.Proc, source MessageSource, log Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		proc:       proc,
		source:     source,
		logger:     log,
		shutdownCh: make(chan struct{}),
	}
}

// Start launches cfg.Concurrency processing goroutines.
func (p *Processor) Start(ctx context.Context, inputChan <-chan *lmstfy.Message) {
	p.logger.Infof(ctx, "[Processor] starting %d workers", p.cfg.Concurrency)

	for i := 0; i < p.cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.loop(logger.WithWorkerID(ctx, i), i, inputChan)
	}
}

// SignalShutdown switches every goroutine to drain mode: finish what is buffered, then exit.
// Call it only after the subscriber has stopped writing to the channel.
func (p *Processor) SignalShutdown() {
	p.logger.Infof(context.Background(), "[Processor] shutdown signal received")
	close(p.shutdownCh)
}

// Wait blocks until every processing goroutine has exited.
func (p *Processor) Wait() {
	p.wg.Wait()
	p.logger.Infof(context.Background(), "[Processor] all workers exited")
}

func (p *Processor) loop(ctx context.Context, workerID int, inputChan <-chan *lmstfy.Message) {
	defer p.wg.Done()

	for {
		select {
		case msg := <-inputChan:
			p.process(ctx, msg, workerID)

		case <-p.shutdownCh:
			count := 0
			for {
				select {
				case msg := <-inputChan:
					p.process(ctx, msg, workerID)
					count++
				default:
					p.logger.Infof(ctx, "[Processor-%d] drained %d jobs, exiting", workerID, count)
					return
				}
			}
		}
	}
}

func (p *Processor) process(ctx context.Context, msg *lmstfy.Message, workerID int) {
	if msg == nil {
		return
	}
	startTime := time.Now()

	procCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	resp := p.proc(procCtx, msg)
	if resp == nil {
		resp = &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusRelease}
	}

	switch resp.Action {
	case lmstfyx.JobRespStatusSuccess:
		p.ack(ctx, msg)
	case lmstfyx.JobRespStatusBury:
		p.logger.Errorf(ctx, "[Processor-%d] job %s cannot be processed, discarding", workerID, msg.ID)
		p.ack(ctx, msg)
	case lmstfyx.JobRespStatusRelease:
		p.logger.Warnf(ctx, "[Processor-%d] job %s released for redelivery", workerID, msg.ID)
	}

	p.logger.Infof(ctx, "[Processor-%d] job processed: %s, action: %s, duration: %v",
		workerID, msg.ID, resp.Action, time.Since(startTime))
}

func (p *Processor) ack(ctx context.Context, msg *lmstfy.Message) {
	if err := p.source.Ack(msg.Queue, msg.ID); err != nil {
		// the job comes back after its TTR and is processed again
		p.logger.Warnf(ctx, "[Processor] ack job %s failed: %v", msg.ID, err)
	}
}
