package worker

import (
	"context"

	"pickup/internal/printworker/framework"
	"pickup/pkg/lmstfy"
	"pickup/pkg/lmstfyx"
	"pickup/pkg/logger"
)

// Worker is one queue consumer.
type Worker interface {
	Start()
	Shutdown()
	GetName() string
}

// WorkerInstance couples a subscriber and a processor through a buffered channel.
type WorkerInstance struct {
	ctx        context.Context
	name       string
	subscriber *framework.Subscriber
	processor  *framework.Processor
	inputChan  chan *lmstfy.Message
	startedCh  chan struct{}
	shutdownCh chan struct{}
	logger     logger.Logger
}

// NewWorkerInstance wires a worker; nothing runs until Start.
func NewWorkerInstance(
	ctx context.Context,
	name string,
	subscriberCfg *framework.SubscriberConfig,
	processorCfg *framework.ProcessorConfig,
	source framework.MessageSource,
	proc lmstfyx.Proc,
	log logger.Logger,
) Worker {
	return &WorkerInstance{
		ctx:        ctx,
		name:       name,
		subscriber: framework.NewSubscriber(subscriberCfg, source, log),
		processor:  framework.NewProcessor(processorCfg, proc, source, log),
		inputChan:  make(chan *lmstfy.Message, processorCfg.BufferSize),
		startedCh:  make(chan struct{}),
		shutdownCh: make(chan struct{}),
		logger:     log,
	}
}

// Start runs the worker and blocks until Shutdown completes.
func (w *WorkerInstance) Start() {
	w.logger.Infof(w.ctx, "[Worker] %s started", w.name)

	// processor first so handed-over jobs always have a reader
	w.processor.Start(w.ctx, w.inputChan)
	w.subscriber.Start(w.ctx, w.inputChan)
	close(w.startedCh)

	<-w.shutdownCh
}

// Shutdown stops the worker without losing buffered jobs. Start must have been called.
func (w *WorkerInstance) Shutdown() {
	<-w.startedCh
	w.logger.Infof(w.ctx, "[Worker] %s began to close", w.name)

	// 1. stop pulling
	w.subscriber.Stop()

	// 2. wait until nothing writes to inputChan anymore
	w.subscriber.Wait()

	// 3. drain what is buffered
	w.processor.SignalShutdown()

	// 4. wait for the last job to settle
	w.processor.Wait()

	close(w.shutdownCh)
	w.logger.Infof(w.ctx, "[Worker] %s shutdown complete", w.name)
}

func (w *WorkerInstance) GetName() string {
	return w.name
}
