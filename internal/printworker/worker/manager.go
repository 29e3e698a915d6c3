package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"pickup/internal/printworker/config"
	"pickup/internal/printworker/domains"
	"pickup/internal/printworker/domains/common"
	"pickup/internal/printworker/framework"
	"pickup/pkg/logger"
)

// Manager runs every configured worker.
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance owns the worker set and its lifecycle.
type ManagerInstance struct {
	ctx        context.Context
	cfg        *config.Config
	source     framework.MessageSource
	deps       *common.Deps
	workers    []Worker
	closing    *atomic.Bool
	shutdownCh chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	logger     logger.Logger
}

// NewManagerInstance creates a manager reading from source.
func NewManagerInstance(cfg *config.Config, source framework.MessageSource, deps *common.Deps, log logger.Logger) (Manager, error) {
	if source == nil {
		return nil, fmt.Errorf("message source is required")
	}
	if deps == nil || deps.Printer == nil {
		return nil, fmt.Errorf("printer is required")
	}

	return &ManagerInstance{
		ctx:        context.Background(),
		cfg:        cfg,
		source:     source,
		deps:       deps,
		closing:    atomic.NewBool(false),
		shutdownCh: make(chan struct{}),
		workers:    make([]Worker, 0, len(cfg.Workers)),
		logger:     log,
	}, nil
}

// Start launches every worker and blocks until Shutdown.
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] starting")

	m.mu.Lock()
	if m.closing.Load() {
		m.mu.Unlock()
		return nil
	}

	// 1. load workers
	if err := m.loadWorkers(); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("failed to load workers: %w", err)
	}

	// 2. run each worker in its own goroutine
	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] worker started: %s", w.GetName())
	}
	m.mu.Unlock()

	// 3. block until shutdown
	<-m.shutdownCh
	return nil
}

// Shutdown stops all workers once; later calls are no-ops.
func (m *ManagerInstance) Shutdown() {
	if !m.closing.CAS(false, true) {
		return
	}
	m.logger.Infof(m.ctx, "[Manager] began to close")

	m.mu.Lock()
	workers := m.workers
	m.mu.Unlock()

	for _, worker := range workers {
		m.logger.Infof(m.ctx, "[Manager] shutting down worker: %s", worker.GetName())
		worker.Shutdown()
	}
	m.wg.Wait()

	close(m.shutdownCh)
	m.logger.Infof(m.ctx, "[Manager] shutdown complete")
}

func (m *ManagerInstance) loadWorkers() error {
	proc := domains.GetProcess(m.logger, m.deps)

	workers := make([]Worker, 0, len(m.cfg.Workers))
	for _, workerCfg := range m.cfg.Workers {
		if workerCfg.QueueName == "" {
			return fmt.Errorf("worker %s has no queue", workerCfg.Name)
		}

		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}
		procCfg := &framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
		}

		workers = append(workers, NewWorkerInstance(m.ctx, workerCfg.Name, subCfg, procCfg, m.source, proc, m.logger))
	}

	m.workers = workers
	return nil
}
