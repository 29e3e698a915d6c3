package framework

import (
	"context"
	"time"

	"pickup/pkg/lmstfy"
)

// MessageSource is the queue the worker reads from. *lmstfy.Client satisfies it.
type MessageSource interface {
	// Consume blocks until a job arrives or timeout passes. Both return values are nil on timeout.
	Consume(queue string, timeout time.Duration, ttr time.Duration) (*lmstfy.Message, error)

	Ack(queue string, jobID string) error
}

// Logger is the part of pkg/logger the framework needs.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Warnf(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
}
