package framework

import "time"

// SubscriberConfig controls how jobs are pulled.
type SubscriberConfig struct {
	QueueName    string
	Concurrency  int           // pulling goroutines
	Timeout      time.Duration // long-poll wait per Consume
	TTR          time.Duration // time before an unacked job is redelivered
	Rate         time.Duration // pause between pulls
	ErrorBackoff time.Duration
}

// ProcessorConfig controls how jobs are handled.
type ProcessorConfig struct {
	Concurrency int
	BufferSize  int // capacity of the channel between subscriber and processor
	Timeout     time.Duration
}
