package lmstfy

import (
	"fmt"
	"time"

	"github.com/bitleak/lmstfy/client"
)

// Message is one job pulled from a queue.
type Message struct {
	ID       string
	Queue    string
	Data     []byte
	Attempts int
}

// Client wraps the lmstfy client for one namespace.
type Client struct {
	cli       *client.LmstfyClient
	namespace string
	tries     uint16
}

// NewClient tries is how many deliveries a published job gets before it is dead-lettered.
func NewClient(host string, port int, namespace, token string, tries uint16) *Client {
	if tries == 0 {
		tries = 3
	}
	return &Client{
		cli:       client.NewLmstfyClient(host, port, namespace, token),
		namespace: namespace,
		tries:     tries,
	}
}

// Publish enqueues data. ttl 0 keeps the job until consumed.
func (c *Client) Publish(queue string, data []byte, ttl, delay time.Duration) (string, error) {
	jobID, err := c.cli.Publish(queue, data, uint32(ttl.Seconds()), c.tries, uint32(delay.Seconds()))
	if err != nil {
		return "", fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return jobID, nil
}

// Consume blocks up to timeout. A nil message means nothing arrived. An unacked job is
// redelivered once ttr expires.
func (c *Client) Consume(queue string, timeout, ttr time.Duration) (*Message, error) {
	job, err := c.cli.Consume(queue, uint32(ttr.Seconds()), uint32(timeout.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("lmstfy consume failed: %w", err)
	}
	if job == nil {
		return nil, nil
	}

	return &Message{
		ID:    job.ID,
		Queue: job.Queue,
		Data:  job.Data,
	}, nil
}

// Ack deletes a consumed job.
func (c *Client) Ack(queue, jobID string) error {
	if err := c.cli.Ack(queue, jobID); err != nil {
		return fmt.Errorf("lmstfy ack failed: %w", err)
	}
	return nil
}
