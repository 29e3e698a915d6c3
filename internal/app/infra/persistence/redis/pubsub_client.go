package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewClient connects and pings.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// ChangeNotification is published after a write so other processes refresh.
type ChangeNotification struct {
	Collection string `json:"collection"`
	Origin     string `json:"origin"`
	Timestamp  int64  `json:"timestamp"`
}

// PubSubClient publishes and receives change notifications on one channel.
type PubSubClient struct {
	rdb     *redis.Client
	channel string
}

// NewPubSubClient shares rdb; closing rdb is up to the caller.
func NewPubSubClient(rdb *redis.Client, channel string) *PubSubClient {
	return &PubSubClient{rdb: rdb, channel: channel}
}

// Publish sends one notification.
func (c *PubSubClient) Publish(ctx context.Context, n *ChangeNotification) error {
	msg, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if err := c.rdb.Publish(ctx, c.channel, msg).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Listen delivers notifications to handle until ctx is cancelled. Malformed payloads
// are skipped.
func (c *PubSubClient) Listen(ctx context.Context, handle func(*ChangeNotification)) error {
	sub := c.rdb.Subscribe(ctx, c.channel)
	defer sub.Close()

	// wait for the subscription to be confirmed so no publish after return is missed
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %s: %w", c.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription %s closed", c.channel)
			}
			var n ChangeNotification
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				continue
			}
			handle(&n)
		}
	}
}
