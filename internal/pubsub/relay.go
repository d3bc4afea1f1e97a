// Package pubsub relays live-update messages between app instances over
// Redis so a browser connected to any instance sees every mutation.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
)

// DefaultChannel is the Redis channel every instance publishes to
const DefaultChannel = "champboard:updates"

// ErrSubscriptionClosed is returned by Run when Redis drops the subscription
var ErrSubscriptionClosed = errors.New("pubsub: subscription closed")

// Relay publishes hub messages to Redis and delivers what it receives back
// to the local hub.
type Relay struct {
	log     logger.Logger
	client  *redis.Client
	channel string
}

// New connects to the Redis server at url (redis://[:password@]host:port/db)
func New(ctx context.Context, log logger.Logger, url string) (*Relay, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("pubsub: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pubsub: connect redis: %w", err)
	}

	return &Relay{log: log, client: client, channel: DefaultChannel}, nil
}

// Publish sends msg to every subscribed instance
func (r *Relay) Publish(ctx context.Context, msg models.WSMessage) error {
	data, err := encode(msg)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// Run subscribes to the channel and calls deliver for each message until ctx
// is cancelled. It blocks.
func (r *Relay) Run(ctx context.Context, deliver func(models.WSMessage)) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return ErrSubscriptionClosed
			}
			msg, err := decode(m.Payload)
			if err != nil {
				r.log.Warn("Dropping malformed relay message", "error", err)
				continue
			}
			deliver(msg)
		}
	}
}

// Close releases the Redis connection pool
func (r *Relay) Close() error {
	return r.client.Close()
}

func encode(msg models.WSMessage) ([]byte, error) {
	if msg.Type == "" {
		return nil, errors.New("pubsub: message type is required")
	}
	return json.Marshal(msg)
}

func decode(payload string) (models.WSMessage, error) {
	var msg models.WSMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		return msg, err
	}
	if msg.Type == "" {
		return msg, errors.New("pubsub: message without type")
	}
	return msg, nil
}
