package broadcast

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisBus implements Bus over redis Pub/Sub.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

var _ Bus = (*RedisBus)(nil)

func (b *RedisBus) Publish(ctx context.Context, channel, message string) error {
	if err := b.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("broadcast publish %s: %w", channel, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string, handler func(message string)) error {
	sub := b.client.Subscribe(ctx, channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before consuming.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("broadcast subscribe %s: %w", channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				if !errors.Is(ctx.Err(), context.Canceled) {
					log.Warn().Str("channel", channel).Msg("Broadcast subscription closed")
				}
				return nil
			}
			handler(msg.Payload)
		}
	}
}

func (b *RedisBus) Close() error {
	return nil // client lifecycle is owned by the container
}
