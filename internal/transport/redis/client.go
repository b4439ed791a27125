package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-arcade/internal/entity"
)

const DefaultChannel = "tictactoe:outcomes"

// Client publishes finished games on a pub/sub channel. Nothing is stored.
type Client struct {
	client  *redis.Client
	channel string
}

// Connect opens a redis connection and checks it with PING.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return conn, nil
}

func New(client *redis.Client, channel string) *Client {
	if channel == "" {
		channel = DefaultChannel
	}

	return &Client{
		client:  client,
		channel: channel,
	}
}

func (that *Client) Channel() string {
	return that.channel
}

// PublishOutcome - sends the event as JSON to every current subscriber of the channel.
func (that *Client) PublishOutcome(ctx context.Context, event *entity.OutcomeEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal outcome event: %w", err)
	}

	if err = that.client.Publish(ctx, that.channel, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish outcome event: %w", err)
	}

	return nil
}

// Subscribe - returns a channel of decoded events. It is closed when ctx is done.
func (that *Client) Subscribe(ctx context.Context) (<-chan *entity.OutcomeEvent, error) {
	pubsub := that.client.Subscribe(ctx, that.channel)

	// wait for the subscription to be confirmed so no event published afterwards is missed
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", that.channel, err)
	}

	events := make(chan *entity.OutcomeEvent)

	go func() {
		defer close(events)
		defer pubsub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}

				var event entity.OutcomeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}

				select {
				case events <- &event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
