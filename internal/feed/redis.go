package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/rueidis"
	log "github.com/sirupsen/logrus"
)

// RedisPublisher publishes change events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  rueidis.Client
	channel string
}

func NewRedisPublisher(client rueidis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev ChangeEvent) error {
	data, err := sonic.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	cmd := p.client.B().Publish().Channel(p.channel).Message(string(data)).Build()
	return p.client.Do(ctx, cmd).Error()
}

// RedisRelay forwards events received on the Redis channel into the local hub,
// so every instance observes writes made by any instance.
type RedisRelay struct {
	client  rueidis.Client
	channel string
	hub     *Hub
	logger  *log.Entry
	backoff time.Duration
}

func NewRedisRelay(client rueidis.Client, channel string, hub *Hub, logger *log.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger.WithField("component", "feed.relay"),
		backoff: time.Second,
	}
}

// Run blocks until ctx is done, resubscribing whenever the subscription drops.
func (r *RedisRelay) Run(ctx context.Context) {
	for {
		err := r.client.Receive(ctx, r.client.B().Subscribe().Channel(r.channel).Build(), func(msg rueidis.PubSubMessage) {
			r.handle(ctx, msg.Message)
		})
		if ctx.Err() != nil {
			return
		}
		r.logger.WithError(err).Error("pubsub subscription closed, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.backoff):
		}
	}
}

func (r *RedisRelay) handle(ctx context.Context, payload string) {
	var ev ChangeEvent
	if err := sonic.UnmarshalString(payload, &ev); err != nil {
		r.logger.WithError(err).Error("unable to parse change event")
		return
	}
	_ = r.hub.Publish(ctx, ev)
}
