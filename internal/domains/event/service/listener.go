package service

import (
	"context"
	"lockngo/config"
	"lockngo/infras/kafka"
	"lockngo/internal/domains/event/model"
	"sync"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Listener consumes the event topic into the audit log and keeps per-type counters.
type Listener interface {
	Listen(ctx context.Context)
	Counts() map[model.Type]int
}

type listenerImpl struct {
	client kafka.Client
	cfg    *config.Config

	mu     sync.Mutex
	counts map[model.Type]int
}

func NewListener(client kafka.Client, cfg *config.Config) Listener {
	return &listenerImpl{
		client: client,
		cfg:    cfg,
		counts: make(map[model.Type]int),
	}
}

// Listen blocks until ctx is done. It returns at once when no topic is configured.
func (l *listenerImpl) Listen(ctx context.Context) {
	topic := l.cfg.Kafka.Topic
	if topic == "" {
		log.Info().Msg("event topic not configured, audit listener disabled")

		return
	}

	l.client.Consume(ctx, l.cfg.Kafka.ConsumerGroup, topic, l.handle)
}

func (l *listenerImpl) handle(msg kafkaGo.Message) {
	key, evt, err := kafka.DecodeKafkaMessage[model.Event](msg)
	if err != nil {
		log.Warn().Err(err).Str("key", string(msg.Key)).Msg("skipping malformed event")

		return
	}

	l.mu.Lock()
	l.counts[evt.Type]++
	l.mu.Unlock()

	log.Info().
		Str("type", string(evt.Type)).
		Str("entity_id", key).
		Str("actor_id", evt.ActorID).
		Str("status", evt.Status).
		Time("occurred_at", evt.OccurredAt).
		Msg("audit")
}

func (l *listenerImpl) Counts() map[model.Type]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[model.Type]int, len(l.counts))
	for k, v := range l.counts {
		out[k] = v
	}

	return out
}
