package service

import (
	"context"
	"lockngo/config"
	"lockngo/infras/kafka"
	"lockngo/infras/otel"
	"lockngo/internal/domains/event/model"
	"lockngo/shared/constant"

	"github.com/rs/zerolog/log"
)

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=../mocks/publisher_mock.go -package=mocks

// Publisher emits committed changes. Delivery is best effort: a failed publish
// is logged and never undoes the change it describes.
type Publisher interface {
	Publish(ctx context.Context, events ...model.Event)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func NewPublisher(client kafka.Client, cfg *config.Config, otel otel.Otel) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, events ...model.Event) {
	topic := p.cfg.Kafka.Topic
	if topic == "" || len(events) == 0 {
		return
	}

	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()

	messages := make([]kafka.Message, 0, len(events))
	for _, evt := range events {
		messages = append(messages, kafka.Message{Key: evt.EntityID, Value: evt})
	}

	scope.SetAttributes(map[string]any{
		"messaging.destination": topic,
		"messaging.batch_size":  len(messages),
		"event.type":            string(events[0].Type),
	})

	if err := p.client.SendMessages(ctx, topic, messages...); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("type", string(events[0].Type)).Str("entity_id", events[0].EntityID).Msg("failed to publish event")
	}
}
