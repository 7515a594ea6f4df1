package service_test

import (
	"context"
	"errors"
	"lockngo/config"
	"lockngo/infras/kafka"
	kafkaMocks "lockngo/infras/kafka/mocks"
	"lockngo/infras/otel/mocks"
	"lockngo/internal/domains/event/model"
	"lockngo/internal/domains/event/service"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestPublisher_Publish(t *testing.T) {
	evt := model.Event{
		Type:       model.TypeBookingAssigned,
		EntityID:   "b1",
		ActorID:    "a1",
		Status:     "Assigned",
		OccurredAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		topic     string
		setupMock func(client *kafkaMocks.MockClient)
	}{
		{
			name:      "no topic configured",
			topic:     "",
			setupMock: func(_ *kafkaMocks.MockClient) {},
		},
		{
			name:  "sends keyed message",
			topic: "lockngo.events",
			setupMock: func(client *kafkaMocks.MockClient) {
				client.EXPECT().
					SendMessages(gomock.Any(), "lockngo.events", kafka.Message{Key: "b1", Value: evt}).
					Return(nil)
			},
		},
		{
			name:  "send failure is swallowed",
			topic: "lockngo.events",
			setupMock: func(client *kafkaMocks.MockClient) {
				client.EXPECT().
					SendMessages(gomock.Any(), "lockngo.events", gomock.Any()).
					Return(errors.New("broker down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := kafkaMocks.NewMockClient(ctrl)

			cfg := &config.Config{}
			cfg.Kafka.Topic = tt.topic

			tt.setupMock(client)

			publisher := service.NewPublisher(client, cfg, mocks.NewOtel())
			publisher.Publish(context.Background(), evt)
		})
	}
}

func TestListener_Listen(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.Topic = "lockngo.events"
	cfg.Kafka.ConsumerGroup = "audit"

	valid, err := (&kafka.Message{Key: "b1", Value: model.Event{Type: model.TypeBookingCreated, EntityID: "b1"}}).ToKafkaMessage(cfg.Kafka.Topic)
	assert.NoError(t, err)

	client.EXPECT().
		Consume(gomock.Any(), "audit", "lockngo.events", gomock.Any()).
		Do(func(_ context.Context, _, _ string, handler func(kafkaGo.Message)) {
			handler(valid)
			handler(kafkaGo.Message{Key: []byte("b2"), Value: []byte("not json")})
			handler(valid)
		})

	listener := service.NewListener(client, cfg)
	listener.Listen(context.Background())

	assert.Equal(t, map[model.Type]int{model.TypeBookingCreated: 2}, listener.Counts())
}

func TestListener_DisabledWithoutTopic(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	listener := service.NewListener(client, &config.Config{})
	listener.Listen(context.Background())

	assert.Empty(t, listener.Counts())
}
