package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"snipx-service/ddd/domain/gateway"
	"snipx-service/pkg/kafka"
	"snipx-service/pkg/logger"
)

// producer is satisfied by *kafka.Client.
type producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

var _ gateway.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher writes video events keyed by video id so that one video's
// events stay ordered on a partition.
type KafkaPublisher struct {
	producer producer
	topic    string
}

func NewKafkaPublisher(p producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic}
}

func (p *KafkaPublisher) PublishVideoEvent(ctx context.Context, event gateway.VideoEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal video event: %w", err)
	}
	err = p.producer.Produce(ctx, p.topic, []byte(event.VideoID), payload)
	if errors.Is(err, kafka.ErrDisabled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	logger.Debugf("Video event published type=%s video_id=%s topic=%s", event.Type, event.VideoID, p.topic)
	return nil
}
