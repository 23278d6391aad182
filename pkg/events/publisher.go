package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/careloop-health/readmit/pkg/common/logger"
	"github.com/careloop-health/readmit/pkg/common/models"
)

// Publisher emits prediction lifecycle events to the analytics stream.
// A nil Publisher is valid and drops everything, so the gateway runs
// unchanged when Kafka is not configured.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: writer}
}

// PredictionCompleted publishes one event per successful relay. Publish
// failures are logged and swallowed: the caller already has its verdict and
// the stream is best-effort.
func (p *Publisher) PredictionCompleted(ctx context.Context, event models.PredictionEvent) {
	if p == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		logger.WithError(err).Error("Failed to marshal prediction event")
		return
	}

	message := kafka.Message{
		Key:   []byte(event.ID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte("prediction.completed")},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		logger.WithError(err).WithFields(map[string]interface{}{
			"event_id":   event.ID,
			"request_id": event.RequestID,
		}).Error("Failed to publish prediction event")
	}
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("closing event writer: %w", err)
	}
	return nil
}
