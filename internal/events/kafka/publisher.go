package kafka

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/mamarbank/bank_backend/internal/core/domain"
	"github.com/mamarbank/bank_backend/internal/core/ports"
)

// Publisher delivers notification events to a Kafka topic. Messages are keyed
// by account number so events for one account stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Ensure Publisher implements ports.Notifier
var _ ports.Notifier = (*Publisher)(nil)

// Publish JSON-encodes the event and writes it to the topic.
func (p *Publisher) Publish(ctx context.Context, event domain.NotificationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AccountNumber, 10)),
		Value: data,
	})
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
