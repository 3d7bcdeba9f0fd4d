package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/windrose-etl/internal/config"
	"github.com/couchcryptid/windrose-etl/internal/domain"
)

// Writer publishes rendered-rose notifications to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured notification topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes every event in a single WriteMessages call.
// Events are keyed by station so one station's images stay ordered.
func (w *Writer) Publish(ctx context.Context, events []domain.RoseRendered) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish rose notifications: %w", err)
	}
	w.logger.Debug("rose notifications published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RoseRendered event into a Kafka message.
func serializeToMessage(event domain.RoseRendered) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize rose event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Station),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "rose_type", Value: []byte(event.RoseType)},
			{Key: "run_id", Value: []byte(event.RunID)},
			{Key: "rendered_at", Value: []byte(event.RenderedAt.Format(time.RFC3339))},
		},
	}, nil
}
