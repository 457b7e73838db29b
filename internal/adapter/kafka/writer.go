package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/sharda-atlas/internal/config"
	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

// EventTypeRegionGenerated is the event_type header on every published record.
const EventTypeRegionGenerated = "region.generated"

// Writer publishes generated region records to a Kafka topic.
// It implements retrieval.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured region topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaRegionTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one event keyed by region name, so every record for a region
// lands on the same partition.
func (w *Writer) Publish(ctx context.Context, event domain.RegionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish region event %s: %w", event.ID, err)
	}
	w.logger.Debug("region event published", "region", event.Region, "event_id", event.ID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RegionEvent into a Kafka message.
func serializeToMessage(event domain.RegionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize region event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Region),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(EventTypeRegionGenerated)},
			{Key: "generated_at", Value: []byte(event.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
