package kafka

import (
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sharda-atlas/internal/config"
	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	event := domain.RegionEvent{
		ID:     "6f1c2f7e-0000-4000-8000-000000000001",
		Region: "Tamil Nadu",
		Record: domain.RegionRecord{
			Capital:    "Chennai",
			History:    "Ancient Chola heartland.",
			Culture:    "Bharatanatyam and temple festivals.",
			Highlights: []domain.Highlight{{Name: "Pongal", Image: "https://picsum.photos/300/200"}},
		},
		GeneratedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("Tamil Nadu"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, kafkago.Header{Key: "event_type", Value: []byte("region.generated")}, msg.Headers[0])
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-03-14T09:30:00Z"), msg.Headers[1].Value)

	var decoded domain.RegionEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "Chennai", decoded.Record.Capital)
	assert.Contains(t, string(msg.Value), `"generated_at":"2026-03-14T09:30:00Z"`)
	assert.Contains(t, string(msg.Value), `"mainImage":""`)
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"b1:9092"}, KafkaRegionTopic: "region-records"}
	w := NewWriter(cfg, nil)
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "region-records", w.writer.Topic)
	assert.Equal(t, "b1:9092", w.writer.Addr.String())
	assert.Equal(t, kafkago.RequireAll, w.writer.RequiredAcks)
}
