package kafka

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/windrose-etl/internal/config"
	"github.com/couchcryptid/windrose-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	event := domain.RoseRendered{
		RunID:      "run-1",
		Station:    "Sydney",
		Source:     "BOM",
		RoseType:   "season",
		Label:      "2019",
		Path:       "out/Sydney_season_2019.png",
		Rows:       8760,
		FirstYear:  2019,
		LastYear:   2019,
		RenderedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("Sydney"), msg.Key)
	assert.Contains(t, string(msg.Value), `"rose_type":"season"`)
	assert.Contains(t, string(msg.Value), `"rows":8760`)
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "rose_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("season"), msg.Headers[0].Value)
	assert.Equal(t, "run_id", msg.Headers[1].Key)
	assert.Equal(t, []byte("run-1"), msg.Headers[1].Value)
	assert.Equal(t, "rendered_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}

func TestNewWriter(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "rendered-wind-roses"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	assert.Equal(t, "rendered-wind-roses", w.writer.Topic)
}

func TestWriter_PublishEmpty(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "rendered-wind-roses"}
	w := NewWriter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer w.Close()

	require.NoError(t, w.Publish(context.Background(), nil))
}
