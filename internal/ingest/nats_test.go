package ingest

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnordli/matchcast/internal/models"
)

func TestNATSHandleMessage(t *testing.T) {
	store := &recordingStore{}
	source := &NATSSource{store: store, config: DefaultNATSConfig()}

	source.handleMessage(&nats.Msg{
		Subject: "match.events.goal",
		Data:    []byte(`{"type":"goal","id":"g1","video_timestamp":120,"data":{"player":"X","team":"away"}}`),
	})
	source.handleMessage(&nats.Msg{
		Subject: "match.events.junk",
		Data:    []byte(`not even json`),
	})
	source.handleMessage(&nats.Msg{
		Subject: "match.events.other",
		Data:    []byte(`{"type":"heartbeat","id":"h1","data":{}}`),
	})

	events := store.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "g1", events[0].ID)
	assert.Equal(t, models.EventTypeMatchGoal, events[0].Type())
}

func TestDefaultNATSConfig(t *testing.T) {
	cfg := DefaultNATSConfig()
	assert.Equal(t, nats.DefaultURL, cfg.URL)
	assert.Equal(t, "match.events.>", cfg.Subject)
	assert.Equal(t, -1, cfg.MaxReconnects)
}
