package simulate

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnordli/matchcast/internal/models"
	"github.com/avnordli/matchcast/internal/timeline"
)

func TestMatchPreload(t *testing.T) {
	store := chatTestStore()
	script := DefaultScript()

	sim := NewMatchSimulator(store, clockwork.NewFakeClock(), script)
	added := sim.Preload()

	assert.Equal(t, len(script), added)
	assert.Equal(t, len(script), store.EventCount())

	// preloading twice is a no-op thanks to id dedup
	assert.Equal(t, 0, sim.Preload())
}

func TestMatchRunDripsEventsAsLiveAdvances(t *testing.T) {
	store := timeline.NewStore(timeline.SessionConfig{
		PreKickoffSeconds:    60,
		MatchDurationSeconds: 6300,
	})
	clock := clockwork.NewFakeClock()
	script := []models.TimelineEvent{
		{ID: "past", VideoTimestamp: -60, Payload: models.ChatMessage{Username: "u", Text: "t"}},
		{ID: "future", VideoTimestamp: 30, Payload: models.Poll{Question: "q"}},
	}
	sim := NewMatchSimulator(store, clock, script)

	done := make(chan error, 1)
	go func() { done <- sim.Run(context.Background()) }()

	// the already-passed event is emitted on the first sweep
	clock.BlockUntil(1)
	require.Eventually(t, func() bool {
		return store.EventCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, store.VisibleEventsOfType(models.EventTypeChatMessage), 1)

	// once live passes its timestamp, the future event follows
	store.AdvanceLiveTime(100)
	clock.Advance(time.Second)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("simulator did not finish after script exhaustion")
	}
	assert.Equal(t, 2, store.EventCount())
}

func TestMatchRunStopsOnCancel(t *testing.T) {
	store := chatTestStore()
	clock := clockwork.NewFakeClock()
	script := []models.TimelineEvent{
		{ID: "never", VideoTimestamp: 9999, Payload: models.Poll{Question: "q"}},
	}
	sim := NewMatchSimulator(store, clock, script)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx) }()

	clock.BlockUntil(1)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("simulator did not stop on cancel")
	}
	assert.Equal(t, 0, store.EventCount())
}
