package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTeamSideOpponent(t *testing.T) {
	assert.Equal(t, TeamAway, TeamHome.Opponent())
	assert.Equal(t, TeamHome, TeamAway.Opponent())
}

func TestTimelineEventType(t *testing.T) {
	ev := TimelineEvent{ID: "x", Payload: Poll{Question: "q"}}
	assert.Equal(t, EventTypePoll, ev.Type())

	assert.Equal(t, EventType(""), TimelineEvent{ID: "y"}.Type())
}

func TestKnownEventTypesCoverEveryPayload(t *testing.T) {
	payloads := []Payload{
		ChatMessage{}, MatchGoal{}, MatchCard{}, MatchSubstitution{},
		Poll{}, CastingContest{}, Highlight{}, Tweet{},
		AdminComment{}, ProductHighlight{},
	}
	assert.Len(t, payloads, len(KnownEventTypes))

	known := map[EventType]bool{}
	for _, typ := range KnownEventTypes {
		known[typ] = true
	}
	for _, p := range payloads {
		assert.True(t, known[p.EventType()], "missing %s", p.EventType())
	}
}
