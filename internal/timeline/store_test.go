package timeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnordli/matchcast/internal/models"
)

func chatEvent(id string, ts float64) models.TimelineEvent {
	return models.TimelineEvent{
		ID:             id,
		VideoTimestamp: ts,
		Payload:        models.ChatMessage{Username: "tester", Text: "hei"},
	}
}

func goalEvent(id string, ts float64, team models.TeamSide, ownGoal bool) models.TimelineEvent {
	return models.TimelineEvent{
		ID:             id,
		VideoTimestamp: ts,
		Payload:        models.MatchGoal{Player: "P", Team: team, IsOwnGoal: ownGoal},
	}
}

func TestNewStoreStartsAtPreKickoff(t *testing.T) {
	s := NewStore(SessionConfig{PreKickoffSeconds: 900, MatchDurationSeconds: 6300})

	assert.Equal(t, -900.0, s.LiveTime())
	assert.Equal(t, -900.0, s.UserTime())
	assert.True(t, s.IsLive())
	assert.Equal(t, -15, s.CurrentMinute())
	assert.False(t, s.AtMatchEnd())
}

func TestAddEventValidation(t *testing.T) {
	tests := []struct {
		name  string
		event models.TimelineEvent
		want  bool
	}{
		{"valid", chatEvent("a", 10), true},
		{"negative timestamp allowed", chatEvent("b", -300), true},
		{"empty id", chatEvent("", 10), false},
		{"nan timestamp", chatEvent("c", math.NaN()), false},
		{"inf timestamp", chatEvent("d", math.Inf(1)), false},
		{"nil payload", models.TimelineEvent{ID: "e", VideoTimestamp: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(DefaultSessionConfig())
			assert.Equal(t, tt.want, s.AddEvent(tt.event))
		})
	}
}

func TestAddEventDuplicateID(t *testing.T) {
	s := NewStore(DefaultSessionConfig())

	require.True(t, s.AddEvent(chatEvent("dup", 10)))
	assert.False(t, s.AddEvent(chatEvent("dup", 20)))
	assert.Equal(t, 1, s.EventCount())

	// the original event is untouched by the rejected re-ingestion
	events := s.AllEvents()
	require.Len(t, events, 1)
	assert.Equal(t, 10.0, events[0].VideoTimestamp)
}

func TestAddEventsBatchMatchesIncremental(t *testing.T) {
	batch := []models.TimelineEvent{
		chatEvent("a", 30),
		chatEvent("b", 10),
		chatEvent("", 5), // invalid, skipped
		chatEvent("a", 99), // duplicate, skipped
		chatEvent("c", 20),
	}

	batched := NewStore(DefaultSessionConfig())
	assert.Equal(t, 3, batched.AddEvents(batch))

	incremental := NewStore(DefaultSessionConfig())
	for _, ev := range batch {
		incremental.AddEvent(ev)
	}

	assert.Equal(t, incremental.AllEvents(), batched.AllEvents())
}

func TestAllEventsPreservesInsertionOrder(t *testing.T) {
	s := NewStore(DefaultSessionConfig())
	s.AddEvent(chatEvent("late", 500))
	s.AddEvent(chatEvent("early", 5))

	events := s.AllEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "late", events[0].ID)
	assert.Equal(t, "early", events[1].ID)
}

func TestSetUserTimeClamping(t *testing.T) {
	s := NewStore(SessionConfig{PreKickoffSeconds: 900, MatchDurationSeconds: 6300})
	s.AdvanceLiveTime(1000) // live now at 100s

	tests := []struct {
		name string
		seek float64
		want float64
	}{
		{"within bounds", 50, 50},
		{"before session start", -5000, -900},
		{"past live edge", 9999, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetUserTime(tt.seek)
			assert.Equal(t, tt.want, s.UserTime())
		})
	}
}

func TestSetUserTimeIgnoresNonFinite(t *testing.T) {
	s := NewStore(DefaultSessionConfig())
	s.AdvanceLiveTime(1000)
	s.SetUserTime(50)

	s.SetUserTime(math.NaN())
	assert.Equal(t, 50.0, s.UserTime())
	s.SetUserTime(math.Inf(-1))
	assert.Equal(t, 50.0, s.UserTime())
}

func TestLiveFollowCoupling(t *testing.T) {
	s := NewStore(SessionConfig{PreKickoffSeconds: 900, MatchDurationSeconds: 6300})
	s.AdvanceLiveTime(1200) // live at 300s

	// live-follow: user clock rides the live edge
	assert.True(t, s.IsLive())
	assert.Equal(t, s.LiveTime(), s.UserTime())

	// seeking behind live enters replay; live keeps advancing alone
	s.SetUserTime(100)
	assert.False(t, s.IsLive())
	s.AdvanceLiveTime(60)
	assert.Equal(t, 100.0, s.UserTime())
	assert.Equal(t, 360.0, s.LiveTime())
	assert.Equal(t, 260.0, s.TimeBehindLive())

	// returning to live re-glues the clocks
	s.GoToLive()
	assert.True(t, s.IsLive())
	s.AdvanceLiveTime(30)
	assert.Equal(t, 390.0, s.UserTime())
}

func TestSeekingNearLiveEdgeStaysLive(t *testing.T) {
	s := NewStore(SessionConfig{PreKickoffSeconds: 900, MatchDurationSeconds: 6300})
	s.AdvanceLiveTime(1200) // live at 300s

	// within the tolerance window the user is still considered live
	s.SetUserTime(297)
	assert.True(t, s.IsLive())

	s.SetUserTime(290)
	assert.False(t, s.IsLive())
}

func TestAdvanceLiveTimeRejectsRewind(t *testing.T) {
	s := NewStore(DefaultSessionConfig())
	s.AdvanceLiveTime(600)
	before := s.LiveTime()

	s.AdvanceLiveTime(-10)
	assert.Equal(t, before, s.LiveTime())
	s.AdvanceLiveTime(math.NaN())
	assert.Equal(t, before, s.LiveTime())
}

func TestAdvanceLiveTimeClampsToMatchEnd(t *testing.T) {
	s := NewStore(SessionConfig{PreKickoffSeconds: 10, MatchDurationSeconds: 100})

	s.AdvanceLiveTime(1e6)
	assert.Equal(t, 100.0, s.LiveTime())
	assert.True(t, s.AtMatchEnd())

	// end boundary holds under further ticks
	s.AdvanceLiveTime(1)
	assert.Equal(t, 100.0, s.LiveTime())
}

func TestVisibleEventsFollowUserClock(t *testing.T) {
	s := NewStore(SessionConfig{PreKickoffSeconds: 900, MatchDurationSeconds: 6300})
	s.AddEvents([]models.TimelineEvent{
		chatEvent("lobby", -600),
		chatEvent("early", 30),
		goalEvent("goal", 780, models.TeamHome, false),
		chatEvent("late", 3000),
	})

	// pre-kickoff: only the lobby message is visible
	assert.Len(t, s.VisibleEvents(), 1)

	s.AdvanceLiveTime(900 + 800) // live at 800s, user follows
	visible := s.VisibleEvents()
	require.Len(t, visible, 3)
	assert.Equal(t, "lobby", visible[0].ID)
	assert.Equal(t, "goal", visible[2].ID)

	// scrubbing back hides later events again
	s.SetUserTime(100)
	assert.Len(t, s.VisibleEvents(), 2)

	goals := s.VisibleEventsOfType(models.EventTypeMatchGoal)
	assert.Empty(t, goals)
}

func TestCurrentScoreTracksUserPosition(t *testing.T) {
	s := NewStore(SessionConfig{PreKickoffSeconds: 900, MatchDurationSeconds: 6300})
	s.AddEvents([]models.TimelineEvent{
		goalEvent("g1", 600, models.TeamHome, false),
		goalEvent("g2", 1800, models.TeamAway, false),
	})
	s.AdvanceLiveTime(900 + 2000)

	assert.Equal(t, Score{Home: 1, Away: 1}, s.CurrentScore())
	s.SetUserTime(700)
	assert.Equal(t, Score{Home: 1, Away: 0}, s.CurrentScore())
}

func TestMinuteOf(t *testing.T) {
	tests := []struct {
		seconds float64
		want    int
	}{
		{0, 0},
		{59.9, 0},
		{60, 1},
		{2700, 45},
		{-1, -1},
		{-900, -15},
		{-61, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MinuteOf(tt.seconds), "MinuteOf(%v)", tt.seconds)
	}
}

func TestDisplayTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{65, "1:05"},
		{2712, "45:12"},
		{-90, "-1:30"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayTime(tt.seconds), "DisplayTime(%v)", tt.seconds)
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	s := NewStore(DefaultSessionConfig())
	s.AddEvent(goalEvent("g1", 600, models.TeamHome, false))
	s.AddEvent(chatEvent("c1", 30))

	data, err := s.ExportJSON()
	require.NoError(t, err)

	// insertion order, with the type discriminator flattened out
	assert.JSONEq(t, `[
		{"id":"g1","video_timestamp":600,"event_type":"match_goal",
		 "payload":{"player":"P","team":"home","is_own_goal":false,"is_penalty":false}},
		{"id":"c1","video_timestamp":30,"event_type":"chat_message",
		 "payload":{"username":"tester","text":"hei","username_color":"","likes":0}}
	]`, string(data))
}
