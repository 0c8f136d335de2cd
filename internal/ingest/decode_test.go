package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnordli/matchcast/internal/models"
)

func TestDecodeEvent(t *testing.T) {
	data := []byte(`{
		"type": "match_goal",
		"id": "evt-1",
		"video_timestamp": 780,
		"data": {"player": "A. Diallo", "team": "home", "score": "1-0"},
		"metadata": {"source": "feed"}
	}`)

	ev, err := DecodeEvent(data)
	require.NoError(t, err)

	assert.Equal(t, "evt-1", ev.ID)
	assert.Equal(t, 780.0, ev.VideoTimestamp)
	assert.Equal(t, "feed", ev.Metadata["source"])

	goal, ok := ev.Payload.(models.MatchGoal)
	require.True(t, ok)
	assert.Equal(t, "A. Diallo", goal.Player)
	assert.Equal(t, models.TeamHome, goal.Team)
}

func TestDecodeEventShortAliases(t *testing.T) {
	tests := []struct {
		alias string
		data  string
		want  models.EventType
	}{
		{"goal", `{"player":"X","team":"away"}`, models.EventTypeMatchGoal},
		{"card", `{"player":"X","team":"home","card":"yellow"}`, models.EventTypeMatchCard},
		{"chat", `{"username":"u","text":"t"}`, models.EventTypeChatMessage},
		{"product", `{"product_id":"p1","product_name":"Drakt","price":"899","currency":"NOK"}`, models.EventTypeProductHighlight},
		{"contest", `{"title":"Quiz","contest":"quiz"}`, models.EventTypeCastingContest},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(
				`{"type":"` + tt.alias + `","id":"x","video_timestamp":1,"data":` + tt.data + `}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Type())
		})
	}
}

func TestDecodeEventGeneratesMissingID(t *testing.T) {
	a, err := DecodeEvent([]byte(`{"type":"chat","video_timestamp":5,"data":{"username":"u","text":"t"}}`))
	require.NoError(t, err)
	b, err := DecodeEvent([]byte(`{"type":"chat","video_timestamp":5,"data":{"username":"u","text":"t"}}`))
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDecodeEventUnknownType(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"type":"telemetry","id":"x","data":{}}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestDecodeEventMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid envelope", `{not json`},
		{"missing data", `{"type":"poll","id":"x","video_timestamp":1}`},
		{"payload type mismatch", `{"type":"poll","id":"x","data":{"question":12,"options":"nope"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEvent([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeEventEveryCanonicalType(t *testing.T) {
	payloads := map[models.EventType]string{
		models.EventTypeChatMessage:       `{"username":"u","text":"t"}`,
		models.EventTypeMatchGoal:         `{"player":"p","team":"home"}`,
		models.EventTypeMatchCard:         `{"player":"p","team":"away","card":"red"}`,
		models.EventTypeMatchSubstitution: `{"player_in":"a","player_out":"b","team":"home"}`,
		models.EventTypePoll:              `{"question":"q","options":[{"id":"1","text":"x"}]}`,
		models.EventTypeCastingContest:    `{"title":"t","contest":"giveaway"}`,
		models.EventTypeHighlight:         `{"title":"clip"}`,
		models.EventTypeTweet:             `{"author_name":"a","author_handle":"@a","text":"t"}`,
		models.EventTypeAdminComment:      `{"admin_name":"a","comment":"c"}`,
		models.EventTypeProductHighlight:  `{"product_id":"p","product_name":"n","price":"1","currency":"NOK"}`,
	}
	require.Len(t, payloads, len(models.KnownEventTypes))

	for typ, data := range payloads {
		ev, err := DecodeEvent([]byte(
			`{"type":"` + string(typ) + `","id":"x","video_timestamp":1,"data":` + data + `}`))
		require.NoError(t, err, "type %s", typ)
		assert.Equal(t, typ, ev.Type())
	}
}
