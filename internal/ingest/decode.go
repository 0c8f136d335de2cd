package ingest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avnordli/matchcast/internal/models"
)

// ErrUnknownType marks a message whose discriminator we do not
// handle. Callers log and drop; ingestion never crashes on it.
var ErrUnknownType = errors.New("unknown event type")

// wireEvent is the JSON envelope pushed by the event streamer
type wireEvent struct {
	Type           string            `json:"type"`
	ID             string            `json:"id"`
	VideoTimestamp float64           `json:"video_timestamp"`
	Data           json.RawMessage   `json:"data"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// typeAliases maps the streamer's short discriminators onto canonical
// event types.
var typeAliases = map[string]models.EventType{
	"product": models.EventTypeProductHighlight,
	"contest": models.EventTypeCastingContest,
	"chat":    models.EventTypeChatMessage,
	"goal":    models.EventTypeMatchGoal,
	"card":    models.EventTypeMatchCard,
}

func resolveType(raw string) (models.EventType, bool) {
	if typ, ok := typeAliases[raw]; ok {
		return typ, true
	}
	typ := models.EventType(raw)
	for _, known := range models.KnownEventTypes {
		if typ == known {
			return typ, true
		}
	}
	return "", false
}

// DecodeEvent parses one wire message into a timeline event. Messages
// without an id get a generated one, since the streamer's demo feed
// does not always carry ids.
func DecodeEvent(data []byte) (models.TimelineEvent, error) {
	var wire wireEvent
	if err := json.Unmarshal(data, &wire); err != nil {
		return models.TimelineEvent{}, fmt.Errorf("unmarshal event envelope: %w", err)
	}

	typ, ok := resolveType(wire.Type)
	if !ok {
		return models.TimelineEvent{}, fmt.Errorf("%w: %q", ErrUnknownType, wire.Type)
	}

	payload, err := decodePayload(typ, wire.Data)
	if err != nil {
		return models.TimelineEvent{}, fmt.Errorf("decode %s payload: %w", typ, err)
	}

	id := wire.ID
	if id == "" {
		id = uuid.NewString()
	}

	return models.TimelineEvent{
		ID:             id,
		VideoTimestamp: wire.VideoTimestamp,
		Payload:        payload,
		Metadata:       wire.Metadata,
	}, nil
}

func decodePayload(typ models.EventType, data json.RawMessage) (models.Payload, error) {
	if len(data) == 0 {
		return nil, errors.New("missing data")
	}
	switch typ {
	case models.EventTypeChatMessage:
		return unmarshalPayload[models.ChatMessage](data)
	case models.EventTypeMatchGoal:
		return unmarshalPayload[models.MatchGoal](data)
	case models.EventTypeMatchCard:
		return unmarshalPayload[models.MatchCard](data)
	case models.EventTypeMatchSubstitution:
		return unmarshalPayload[models.MatchSubstitution](data)
	case models.EventTypePoll:
		return unmarshalPayload[models.Poll](data)
	case models.EventTypeCastingContest:
		return unmarshalPayload[models.CastingContest](data)
	case models.EventTypeHighlight:
		return unmarshalPayload[models.Highlight](data)
	case models.EventTypeTweet:
		return unmarshalPayload[models.Tweet](data)
	case models.EventTypeAdminComment:
		return unmarshalPayload[models.AdminComment](data)
	case models.EventTypeProductHighlight:
		return unmarshalPayload[models.ProductHighlight](data)
	default:
		return nil, ErrUnknownType
	}
}

func unmarshalPayload[T models.Payload](data json.RawMessage) (models.Payload, error) {
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}
