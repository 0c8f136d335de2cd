package simulate

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/avnordli/matchcast/internal/models"
)

// Script is a pre-authored match timeline, loadable from YAML and
// mergeable with live-simulated events. Read-time sorting in the
// store means a script does not have to be chronologically ordered.
type Script struct {
	Name   string        `yaml:"name"`
	Events []ScriptEvent `yaml:"events"`
}

// ScriptEvent is one authored entry. Minute positions the event in
// match minutes (fractional and negative allowed); OffsetSeconds, if
// set, takes precedence for second-accurate placement. Exactly one
// payload section matching Type must be present.
type ScriptEvent struct {
	ID            string   `yaml:"id"`
	Minute        float64  `yaml:"minute"`
	OffsetSeconds *float64 `yaml:"offset_seconds,omitempty"`
	Type          string   `yaml:"type"`

	Goal         *models.MatchGoal         `yaml:"goal,omitempty"`
	Card         *models.MatchCard         `yaml:"card,omitempty"`
	Substitution *models.MatchSubstitution `yaml:"substitution,omitempty"`
	Poll         *models.Poll              `yaml:"poll,omitempty"`
	Contest      *models.CastingContest    `yaml:"contest,omitempty"`
	Chat         *models.ChatMessage       `yaml:"chat,omitempty"`
	Highlight    *models.Highlight         `yaml:"highlight,omitempty"`
	Tweet        *models.Tweet             `yaml:"tweet,omitempty"`
	Comment      *models.AdminComment      `yaml:"comment,omitempty"`
	Product      *models.ProductHighlight  `yaml:"product,omitempty"`

	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// LoadScript reads and converts a YAML script file
func LoadScript(path string) ([]models.TimelineEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script file: %w", err)
	}
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script file: %w", err)
	}
	return script.Build(), nil
}

// Build converts the script to timeline events. Malformed entries
// (unknown type, missing payload section) are logged and skipped so a
// typo in authored data never takes down the session.
func (s *Script) Build() []models.TimelineEvent {
	events := make([]models.TimelineEvent, 0, len(s.Events))
	for i, se := range s.Events {
		payload := se.payload()
		if payload == nil {
			log.Warn().
				Int("index", i).
				Str("type", se.Type).
				Str("script", s.Name).
				Msg("skipping script entry with unknown type or missing payload")
			continue
		}
		id := se.ID
		if id == "" {
			id = fmt.Sprintf("%s-script-%d", s.Name, i)
		}
		ts := se.Minute * 60
		if se.OffsetSeconds != nil {
			ts = *se.OffsetSeconds
		}
		events = append(events, models.TimelineEvent{
			ID:             id,
			VideoTimestamp: ts,
			Payload:        payload,
			Metadata:       se.Metadata,
		})
	}
	return events
}

func (se *ScriptEvent) payload() models.Payload {
	switch models.EventType(se.Type) {
	case models.EventTypeMatchGoal:
		if se.Goal != nil {
			return *se.Goal
		}
	case models.EventTypeMatchCard:
		if se.Card != nil {
			return *se.Card
		}
	case models.EventTypeMatchSubstitution:
		if se.Substitution != nil {
			return *se.Substitution
		}
	case models.EventTypePoll:
		if se.Poll != nil {
			return *se.Poll
		}
	case models.EventTypeCastingContest:
		if se.Contest != nil {
			return *se.Contest
		}
	case models.EventTypeChatMessage:
		if se.Chat != nil {
			return *se.Chat
		}
	case models.EventTypeHighlight:
		if se.Highlight != nil {
			return *se.Highlight
		}
	case models.EventTypeTweet:
		if se.Tweet != nil {
			return *se.Tweet
		}
	case models.EventTypeAdminComment:
		if se.Comment != nil {
			return *se.Comment
		}
	case models.EventTypeProductHighlight:
		if se.Product != nil {
			return *se.Product
		}
	}
	return nil
}
