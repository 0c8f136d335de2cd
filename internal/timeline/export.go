package timeline

import (
	"encoding/json"
	"fmt"

	"github.com/avnordli/matchcast/internal/models"
)

// ExportedEvent is the flat backend-sync shape of a timeline event
type ExportedEvent struct {
	ID             string            `json:"id"`
	VideoTimestamp float64           `json:"video_timestamp"`
	EventType      models.EventType  `json:"event_type"`
	Payload        models.Payload    `json:"payload"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// ExportJSON serializes the full event log for backend sync, in
// insertion order.
func (s *Store) ExportJSON() ([]byte, error) {
	events := s.AllEvents()
	out := make([]ExportedEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, ExportedEvent{
			ID:             ev.ID,
			VideoTimestamp: ev.VideoTimestamp,
			EventType:      ev.Type(),
			Payload:        ev.Payload,
			Metadata:       ev.Metadata,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal timeline export: %w", err)
	}
	return data, nil
}
