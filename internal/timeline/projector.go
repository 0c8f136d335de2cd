package timeline

import (
	"sort"

	"github.com/avnordli/matchcast/internal/models"
)

// VisibleAt computes the visibility projection: the subset of events
// with a timestamp at or before t, in ascending timestamp order.
//
// The input slice must be in insertion order; ties on timestamp keep
// that relative order, so simultaneous scripted events render exactly
// as authored on every call. Scripted data is not guaranteed
// pre-sorted at ingestion, which is why sorting happens here at read
// time rather than at write time.
func VisibleAt(events []models.TimelineEvent, t float64) []models.TimelineEvent {
	visible := make([]models.TimelineEvent, 0, len(events))
	for _, ev := range events {
		if ev.VideoTimestamp <= t {
			visible = append(visible, ev)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].VideoTimestamp < visible[j].VideoTimestamp
	})
	return visible
}

// FilterType narrows a projection to events of one type, preserving
// order. An empty input yields an empty (non-nil) slice.
func FilterType(events []models.TimelineEvent, typ models.EventType) []models.TimelineEvent {
	out := make([]models.TimelineEvent, 0, len(events))
	for _, ev := range events {
		if ev.Type() == typ {
			out = append(out, ev)
		}
	}
	return out
}

// SortedByTimestamp returns a chronologically ordered copy of events,
// ties broken by input order. Used by navigation, which scans the
// whole log rather than the visible subset.
func SortedByTimestamp(events []models.TimelineEvent) []models.TimelineEvent {
	out := make([]models.TimelineEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].VideoTimestamp < out[j].VideoTimestamp
	})
	return out
}
