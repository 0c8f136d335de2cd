package timeline

import (
	"fmt"
	"math"
	"sync"

	"github.com/avnordli/matchcast/internal/models"
	"github.com/rs/zerolog/log"
)

// liveToleranceSeconds is how close user time must be to live time to
// still count as watching live.
const liveToleranceSeconds = 5.0

// SessionConfig bounds a single match session
type SessionConfig struct {
	// PreKickoffSeconds is the lobby period before kickoff; both
	// clocks start at -PreKickoffSeconds.
	PreKickoffSeconds float64
	// MatchDurationSeconds is the end boundary for live time,
	// including added time.
	MatchDurationSeconds float64
}

// DefaultSessionConfig mirrors the demo broadcast: 15 minute pre-show,
// 105 minutes of match including the half-time break.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		PreKickoffSeconds:    900,
		MatchDurationSeconds: 6300,
	}
}

// Store is the authoritative event log and dual-clock state for one
// match session. All mutation serializes through its lock, so event
// producers and the playback coordinator can call in from their own
// goroutines without further coordination.
//
// The log is append-only: events are never mutated or removed until
// the session is torn down and the store discarded.
type Store struct {
	mu     sync.Mutex
	cfg    SessionConfig
	events []models.TimelineEvent // insertion order
	ids    map[string]struct{}

	liveTime   float64
	userTime   float64
	liveFollow bool
}

// NewStore creates a session store with both clocks parked at the
// start of the pre-kickoff period, in live-follow mode.
func NewStore(cfg SessionConfig) *Store {
	start := -cfg.PreKickoffSeconds
	return &Store{
		cfg:        cfg,
		ids:        make(map[string]struct{}),
		liveTime:   start,
		userTime:   start,
		liveFollow: true,
	}
}

// AddEvent appends one event to the log. Duplicate ids and non-finite
// timestamps are rejected with a diagnostic; neither is fatal because
// the timeline must keep rendering whatever valid state it has.
// Returns true if the event was ingested.
func (s *Store) AddEvent(ev models.TimelineEvent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ev)
}

// AddEvents is the batch form of AddEvent, used to pre-load scripted
// timelines in one call. It holds the lock across the whole batch so
// no projection observes a half-applied script.
func (s *Store) AddEvents(evs []models.TimelineEvent) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	added := 0
	for _, ev := range evs {
		if s.addLocked(ev) {
			added++
		}
	}
	return added
}

func (s *Store) addLocked(ev models.TimelineEvent) bool {
	if ev.ID == "" {
		log.Warn().Str("type", string(ev.Type())).Msg("dropping event with empty id")
		return false
	}
	if math.IsNaN(ev.VideoTimestamp) || math.IsInf(ev.VideoTimestamp, 0) {
		log.Warn().Str("event_id", ev.ID).Msg("dropping event with non-finite timestamp")
		return false
	}
	if ev.Payload == nil {
		log.Warn().Str("event_id", ev.ID).Msg("dropping event with no payload")
		return false
	}
	if _, dup := s.ids[ev.ID]; dup {
		log.Debug().Str("event_id", ev.ID).Msg("dropping duplicate event")
		return false
	}
	s.ids[ev.ID] = struct{}{}
	s.events = append(s.events, ev)
	return true
}

// AllEvents returns a copy of the full log in insertion order.
// Consumers wanting chronological order should use VisibleEvents.
func (s *Store) AllEvents() []models.TimelineEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.TimelineEvent, len(s.events))
	copy(out, s.events)
	return out
}

// EventCount returns the number of ingested events
func (s *Store) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// VisibleEvents projects the events at or before the current user
// time, in chronological order.
func (s *Store) VisibleEvents() []models.TimelineEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return VisibleAt(s.events, s.userTime)
}

// VisibleEventsOfType is VisibleEvents narrowed to one event type
func (s *Store) VisibleEventsOfType(typ models.EventType) []models.TimelineEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterType(VisibleAt(s.events, s.userTime), typ)
}

// SetUserTime seeks the user clock. The value is clamped to the
// session bounds: never before the pre-kickoff start, never past live.
// Seeking strictly behind live leaves live-follow mode; seeking back
// onto (or within tolerance of) the live edge re-enters it.
func (s *Store) SetUserTime(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if math.IsNaN(t) || math.IsInf(t, 0) {
		log.Warn().Float64("t", t).Msg("ignoring non-finite user time")
		return
	}
	clamped := math.Max(-s.cfg.PreKickoffSeconds, math.Min(t, s.liveTime))
	s.userTime = clamped
	s.liveFollow = clamped >= s.liveTime-liveToleranceSeconds
}

// AdvanceLiveTime moves the live clock forward by delta seconds.
// Only the playback coordinator calls this. Negative deltas violate
// the monotonic live clock and are rejected. In live-follow mode the
// user clock stays glued to live.
func (s *Store) AdvanceLiveTime(delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		log.Warn().Float64("delta", delta).Msg("rejecting live clock rewind")
		return
	}
	s.liveTime = math.Min(s.liveTime+delta, s.cfg.MatchDurationSeconds)
	if s.liveFollow {
		s.userTime = s.liveTime
	}
}

// GoToLive snaps the user clock to the live edge and re-enters
// live-follow mode.
func (s *Store) GoToLive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userTime = s.liveTime
	s.liveFollow = true
}

// LiveTime returns the live playback position in seconds
func (s *Store) LiveTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveTime
}

// UserTime returns the user playback position in seconds
func (s *Store) UserTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userTime
}

// IsLive reports whether the user is watching at (or within tolerance
// of) the live edge.
func (s *Store) IsLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveFollow || s.userTime >= s.liveTime-liveToleranceSeconds
}

// TimeBehindLive is how far the user clock trails the live clock
func (s *Store) TimeBehindLive() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return math.Max(0, s.liveTime-s.userTime)
}

// CurrentMinute is the match minute at the user position
func (s *Store) CurrentMinute() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MinuteOf(s.userTime)
}

// LiveMinute is the match minute at the live edge
func (s *Store) LiveMinute() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return MinuteOf(s.liveTime)
}

// AtMatchEnd reports whether live time has reached the session's end
// boundary.
func (s *Store) AtMatchEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveTime >= s.cfg.MatchDurationSeconds
}

// Config returns the session bounds
func (s *Store) Config() SessionConfig {
	return s.cfg
}

// MinuteOf converts a video timestamp to its match minute, rounding
// toward negative infinity so pre-kickoff times land in negative
// minutes.
func MinuteOf(seconds float64) int {
	return int(math.Floor(seconds / 60))
}

// DisplayTime formats a video timestamp as m:ss for overlays
func DisplayTime(seconds float64) string {
	neg := seconds < 0
	if neg {
		seconds = -seconds
	}
	m := int(seconds) / 60
	sec := int(seconds) % 60
	if neg {
		return fmt.Sprintf("-%d:%02d", m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}
