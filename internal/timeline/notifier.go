package timeline

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// StateChange is a snapshot published to consumers whenever the
// playback position, score, or liveness changes in a way worth
// re-rendering for. Consumers pull the event projection themselves;
// the snapshot only carries the cheap derived state.
type StateChange struct {
	Minute        int     `json:"minute"`
	LiveMinute    int     `json:"live_minute"`
	UserTime      float64 `json:"user_time"`
	LiveTime      float64 `json:"live_time"`
	IsLive        bool    `json:"is_live"`
	Score         Score   `json:"score"`
	VisibleEvents int     `json:"visible_events"`
	MatchEnded    bool    `json:"match_ended"`
}

// Notifier fans state-change snapshots out to subscribers. It replaces
// the reactive-UI publish/subscribe of the demo apps with an explicit
// subscription surface; any UI binding is an adapter on top.
type Notifier struct {
	mu   sync.Mutex
	subs map[chan StateChange]struct{}
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[chan StateChange]struct{})}
}

// Subscribe registers a consumer. The returned cancel func must be
// called on teardown; after it returns the channel is closed.
func (n *Notifier) Subscribe() (<-chan StateChange, func()) {
	ch := make(chan StateChange, 16)
	n.mu.Lock()
	n.subs[ch] = struct{}{}
	n.mu.Unlock()

	cancel := func() {
		n.mu.Lock()
		if _, ok := n.subs[ch]; ok {
			delete(n.subs, ch)
			close(ch)
		}
		n.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber. Slow subscribers
// lose intermediate snapshots rather than blocking the playback tick;
// only the latest state matters for rendering.
func (n *Notifier) Publish(change StateChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- change:
		default:
			log.Debug().Int("minute", change.Minute).Msg("subscriber full, dropping state change")
		}
	}
}

// Close closes all subscriber channels
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs {
		delete(n.subs, ch)
		close(ch)
	}
}
