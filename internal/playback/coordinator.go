package playback

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/avnordli/matchcast/internal/models"
	"github.com/avnordli/matchcast/internal/timeline"
)

// Clock is the tick source abstraction. Production wiring passes
// clockwork.NewRealClock(); tests drive a FakeClock.
type Clock interface {
	NewTicker(d time.Duration) clockwork.Ticker
}

// Config tunes the simulated passage of live time
type Config struct {
	// TickInterval is the wall-clock cadence of the coordinator
	TickInterval time.Duration
	// SecondsPerTick is how much match time one tick represents
	SecondsPerTick float64
	// LeadInSeconds is how far before a navigated-to event the user
	// clock lands, so consumers see the build-up.
	LeadInSeconds float64
}

// DefaultConfig runs match time at 10x: a 100ms tick advances the
// live clock by one second.
func DefaultConfig() Config {
	return Config{
		TickInterval:   100 * time.Millisecond,
		SecondsPerTick: 1,
		LeadInSeconds:  2,
	}
}

// Coordinator drives the live clock forward and keeps derived state
// (score, current minute) in sync with clock changes. It owns the
// live clock: nothing else advances it. Two modes fall out of the
// store's clock state: live-follow, where the user clock rides the
// live edge, and replay, where the user clock is pinned in the past
// while live keeps progressing underneath.
type Coordinator struct {
	store    *timeline.Store
	clock    Clock
	cfg      Config
	notifier *timeline.Notifier

	mu    sync.Mutex
	score timeline.Score
}

// NewCoordinator wires a coordinator to its session store. The store
// is injected rather than reached through any shared global.
func NewCoordinator(store *timeline.Store, clock Clock, cfg Config) *Coordinator {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.SecondsPerTick <= 0 {
		cfg.SecondsPerTick = DefaultConfig().SecondsPerTick
	}
	return &Coordinator{
		store:    store,
		clock:    clock,
		cfg:      cfg,
		notifier: timeline.NewNotifier(),
	}
}

// Subscribe registers a consumer for state-change snapshots
func (c *Coordinator) Subscribe() (<-chan timeline.StateChange, func()) {
	return c.notifier.Subscribe()
}

// Run ticks the live clock until the match-end boundary or context
// cancellation. Recomputation and notification are gated on live
// minute boundaries to avoid redundant work on sub-second ticks.
func (c *Coordinator) Run(ctx context.Context) error {
	log.Info().
		Dur("tick_interval", c.cfg.TickInterval).
		Float64("seconds_per_tick", c.cfg.SecondsPerTick).
		Msg("playback coordinator started")

	ticker := c.clock.NewTicker(c.cfg.TickInterval)
	defer ticker.Stop()
	defer c.notifier.Close()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("playback coordinator stopped")
			return nil
		case <-ticker.Chan():
			if done := c.tick(); done {
				log.Info().
					Int("final_minute", c.store.LiveMinute()).
					Msg("match end reached, playback coordinator stopping")
				return nil
			}
		}
	}
}

// tick advances live time one step and reports whether the session
// reached its end boundary.
func (c *Coordinator) tick() bool {
	prevMinute := c.store.LiveMinute()
	c.store.AdvanceLiveTime(c.cfg.SecondsPerTick)

	if c.store.LiveMinute() != prevMinute || c.store.AtMatchEnd() {
		c.refresh()
	}
	return c.store.AtMatchEnd()
}

// refresh recomputes the projection-derived state and notifies
// consumers.
func (c *Coordinator) refresh() {
	visible := c.store.VisibleEvents()
	score := timeline.DeriveScore(visible)

	c.mu.Lock()
	c.score = score
	c.mu.Unlock()

	c.notifier.Publish(timeline.StateChange{
		Minute:        c.store.CurrentMinute(),
		LiveMinute:    c.store.LiveMinute(),
		UserTime:      c.store.UserTime(),
		LiveTime:      c.store.LiveTime(),
		IsLive:        c.store.IsLive(),
		Score:         score,
		VisibleEvents: len(visible),
		MatchEnded:    c.store.AtMatchEnd(),
	})
}

// Score returns the last derived running score
func (c *Coordinator) Score() timeline.Score {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.score
}

// JumpToTimestamp seeks the user clock to t. Seeking behind the live
// edge enters replay mode; the live clock is untouched and keeps
// advancing in the background.
func (c *Coordinator) JumpToTimestamp(t float64) {
	c.store.SetUserTime(t)
	c.refresh()
	log.Debug().
		Float64("timestamp", t).
		Bool("is_live", c.store.IsLive()).
		Msg("seeked to timestamp")
}

// JumpToMinute seeks to the start of a match minute
func (c *Coordinator) JumpToMinute(minute int) {
	c.JumpToTimestamp(float64(minute) * 60)
}

// GoToLive snaps back to the live edge and re-enters live-follow
func (c *Coordinator) GoToLive() {
	c.store.GoToLive()
	c.refresh()
	log.Debug().Float64("live_time", c.store.LiveTime()).Msg("returned to live")
}

// JumpToNextEventOfType seeks just before the first event of the
// given type strictly after the current user time, wrapping to the
// earliest such event when none lies ahead. With no events of the
// type at all it degrades to a no-op and reports false.
func (c *Coordinator) JumpToNextEventOfType(typ models.EventType) bool {
	events := timeline.SortedByTimestamp(timeline.FilterType(c.store.AllEvents(), typ))
	if len(events) == 0 {
		log.Debug().Str("type", string(typ)).Msg("no events of type to navigate to")
		return false
	}

	target := events[0] // wraparound default
	user := c.store.UserTime()
	for _, ev := range events {
		if ev.VideoTimestamp > user {
			target = ev
			break
		}
	}
	c.seekToEvent(target)
	return true
}

// JumpToPreviousEventOfType is the backward counterpart: the last
// event of the type strictly before the current user time, wrapping
// to the latest one when none lies behind.
func (c *Coordinator) JumpToPreviousEventOfType(typ models.EventType) bool {
	events := timeline.SortedByTimestamp(timeline.FilterType(c.store.AllEvents(), typ))
	if len(events) == 0 {
		log.Debug().Str("type", string(typ)).Msg("no events of type to navigate to")
		return false
	}

	target := events[len(events)-1] // wraparound default
	user := c.store.UserTime()
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].VideoTimestamp < user {
			target = events[i]
			break
		}
	}
	c.seekToEvent(target)
	return true
}

func (c *Coordinator) seekToEvent(ev models.TimelineEvent) {
	seek := ev.VideoTimestamp - c.cfg.LeadInSeconds
	seek = math.Max(seek, -c.store.Config().PreKickoffSeconds)
	log.Debug().
		Str("event_id", ev.ID).
		Str("type", string(ev.Type())).
		Float64("seek", seek).
		Msg("navigating to event")
	c.JumpToTimestamp(seek)
}
