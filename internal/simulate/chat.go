package simulate

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/avnordli/matchcast/internal/models"
)

// Timeline is the producer-facing surface of the session store:
// write-only event ingestion plus the current playback clocks for
// realistic timestamping. Producers never read visibility state back,
// keeping the data flow one-directional.
type Timeline interface {
	AddEvent(ev models.TimelineEvent) bool
	AddEvents(evs []models.TimelineEvent) int
	UserTime() float64
	LiveTime() float64
}

// Clock is the timer source for producers. Real clock in production,
// fake in tests.
type Clock interface {
	NewTimer(d time.Duration) clockwork.Timer
}

// ChatConfig tunes the simulated chat cadence
type ChatConfig struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	Seed        int64
}

// DefaultChatConfig matches the demo chat feed: a message every 3-6s
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		MinInterval: 3 * time.Second,
		MaxInterval: 6 * time.Second,
	}
}

var chatUsers = []struct {
	Name  string
	Color string
}{
	{"SportsFan23", "#22D3EE"},
	{"GoalKeeper", "#4ADE80"},
	{"MatchMaster", "#FB923C"},
	{"TeamCaptain", "#F87171"},
	{"FutbolLoco", "#FACC15"},
	{"DefenderPro", "#60A5FA"},
	{"StrikerKing", "#F472B6"},
	{"CoachView", "#818CF8"},
	{"TacticsGuru", "#2DD4BF"},
	{"UltrasGroup", "#EF4444"},
}

var chatLines = []string{
	"Hvilket mål! 🔥",
	"For en redning!",
	"UTROLIG SPILL!!!",
	"Forsvaret sover...",
	"Dommeren er forferdelig",
	"KOM IGJEN! 💪",
	"Nydelig pasning",
	"Det burde vært straffe",
	"Keeperen er på et annet nivå",
	"SKYT!",
	"Perfekt posisjonering",
	"Vi trenger mål nå",
	"Nesten! Så nært!",
	"Beste kampen denne sesongen",
	"Det var offside!",
	"Publikum er tent 🔥",
	"NÅ SKJER DET!",
}

// ChatSimulator emits synthetic chat messages at random intervals,
// timestamped at the user's current playback position so replayed
// sessions accumulate chat where the viewer actually is.
type ChatSimulator struct {
	tl    Timeline
	clock Clock
	cfg   ChatConfig
	rng   *rand.Rand
}

// NewChatSimulator creates a chat producer for the given session
func NewChatSimulator(tl Timeline, clock Clock, cfg ChatConfig) *ChatSimulator {
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = DefaultChatConfig().MinInterval
	}
	if cfg.MaxInterval < cfg.MinInterval {
		cfg.MaxInterval = cfg.MinInterval
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ChatSimulator{
		tl:    tl,
		clock: clock,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Run emits messages until the context is cancelled
func (c *ChatSimulator) Run(ctx context.Context) error {
	log.Info().
		Dur("min_interval", c.cfg.MinInterval).
		Dur("max_interval", c.cfg.MaxInterval).
		Msg("chat simulator started")

	for {
		timer := c.clock.NewTimer(c.nextInterval())
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Msg("chat simulator stopped")
			return nil
		case <-timer.Chan():
			c.emit()
		}
	}
}

func (c *ChatSimulator) nextInterval() time.Duration {
	span := c.cfg.MaxInterval - c.cfg.MinInterval
	if span <= 0 {
		return c.cfg.MinInterval
	}
	return c.cfg.MinInterval + time.Duration(c.rng.Int63n(int64(span)))
}

func (c *ChatSimulator) emit() {
	user := chatUsers[c.rng.Intn(len(chatUsers))]
	line := chatLines[c.rng.Intn(len(chatLines))]

	c.tl.AddEvent(models.TimelineEvent{
		ID:             uuid.NewString(),
		VideoTimestamp: c.tl.UserTime(),
		Payload: models.ChatMessage{
			Username:      user.Name,
			Text:          line,
			UsernameColor: user.Color,
			Likes:         c.rng.Intn(13),
		},
	})
}
