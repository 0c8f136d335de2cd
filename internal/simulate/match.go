package simulate

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avnordli/matchcast/internal/models"
)

// MatchSimulator stands in for a real match-event push feed. It can
// pre-load a complete scripted timeline in one batch at session start
// (the store's read-time sort keeps that mergeable with anything the
// chat simulator or a live feed appends later), or drip events into
// the store as the live clock passes their timestamps.
type MatchSimulator struct {
	tl     Timeline
	clock  Clock
	script []models.TimelineEvent
}

// NewMatchSimulator creates a match producer from a scripted timeline
func NewMatchSimulator(tl Timeline, clock Clock, script []models.TimelineEvent) *MatchSimulator {
	return &MatchSimulator{tl: tl, clock: clock, script: script}
}

// Preload ingests the whole script in one batch call and returns the
// number of events accepted.
func (m *MatchSimulator) Preload() int {
	added := m.tl.AddEvents(m.script)
	log.Info().
		Int("scripted", len(m.script)).
		Int("added", added).
		Msg("scripted timeline preloaded")
	return added
}

// Run drips scripted events into the store as the live clock reaches
// them, simulating a server push feed. Events whose timestamp is
// already behind live are emitted immediately on the first pass.
func (m *MatchSimulator) Run(ctx context.Context) error {
	log.Info().Int("scripted", len(m.script)).Msg("match simulator started")

	pending := make([]models.TimelineEvent, len(m.script))
	copy(pending, m.script)

	for {
		remaining := pending[:0]
		live := m.tl.LiveTime()
		for _, ev := range pending {
			if ev.VideoTimestamp <= live {
				m.tl.AddEvent(ev)
			} else {
				remaining = append(remaining, ev)
			}
		}
		pending = remaining
		if len(pending) == 0 {
			log.Info().Msg("match simulator script exhausted")
			return nil
		}

		timer := m.clock.NewTimer(time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info().Int("unplayed", len(pending)).Msg("match simulator stopped")
			return nil
		case <-timer.Chan():
		}
	}
}

// DefaultScript is the built-in demo match: a 3-1 home win with
// cards, substitutions, interactive polls and contests, plus a
// pre-kickoff lobby with chat and a product spot.
func DefaultScript() []models.TimelineEvent {
	script := Script{
		Name: "demo-match",
		Events: []ScriptEvent{
			{Minute: -12, Type: "chat_message", Chat: &models.ChatMessage{
				Username: "FanZone", Text: "Snart avspark! 🏟️", UsernameColor: "#FB923C",
			}},
			{Minute: -10, Type: "admin_comment", Comment: &models.AdminComment{
				AdminName: "Studio", Comment: "Velkommen til kveldens kamp. Lagoppstillingene er klare.", IsPinned: true,
			}},
			{Minute: -8, Type: "product_highlight", Product: &models.ProductHighlight{
				ProductID: "kit-2026-home", ProductName: "Hjemmedrakt 2026", Price: "899", Currency: "NOK",
			}},
			{Minute: -5, Type: "poll", Poll: &models.Poll{
				Question: "Hvem vinner kveldens kamp?",
				Options: []models.PollOption{
					{ID: "home", Text: "Hjemmelaget"},
					{ID: "draw", Text: "Uavgjort"},
					{ID: "away", Text: "Bortelaget"},
				},
			}},
			{Minute: 0, Type: "admin_comment", Comment: &models.AdminComment{
				AdminName: "Studio", Comment: "Kampen er i gang!",
			}},
			{Minute: 5, Type: "match_substitution", Substitution: &models.MatchSubstitution{
				PlayerIn: "A. Scott", PlayerOut: "T. Adams", Team: models.TeamAway,
			}},
			{Minute: 13, Type: "match_goal", Goal: &models.MatchGoal{
				Player: "A. Diallo", Team: models.TeamHome, Score: "1-0",
			}},
			{Minute: 13.5, Type: "highlight", Highlight: &models.Highlight{
				Title: "Mål! 1-0", Kind: "goal",
			}},
			{Minute: 18, Type: "match_card", Card: &models.MatchCard{
				Player: "Casemiro", Team: models.TeamHome, Card: models.CardYellow,
			}},
			{Minute: 22, Type: "casting_contest", Contest: &models.CastingContest{
				Title: "Kveldens quiz", Description: "Hvem scoret flest mål forrige sesong?",
				Prize: "Signert drakt", Contest: models.ContestQuiz,
			}},
			{Minute: 25, Type: "match_card", Card: &models.MatchCard{
				Player: "M. Tavernier", Team: models.TeamAway, Card: models.CardYellow,
			}},
			{Minute: 32, Type: "match_goal", Goal: &models.MatchGoal{
				Player: "B. Mbeumo", Team: models.TeamHome, Score: "2-0",
			}},
			{Minute: 38, Type: "tweet", Tweet: &models.Tweet{
				AuthorName: "Kampklokka", AuthorHandle: "@kampklokka",
				Text: "To kjappe mål før pause — hjemmelaget styrer dette.", IsVerified: true, Likes: 412, Retweets: 58,
			}},
			{Minute: 45, Type: "admin_comment", Comment: &models.AdminComment{
				AdminName: "Studio", Comment: "Pause. 2-0 etter en dominant omgang.",
			}},
			{Minute: 48, Type: "poll", Poll: &models.Poll{
				Question: "Hvem blir banens beste?",
				Options: []models.PollOption{
					{ID: "diallo", Text: "A. Diallo"},
					{ID: "mbeumo", Text: "B. Mbeumo"},
					{ID: "kluivert", Text: "J. Kluivert"},
				},
			}},
			{Minute: 62, Type: "match_goal", Goal: &models.MatchGoal{
				Player: "J. Kluivert", Team: models.TeamAway, Score: "2-1",
			}},
			{Minute: 73, Type: "match_substitution", Substitution: &models.MatchSubstitution{
				PlayerIn: "Bruno Fernandes", PlayerOut: "A. Diallo", Team: models.TeamHome,
			}},
			{Minute: 80, Type: "match_card", Card: &models.MatchCard{
				Player: "Álex Jiménez", Team: models.TeamAway, Card: models.CardYellow,
			}},
			{Minute: 87, Type: "match_goal", Goal: &models.MatchGoal{
				Player: "Matheus Cunha", Team: models.TeamHome, Score: "3-1",
			}},
			{Minute: 87.5, Type: "highlight", Highlight: &models.Highlight{
				Title: "Mål! 3-1", Kind: "goal",
			}},
			{Minute: 93, Type: "match_card", Card: &models.MatchCard{
				Player: "T. Adams", Team: models.TeamAway, Card: models.CardRed,
			}},
			{Minute: 100, Type: "admin_comment", Comment: &models.AdminComment{
				AdminName: "Studio", Comment: "Full tid. 3-1 til hjemmelaget.",
			}},
		},
	}
	return script.Build()
}
