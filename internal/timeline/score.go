package timeline

import "github.com/avnordli/matchcast/internal/models"

// Score is the running match score derived from visible goal events
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// DeriveScore tallies goals from a visibility projection. An own goal
// is credited to the opposing team: a goal event carries the side of
// the player who scored, and putting the ball in your own net scores
// for the opponent.
func DeriveScore(visible []models.TimelineEvent) Score {
	var score Score
	for _, ev := range visible {
		goal, ok := ev.Payload.(models.MatchGoal)
		if !ok {
			continue
		}
		credited := goal.Team
		if goal.IsOwnGoal {
			credited = goal.Team.Opponent()
		}
		switch credited {
		case models.TeamHome:
			score.Home++
		case models.TeamAway:
			score.Away++
		}
	}
	return score
}

// CurrentScore derives the score at the store's user position
func (s *Store) CurrentScore() Score {
	return DeriveScore(s.VisibleEvents())
}
