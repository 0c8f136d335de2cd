package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avnordli/matchcast/internal/models"
)

func TestDeriveScoreCreditsOwnGoalToOpponent(t *testing.T) {
	events := []models.TimelineEvent{
		goalEvent("g1", 10, models.TeamHome, false),
		goalEvent("g2", 20, models.TeamAway, false),
		goalEvent("g3", 30, models.TeamHome, true), // home own goal, counts for away
	}

	assert.Equal(t, Score{Home: 1, Away: 1}, DeriveScore(VisibleAt(events, 25)))
	assert.Equal(t, Score{Home: 1, Away: 2}, DeriveScore(VisibleAt(events, 35)))
}

func TestDeriveScoreIgnoresNonGoalEvents(t *testing.T) {
	events := []models.TimelineEvent{
		chatEvent("c1", 5),
		{ID: "card", VideoTimestamp: 8, Payload: models.MatchCard{Player: "X", Team: models.TeamHome, Card: models.CardYellow}},
		goalEvent("g1", 10, models.TeamAway, false),
	}

	assert.Equal(t, Score{Home: 0, Away: 1}, DeriveScore(VisibleAt(events, 100)))
}

func TestDeriveScoreEmpty(t *testing.T) {
	assert.Equal(t, Score{}, DeriveScore(nil))
}

func TestDeriveScorePenaltyCountsNormally(t *testing.T) {
	events := []models.TimelineEvent{
		{ID: "pen", VideoTimestamp: 40, Payload: models.MatchGoal{
			Player: "P", Team: models.TeamAway, IsPenalty: true,
		}},
	}

	assert.Equal(t, Score{Home: 0, Away: 1}, DeriveScore(VisibleAt(events, 50)))
}
