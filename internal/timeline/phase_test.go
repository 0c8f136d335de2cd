package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseAt(t *testing.T) {
	tests := []struct {
		seconds float64
		want    Phase
	}{
		{-900, PhasePreMatch},
		{-0.1, PhasePreMatch},
		{0, PhaseFirstHalf},
		{2699, PhaseFirstHalf},
		{2700, PhaseHalfTime},
		{3599, PhaseHalfTime},
		{3600, PhaseSecondHalf},
		{6299, PhaseSecondHalf},
		{6300, PhasePostMatch},
		{9000, PhasePostMatch},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PhaseAt(tt.seconds), "PhaseAt(%v)", tt.seconds)
	}
}

func TestCurrentPhaseFollowsUserClock(t *testing.T) {
	s := NewStore(SessionConfig{PreKickoffSeconds: 900, MatchDurationSeconds: 6300})
	assert.Equal(t, PhasePreMatch, s.CurrentPhase())

	s.AdvanceLiveTime(900 + 3000) // live at 3000s
	assert.Equal(t, PhaseHalfTime, s.CurrentPhase())

	s.SetUserTime(1000)
	assert.Equal(t, PhaseFirstHalf, s.CurrentPhase())
}
