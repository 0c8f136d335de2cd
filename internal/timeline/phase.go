package timeline

// Standard broadcast segment lengths in seconds
const (
	FirstHalfDuration  = 2700
	HalfTimeDuration   = 900
	SecondHalfDuration = 2700
)

// Phase is the broadcast segment at a playback position
type Phase string

const (
	PhasePreMatch   Phase = "pre_match"
	PhaseFirstHalf  Phase = "first_half"
	PhaseHalfTime   Phase = "half_time"
	PhaseSecondHalf Phase = "second_half"
	PhasePostMatch  Phase = "post_match"
)

// PhaseAt maps a video timestamp to its broadcast segment
func PhaseAt(seconds float64) Phase {
	switch {
	case seconds < 0:
		return PhasePreMatch
	case seconds < FirstHalfDuration:
		return PhaseFirstHalf
	case seconds < FirstHalfDuration+HalfTimeDuration:
		return PhaseHalfTime
	case seconds < FirstHalfDuration+HalfTimeDuration+SecondHalfDuration:
		return PhaseSecondHalf
	default:
		return PhasePostMatch
	}
}

// CurrentPhase is the broadcast segment at the store's user position
func (s *Store) CurrentPhase() Phase {
	return PhaseAt(s.UserTime())
}
