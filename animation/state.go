// Package animation is the rolling wheel that reveals a draw result.
//
// The wheel is started with a shuffled candidate list, rolls at constant
// speed, and after a stop request decelerates along an ease-out cubic
// curve for a fixed duration. The index it comes to rest on is the
// result. Randomness enters only through the shuffle at Start; the motion
// is a deterministic function of the dt sequence fed to Step.
package animation

import (
	"math"
	"time"
)

// State is a snapshot of one animation run.
type State[T any] struct {
	Phase      Phase
	Candidates []T

	// Position is the wheel offset in candidate positions, in [0, n).
	Position float64
	Speed    float64

	// InitialSpeed is the speed when the stop was requested.
	InitialSpeed float64
	// Elapsed is the time spent slowing down.
	Elapsed time.Duration

	Final      T
	FinalIndex int
	HasFinal   bool
}

// Step advances s by dt and returns the new state. It does not modify
// s or its candidate list.
func Step[T any](s State[T], tuning Tuning, dt time.Duration) State[T] {
	n := len(s.Candidates)
	if n == 0 {
		return s
	}
	if dt < 0 {
		dt = 0
	}

	switch s.Phase {
	case PhaseIdle, PhaseStopped:
		return s

	case PhaseRolling:
		s.Position = wrap(s.Position+s.Speed*dt.Seconds(), n)

	case PhaseSlowingDown:
		s.Elapsed += dt
		if s.Elapsed >= tuning.SlowdownDuration {
			idx := int(math.Round(s.Position)) % n
			s.Position = float64(idx)
			s.Speed = 0
			s.Final = s.Candidates[idx]
			s.FinalIndex = idx
			s.HasFinal = true
			s.Phase = PhaseStopped
			return s
		}

		progress := s.Elapsed.Seconds() / tuning.SlowdownDuration.Seconds()
		eased := 1 - math.Pow(1-progress, 3)
		s.Speed = s.InitialSpeed * (1 - eased)
		s.Position = wrap(s.Position+s.Speed*dt.Seconds(), n)
	}

	return s
}

// Index is the candidate currently under the pointer.
func (s State[T]) Index() int {
	n := len(s.Candidates)
	if n == 0 {
		return 0
	}
	return int(math.Round(s.Position)) % n
}

// Current returns the candidate under the pointer.
func (s State[T]) Current() (T, bool) {
	var zero T
	if len(s.Candidates) == 0 {
		return zero, false
	}
	return s.Candidates[s.Index()], true
}

// At returns the candidate offset positions away from the pointer
// (negative offsets are above it).
func (s State[T]) At(offset int) (T, bool) {
	var zero T
	n := len(s.Candidates)
	if n == 0 {
		return zero, false
	}
	idx := (int(math.Round(s.Position)) + offset) % n
	if idx < 0 {
		idx += n
	}
	return s.Candidates[idx], true
}

// Fraction is the sub-position scroll offset used for smooth rendering.
func (s State[T]) Fraction() float64 {
	return s.Position - math.Floor(s.Position)
}

func wrap(pos float64, n int) float64 {
	pos = math.Mod(pos, float64(n))
	if pos < 0 {
		pos += float64(n)
	}
	return pos
}
