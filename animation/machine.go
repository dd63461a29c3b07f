package animation

import (
	"slices"
	"time"
)

// Shuffler permutes n elements through swap. *random.Picker implements it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Machine owns the state of one wheel. It is not safe for concurrent
// use; a Driver or a single UI loop calls it.
type Machine[T any] struct {
	tuning   Tuning
	shuffler Shuffler
	state    State[T]
}

func NewMachine[T any](shuffler Shuffler, tuning Tuning) *Machine[T] {
	return &Machine[T]{tuning: tuning, shuffler: shuffler}
}

// Start shuffles a copy of candidates and starts rolling. It is a no-op
// while the wheel is running. An empty list leaves (or returns) the
// machine in Idle.
func (m *Machine[T]) Start(candidates []T) bool {
	if m.state.Phase.Running() {
		return false
	}
	if len(candidates) == 0 {
		m.state.Phase = PhaseIdle
		return false
	}

	shuffled := slices.Clone(candidates)
	m.shuffler.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	speed := m.tuning.InitialSpeed(len(shuffled))
	m.state = State[T]{
		Phase:        PhaseRolling,
		Candidates:   shuffled,
		Speed:        speed,
		InitialSpeed: speed,
	}
	return true
}

// RequestStop begins the deceleration. Only valid while Rolling.
func (m *Machine[T]) RequestStop() bool {
	if m.state.Phase != PhaseRolling {
		return false
	}
	m.state.Phase = PhaseSlowingDown
	m.state.InitialSpeed = m.state.Speed
	m.state.Elapsed = 0
	return true
}

// Update advances the wheel by dt. It returns true on the update that
// committed the final value.
func (m *Machine[T]) Update(dt time.Duration) bool {
	before := m.state.Phase
	m.state = Step(m.state, m.tuning, dt)
	return before == PhaseSlowingDown && m.state.Phase == PhaseStopped
}

// State returns a copy of the current state.
func (m *Machine[T]) State() State[T] {
	s := m.state
	s.Candidates = slices.Clone(s.Candidates)
	return s
}

func (m *Machine[T]) Phase() Phase {
	return m.state.Phase
}

// Running is true while Rolling or SlowingDown.
func (m *Machine[T]) Running() bool {
	return m.state.Phase.Running()
}

// Result returns the committed value once Stopped.
func (m *Machine[T]) Result() (T, bool) {
	if !m.state.HasFinal {
		var zero T
		return zero, false
	}
	return m.state.Final, true
}

// Display returns the wheel padded to at least minItems segments.
func (m *Machine[T]) Display(minItems int) Display[T] {
	return NewDisplay(m.state.Candidates, m.state.Position, minItems)
}

// Reset discards candidates and result. Ignored while running.
func (m *Machine[T]) Reset() bool {
	if m.state.Phase.Running() {
		return false
	}
	m.state = State[T]{}
	return true
}
