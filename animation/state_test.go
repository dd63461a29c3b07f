package animation

import (
	"math"
	"slices"
	"testing"
	"time"
)

const frame = time.Second / 60

// identity leaves the order unchanged so tests can reason about indexes.
type identity struct{}

func (identity) Shuffle(int, func(i, j int)) {}

// reverse is a deterministic non-trivial permutation.
type reverse struct{}

func (reverse) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func TestInitialSpeed(t *testing.T) {
	tun := DefaultTuning()

	tests := []struct {
		name string
		n    int
		want float64
	}{
		{"clamped_low", 3, 30},
		{"exact_lower_bound", 10, 30},
		{"proportional", 20, 60},
		{"clamped_high", 40, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tun.InitialSpeed(tt.n); got != tt.want {
				t.Errorf("InitialSpeed(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestStepRollingWraps(t *testing.T) {
	s := State[string]{
		Phase:      PhaseRolling,
		Candidates: []string{"a", "b", "c"},
		Speed:      30,
	}

	s = Step(s, DefaultTuning(), 100*time.Millisecond)
	// 3 positions over a 3 item wheel wraps to 0
	if math.Abs(s.Position) > 1e-9 {
		t.Errorf("Position = %v, want 0", s.Position)
	}

	s = Step(s, DefaultTuning(), 50*time.Millisecond)
	if math.Abs(s.Position-1.5) > 1e-9 {
		t.Errorf("Position = %v, want 1.5", s.Position)
	}
	if s.Speed != 30 || s.Phase != PhaseRolling {
		t.Errorf("rolling changed speed or phase: %+v", s)
	}
}

func TestStepIsPure(t *testing.T) {
	in := State[int]{
		Phase:        PhaseSlowingDown,
		Candidates:   []int{1, 2, 3, 4},
		Position:     1.25,
		Speed:        40,
		InitialSpeed: 40,
	}
	snapshot := in
	snapshot.Candidates = slices.Clone(in.Candidates)

	out := Step(in, DefaultTuning(), 500*time.Millisecond)
	if out.Elapsed != 500*time.Millisecond {
		t.Errorf("Elapsed = %v", out.Elapsed)
	}
	if in.Elapsed != snapshot.Elapsed || in.Position != snapshot.Position || !slices.Equal(in.Candidates, snapshot.Candidates) {
		t.Error("Step modified its input")
	}
}

func TestStepIdleAndStoppedAreInert(t *testing.T) {
	for _, phase := range []Phase{PhaseIdle, PhaseStopped} {
		s := State[string]{Phase: phase, Candidates: []string{"a"}, Position: 0.3, Speed: 12}
		if got := Step(s, DefaultTuning(), time.Second); got.Position != 0.3 || got.Phase != phase {
			t.Errorf("%s: Step changed state: %+v", phase, got)
		}
	}
}

func TestEaseOutCubic(t *testing.T) {
	tun := DefaultTuning()
	s := State[int]{
		Phase:        PhaseSlowingDown,
		Candidates:   []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		Speed:        60,
		InitialSpeed: 60,
	}

	// halfway: eased = 1 - 0.5^3 = 0.875
	s = Step(s, tun, tun.SlowdownDuration/2)
	if want := 60 * 0.125; math.Abs(s.Speed-want) > 1e-9 {
		t.Errorf("Speed at half = %v, want %v", s.Speed, want)
	}

	prev := s.Speed
	for s.Phase == PhaseSlowingDown {
		s = Step(s, tun, frame)
		if s.Speed > prev {
			t.Fatalf("speed increased while slowing down: %v > %v", s.Speed, prev)
		}
		prev = s.Speed
	}
}

func TestSlowdownStopsAfterDuration(t *testing.T) {
	tun := DefaultTuning()
	m := NewMachine[string](identity{}, tun)
	if !m.Start([]string{"a", "b", "c", "d", "e"}) {
		t.Fatal("Start failed")
	}
	for i := 0; i < 30; i++ {
		m.Update(frame)
	}
	if !m.RequestStop() {
		t.Fatal("RequestStop failed")
	}

	var elapsed time.Duration
	step := 10 * time.Millisecond
	for {
		stopped := m.Update(step)
		elapsed += step
		if stopped {
			break
		}
		if elapsed > tun.SlowdownDuration+time.Second {
			t.Fatal("never stopped")
		}
	}

	if elapsed != tun.SlowdownDuration {
		t.Errorf("stopped after %v, want exactly %v", elapsed, tun.SlowdownDuration)
	}

	st := m.State()
	if st.Speed != 0 {
		t.Errorf("Speed = %v after stop", st.Speed)
	}
	if st.Position != float64(st.FinalIndex) {
		t.Errorf("Position %v not snapped to %d", st.Position, st.FinalIndex)
	}
	v, ok := m.Result()
	if !ok || v != st.Candidates[st.FinalIndex] {
		t.Errorf("Result() = %q, %v", v, ok)
	}

	// further updates change nothing
	m.Update(time.Second)
	if v2, _ := m.Result(); v2 != v || m.Phase() != PhaseStopped {
		t.Error("stopped machine changed on update")
	}
}

func TestMachineEdgeCases(t *testing.T) {
	m := NewMachine[string](identity{}, DefaultTuning())

	if m.Start(nil) {
		t.Error("Start(nil) should be a no-op")
	}
	if m.Phase() != PhaseIdle {
		t.Errorf("phase = %s after empty start", m.Phase())
	}
	if m.RequestStop() {
		t.Error("RequestStop while idle should be a no-op")
	}
	if _, ok := m.Result(); ok {
		t.Error("Result before any run")
	}

	m.Start([]string{"a", "b"})
	if m.Start([]string{"x"}) {
		t.Error("Start while rolling should be refused")
	}
	if m.Reset() {
		t.Error("Reset while rolling should be refused")
	}

	m.RequestStop()
	if m.RequestStop() {
		t.Error("second RequestStop should be a no-op")
	}
	m.Update(DefaultSlowdown)
	first, ok := m.Result()
	if !ok {
		t.Fatal("no result after slowdown")
	}

	// an empty restart keeps the committed result
	m.Start(nil)
	if v, ok := m.Result(); !ok || v != first {
		t.Error("empty Start cleared the result")
	}

	// a fresh start clears it
	m.Start([]string{"p", "q"})
	if _, ok := m.Result(); ok {
		t.Error("fresh Start kept the old result")
	}
}

func TestStartShufflesAndCopies(t *testing.T) {
	m := NewMachine[string](reverse{}, DefaultTuning())
	in := []string{"a", "b", "c"}
	m.Start(in)

	if got := m.State().Candidates; !slices.Equal(got, []string{"c", "b", "a"}) {
		t.Errorf("candidates = %v, want shuffled order", got)
	}
	if !slices.Equal(in, []string{"a", "b", "c"}) {
		t.Error("Start modified the caller's list")
	}
	if st := m.State(); st.Speed != MinSpeed || st.Position != 0 {
		t.Errorf("start state = %+v", st)
	}
}

func TestReproducibleResult(t *testing.T) {
	run := func() string {
		m := NewMachine[string](reverse{}, DefaultTuning())
		m.Start([]string{"nd", "szs", "wz", "zw", "gy", "cy1", "cy2"})
		for i := 0; i < 47; i++ {
			m.Update(frame)
		}
		m.RequestStop()
		for !m.Update(frame) {
		}
		v, _ := m.Result()
		return v
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("same shuffle and timing gave %q and %q", a, b)
	}
}

func TestStateAccessors(t *testing.T) {
	s := State[string]{Candidates: []string{"a", "b", "c"}, Position: 2.6}

	if s.Index() != 0 {
		t.Errorf("Index() = %d, want 0 (2.6 rounds to 3, wraps)", s.Index())
	}
	if v, _ := s.At(-1); v != "c" {
		t.Errorf("At(-1) = %q, want c", v)
	}
	if v, _ := s.At(1); v != "b" {
		t.Errorf("At(1) = %q, want b", v)
	}
	if f := s.Fraction(); math.Abs(f-0.6) > 1e-9 {
		t.Errorf("Fraction() = %v", f)
	}

	var empty State[string]
	if _, ok := empty.Current(); ok {
		t.Error("Current() on empty state")
	}
}
