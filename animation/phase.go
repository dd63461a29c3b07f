package animation

//go:generate go tool github.com/dmarkham/enumer -type=Phase -trimprefix=Phase -transform=snake -json -text

// Phase is the state of a draw animation.
type Phase uint8

const (
	PhaseIdle        Phase = iota
	PhaseRolling           // constant speed until a stop is requested
	PhaseSlowingDown       // ease-out deceleration for Tuning.SlowdownDuration
	PhaseStopped           // final value committed
)

// Running is true while the wheel is moving.
func (p Phase) Running() bool {
	return p == PhaseRolling || p == PhaseSlowingDown
}
