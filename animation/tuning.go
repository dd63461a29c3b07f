package animation

import "time"

// Tuning constants for the rolling wheel. Speeds are in candidate
// positions per second.
const (
	RotationsPerSecond = 3.0
	MinSpeed           = 30.0
	MaxSpeed           = 80.0

	DefaultSlowdown = 3 * time.Second

	// MinDisplayItems is the smallest wheel drawn; shorter candidate
	// lists are repeated to fill it.
	MinDisplayItems = 6
)

// Tuning parameterises Step.
type Tuning struct {
	RotationsPerSecond float64
	MinSpeed           float64
	MaxSpeed           float64
	SlowdownDuration   time.Duration
}

// DefaultTuning returns the stock wheel behaviour.
func DefaultTuning() Tuning {
	return Tuning{
		RotationsPerSecond: RotationsPerSecond,
		MinSpeed:           MinSpeed,
		MaxSpeed:           MaxSpeed,
		SlowdownDuration:   DefaultSlowdown,
	}
}

// InitialSpeed is the rolling speed for n candidates: n rotations'
// worth of positions per second, clamped so pacing looks the same for
// short and long lists.
func (t Tuning) InitialSpeed(n int) float64 {
	return min(max(float64(n)*t.RotationsPerSecond, t.MinSpeed), t.MaxSpeed)
}
