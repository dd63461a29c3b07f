package animation

import (
	"context"
	"errors"
	"time"
)

// DefaultFrameInterval is the tick rate of a Driver (60 Hz).
const DefaultFrameInterval = time.Second / 60

// ErrEmpty is returned by Driver.Run when there is nothing to draw.
var ErrEmpty = errors.New("no candidates to animate")

// Clock provides the current time to a Driver.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
func SystemClock() Clock { return systemClock{} }

// Frame is what a Driver emits on every tick.
type Frame[T any] struct {
	Phase    Phase         `json:"phase"`
	Position float64       `json:"position"`
	Speed    float64       `json:"speed"`
	Index    int           `json:"index"`
	Current  T             `json:"current"`
	Elapsed  time.Duration `json:"elapsed"`
	Done     bool          `json:"done"`

	// At is the clock time the frame was computed for.
	At time.Time `json:"at"`
}

// Driver runs a Machine in real time: it feeds the clock's dt to Update
// on every tick, requests the stop after Roll (or when Stop fires) and
// returns the committed value.
type Driver[T any] struct {
	Machine *Machine[T]
	Clock   Clock

	// FrameInterval defaults to DefaultFrameInterval.
	FrameInterval time.Duration

	// Roll is how long the wheel rolls before the stop is requested.
	// Zero with a nil Stop channel stops immediately.
	Roll time.Duration

	// Stop requests the stop early (or, with Roll zero, is the only
	// trigger).
	Stop <-chan struct{}

	// OnFrame is called from Run's goroutine after every update.
	OnFrame func(Frame[T])
}

// Run starts the machine with candidates and blocks until it stops or
// ctx is cancelled. A cancelled run commits nothing.
func (d *Driver[T]) Run(ctx context.Context, candidates []T) (T, error) {
	var zero T

	if !d.Machine.Start(candidates) {
		if len(candidates) == 0 {
			return zero, ErrEmpty
		}
		return zero, errors.New("animation already running")
	}

	clock := d.Clock
	if clock == nil {
		clock = SystemClock()
	}
	interval := d.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	last := clock.Now()
	var stopAt time.Time
	if d.Roll > 0 || d.Stop == nil {
		stopAt = last.Add(d.Roll)
	}

	// The slowdown is only credited with time after the stop request, so
	// the wheel never stops before SlowdownDuration has passed.
	if !stopAt.IsZero() && !last.Before(stopAt) {
		d.Machine.RequestStop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	stop := d.Stop
	d.emit(last)

	for {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()

		case <-stop:
			stop = nil
			now := clock.Now()
			stopped := d.Machine.Update(now.Sub(last))
			last = now
			d.Machine.RequestStop()
			d.emit(now)

			if stopped {
				v, _ := d.Machine.Result()
				return v, nil
			}

		case <-ticker.C:
			now := clock.Now()
			dt := now.Sub(last)
			last = now

			stopped := d.Machine.Update(dt)
			if !stopAt.IsZero() && !now.Before(stopAt) {
				d.Machine.RequestStop()
			}
			d.emit(now)

			if stopped {
				v, _ := d.Machine.Result()
				return v, nil
			}
		}
	}
}

func (d *Driver[T]) emit(at time.Time) {
	if d.OnFrame == nil {
		return
	}
	s := d.Machine.state
	cur, _ := s.Current()
	d.OnFrame(Frame[T]{
		Phase:    s.Phase,
		Position: s.Position,
		Speed:    s.Speed,
		Index:    s.Index(),
		Current:  cur,
		Elapsed:  s.Elapsed,
		Done:     s.Phase == PhaseStopped,
		At:       at,
	})
}
