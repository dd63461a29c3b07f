package draw

import (
	"context"
	"time"

	"go.ntppool.org/common/tracing"

	"go.inspectdraw.org/draw/animation"
	"go.inspectdraw.org/draw/catalog"
)

// AnimateOptions configures DrawAnimated. The zero value rolls for
// DefaultRoll with the default tuning at 60 frames per second.
type AnimateOptions struct {
	Tuning        animation.Tuning
	Roll          time.Duration
	FrameInterval time.Duration
	Clock         animation.Clock

	// Stop stops the roll early; with Roll < 0 it is the only trigger.
	Stop <-chan struct{}

	// OnPlan is called with the prepared plan before the animation starts.
	OnPlan  func(*Plan)
	OnFrame func(animation.Frame[catalog.Entity])
}

// DefaultRoll is how long the wheel rolls before slowing down.
const DefaultRoll = 2 * time.Second

// DrawAnimated prepares a draw, runs the rolling animation over the
// candidates and commits the entity it stops on. A cancelled context
// aborts the draw without recording anything.
func (s *Service) DrawAnimated(ctx context.Context, targetID string, category catalog.Category, opts AnimateOptions) (*Outcome, error) {
	ctx, span := tracing.Start(ctx, "draw.DrawAnimated")
	defer span.End()
	setSpanRequest(span, targetID, category)

	plan, err := s.Prepare(ctx, targetID, category)
	if err != nil {
		return nil, err
	}
	if opts.OnPlan != nil {
		opts.OnPlan(plan)
	}

	tuning := opts.Tuning
	if tuning == (animation.Tuning{}) {
		tuning = animation.DefaultTuning()
	}
	roll := opts.Roll
	switch {
	case roll == 0:
		roll = DefaultRoll
	case roll < 0:
		roll = 0
	}

	d := &animation.Driver[catalog.Entity]{
		Machine:       animation.NewMachine[catalog.Entity](s.picker, tuning),
		Clock:         opts.Clock,
		FrameInterval: opts.FrameInterval,
		Roll:          roll,
		Stop:          opts.Stop,
		OnFrame:       opts.OnFrame,
	}

	selected, err := d.Run(ctx, plan.Candidates)
	if err != nil {
		s.Abort(plan)
		spanError(span, err)
		return nil, err
	}

	return s.Commit(ctx, plan, selected)
}
