package drawcmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.ntppool.org/common/logger"

	"go.inspectdraw.org/draw/animation"
	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/draw"
)

type drawCmd struct {
	Target   string `arg:"" help:"Department to draw an inspector for"`
	Category string `arg:"" help:"Inspection category (pressure or mechanical)"`

	Headless bool `help:"Draw without the rolling animation"`
	Manual   bool `help:"Keep rolling until Enter is pressed"`

	animationFlags `embed:""`
}

func (cmd *drawCmd) Run(ctx context.Context, cli *CLI) error {
	log := logger.FromContext(ctx)

	cat, err := catalog.CategoryString(cmd.Category)
	if err != nil {
		log.DebugContext(ctx, "unknown category", "category", cmd.Category, "err", err)
		cat = catalog.CategoryUnknown
	}

	svc, l, err := cli.openService(ctx, nil, nil)
	if err != nil {
		return err
	}
	defer l.Close()

	if cmd.Headless {
		out, err := svc.Draw(ctx, cmd.Target, cat)
		if err != nil {
			return userError(err)
		}
		fmt.Fprintln(cli.out(), out.Message())
		return nil
	}

	opts := cmd.options()
	if cmd.Manual {
		opts.Roll = -1
		opts.Stop = waitForEnter(os.Stdin)
		fmt.Fprintln(cli.out(), "Press Enter to stop the wheel.")
	}

	r := &wheelRenderer{w: cli.out()}
	opts.OnPlan = r.plan
	opts.OnFrame = r.frame

	out, err := svc.DrawAnimated(ctx, cmd.Target, cat, opts)
	r.finish()
	if err != nil {
		return userError(err)
	}
	fmt.Fprintln(cli.out(), out.Message())
	return nil
}

type targetCmd struct {
	Target string `arg:"" help:"Department to draw inspectors for"`
}

func (cmd *targetCmd) Run(ctx context.Context, cli *CLI) error {
	svc, l, err := cli.openService(ctx, nil, nil)
	if err != nil {
		return err
	}
	defer l.Close()

	outs, err := svc.DrawTarget(ctx, cmd.Target)
	for _, out := range outs {
		fmt.Fprintln(cli.out(), out.Message())
	}
	if err != nil {
		return userError(err)
	}
	return nil
}

// userError replaces draw errors with their user-facing message.
func userError(err error) error {
	if draw.Kind(err) == nil {
		return err
	}
	return fmt.Errorf("%s", draw.Message(err))
}

func waitForEnter(r io.Reader) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		_, _ = bufio.NewReader(r).ReadString('\n')
		close(ch)
	}()
	return ch
}

// wheelRenderer draws the rolling wheel on a single terminal line.
type wheelRenderer struct {
	w     io.Writer
	width int
	drawn bool
}

func (r *wheelRenderer) plan(p *draw.Plan) {
	for _, e := range p.Candidates {
		r.width = max(r.width, len(e.Name))
	}
	suffix := ""
	if p.ForcedUnique {
		suffix = " (previous inspector, only eligible department)"
	}
	fmt.Fprintf(r.w, "%s, %s: %d candidates%s\n", p.Target.Name, p.Category, len(p.Candidates), suffix)
}

func (r *wheelRenderer) frame(f animation.Frame[catalog.Entity]) {
	marker := ">"
	if f.Done {
		marker = "*"
	}
	fmt.Fprintf(r.w, "\r %s %-*s %s %-12s", marker, r.width, f.Current.Name, marker, f.Phase)
	r.drawn = true
}

func (r *wheelRenderer) finish() {
	if r.drawn {
		fmt.Fprintln(r.w)
	}
}
