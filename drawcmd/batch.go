package drawcmd

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"text/tabwriter"

	"go.ntppool.org/common/logger"
	"golang.org/x/sync/errgroup"

	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/draw"
)

type batchCmd struct {
	Workers  int    `default:"4" help:"Number of concurrent draws"`
	Category string `default:"" help:"Only draw this category"`
}

type batchResult struct {
	target catalog.Entity
	outs   []*draw.Outcome
	err    error
}

func (cmd *batchCmd) Run(ctx context.Context, cli *CLI) error {
	log := logger.FromContext(ctx)

	var only catalog.Category
	if cmd.Category != "" {
		c, err := catalog.ParseSpecialty(cmd.Category)
		if err != nil {
			return err
		}
		only = c
	}

	svc, l, err := cli.openService(ctx, nil, nil)
	if err != nil {
		return err
	}
	defer l.Close()

	targets := svc.Catalog().All()
	results := make([]batchResult, len(targets))

	var mu sync.Mutex
	drawn := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cmd.Workers, 1))

	for i, target := range targets {
		g.Go(func() error {
			r := batchResult{target: target}
			r.outs, r.err = drawBatchTarget(gctx, svc, target, only)
			if r.err != nil && draw.Kind(r.err) == nil {
				return r.err
			}

			mu.Lock()
			drawn += len(r.outs)
			mu.Unlock()

			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cli.out(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tCATEGORY\tINSPECTOR\tNOTE")
	failed := 0
	for _, r := range results {
		for _, out := range r.outs {
			note := ""
			if out.ForcedUnique {
				note = "previous inspector, only candidate"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.target.Name, out.Category, out.Selected.Name, note)
		}
		if r.err != nil && !errors.Is(r.err, draw.ErrDuplicateDrawInRound) {
			failed++
			fmt.Fprintf(tw, "%s\t\t\t%s\n", r.target.Name, draw.Message(r.err))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	log.InfoContext(ctx, "batch complete", "draws", drawn, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d targets could not be drawn; reset the round or adjust the catalog and try again", failed)
	}
	return nil
}

func drawBatchTarget(ctx context.Context, svc *draw.Service, target catalog.Entity, only catalog.Category) ([]*draw.Outcome, error) {
	if only == catalog.CategoryUnknown {
		return svc.DrawTarget(ctx, target.ID)
	}
	for _, c := range target.Category.Specialties() {
		if c == only {
			out, err := svc.Draw(ctx, target.ID, only)
			if err != nil {
				return nil, err
			}
			return []*draw.Outcome{out}, nil
		}
	}
	return nil, nil
}
