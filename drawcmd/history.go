package drawcmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc"
)

type historyCmd struct {
	List  historyListCmd  `cmd:"" default:"1" help:"List recorded draws, oldest first"`
	Clear historyClearCmd `cmd:"" help:"Delete every recorded draw"`
}

type historyListCmd struct {
	JSON  bool   `name:"json" help:"Print JSON"`
	Limit int    `default:"0" help:"Only show the most recent draws (0 shows all)"`
	Match string `default:"" help:"Only show draws for this target"`
}

func (cmd *historyListCmd) Run(ctx context.Context, cli *CLI) error {
	svc, l, err := cli.openService(ctx, nil, nil)
	if err != nil {
		return err
	}
	defer l.Close()

	records, err := svc.History(ctx)
	if err != nil {
		return err
	}

	if cmd.Match != "" {
		filtered := records[:0]
		for _, r := range records {
			if r.TargetID == cmd.Match {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}
	if cmd.Limit > 0 && len(records) > cmd.Limit {
		records = records[len(records)-cmd.Limit:]
	}

	if cmd.JSON {
		enc := json.NewEncoder(cli.out())
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Fprintln(cli.out(), "No draws recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cli.out(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTARGET\tCATEGORY\tINSPECTOR\tGROUP")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.TargetName, r.Category, r.SelectedName, r.SelectedOriginName,
		)
	}
	return tw.Flush()
}

type historyClearCmd struct {
	Yes bool `help:"Confirm deleting the history"`
}

func (cmd *historyClearCmd) Run(ctx context.Context, cli *CLI) error {
	if !cmd.Yes {
		return errors.New(heredoc.Doc(`
			clearing the history cannot be undone and lifts the
			consecutive-draw exclusions; run again with --yes to confirm`))
	}

	svc, l, err := cli.openService(ctx, nil, nil)
	if err != nil {
		return err
	}
	defer l.Close()

	if err := svc.ClearHistory(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out(), "History cleared.")
	return nil
}
