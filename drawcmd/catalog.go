package drawcmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/MakeNowJust/heredoc"
	"go.ntppool.org/common/logger"

	"go.inspectdraw.org/draw/catalog"
)

type catalogCmd struct {
	Init  catalogInitCmd  `cmd:"" help:"Write the built-in department catalog"`
	List  catalogListCmd  `cmd:"" default:"1" help:"List the departments"`
	Patch catalogPatchCmd `cmd:"" help:"Apply a JSON patch (RFC 6902) to the catalog"`
}

type catalogInitCmd struct {
	Force bool `help:"Overwrite an existing catalog"`
}

func (cmd *catalogInitCmd) Run(ctx context.Context, cli *CLI) error {
	path := cli.catalogPath()

	if _, err := os.Stat(path); err == nil && !cmd.Force {
		return fmt.Errorf("%s already exists; use --force to replace it", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	c := catalog.Default()
	if err := catalog.Save(path, c); err != nil {
		return err
	}
	logger.FromContext(ctx).DebugContext(ctx, "catalog written", "path", path)

	fmt.Fprint(cli.out(), heredoc.Docf(`
		Wrote %d departments to %s.

		Edit the file directly or apply changes with
		  %s catalog patch <patch.json>
		`, c.Len(), path, name))
	return nil
}

type catalogListCmd struct {
	JSON bool `name:"json" help:"Print JSON"`
}

func (cmd *catalogListCmd) Run(cli *CLI) error {
	c, err := catalog.LoadOrDefault(cli.catalogPath())
	if err != nil {
		return err
	}

	if cmd.JSON {
		b, err := c.Marshal()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cli.out(), string(b))
		return err
	}

	tw := tabwriter.NewWriter(cli.out(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tGROUP")
	for _, e := range c.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Category, e.Group())
	}
	return tw.Flush()
}

type catalogPatchCmd struct {
	File   string `arg:"" type:"existingfile" help:"JSON patch document"`
	DryRun bool   `name:"dry-run" help:"Print the patched catalog without saving it"`
}

func (cmd *catalogPatchCmd) Run(ctx context.Context, cli *CLI) error {
	log := logger.FromContext(ctx)

	doc, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	c, err := catalog.LoadOrDefault(cli.catalogPath())
	if err != nil {
		return err
	}

	patched, err := catalog.ApplyPatch(c, doc)
	if err != nil {
		return err
	}

	if cmd.DryRun {
		enc := json.NewEncoder(cli.out())
		enc.SetIndent("", "  ")
		return enc.Encode(patched.All())
	}

	if err := catalog.Save(cli.catalogPath(), patched); err != nil {
		return err
	}
	log.InfoContext(ctx, "catalog updated", "path", cli.catalogPath(), "entities", patched.Len())
	fmt.Fprintf(cli.out(), "Catalog now has %d departments.\n", patched.Len())
	return nil
}
