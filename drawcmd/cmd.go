// Package drawcmd implements the inspectdraw command line.
package drawcmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"go.ntppool.org/common/logger"

	"go.inspectdraw.org/draw/animation"
	"go.inspectdraw.org/draw/catalog"
	rootcmd "go.inspectdraw.org/draw/cmd"
	"go.inspectdraw.org/draw/draw"
	"go.inspectdraw.org/draw/ledger"
	"go.inspectdraw.org/draw/random"
	"go.inspectdraw.org/draw/selector"
)

func init() {
	logger.ConfigPrefix = "INSPECTDRAW"
}

const (
	name        = "inspectdraw"
	description = "Random assignment of inspecting departments"
)

type CLI struct {
	Config kong.ConfigFlag `help:"Load flag defaults from a JSON file" type:"path"`
	Debug  bool            `help:"Enable debug logging" env:"INSPECTDRAW_DEBUG"`

	DataDir     string `name:"data-dir" default:"./data" env:"INSPECTDRAW_DATA_DIR" help:"Directory for the catalog and history files"`
	CatalogFile string `name:"catalog-file" default:"" help:"Catalog file (default <data-dir>/departments.json)"`
	Ledger      string `default:"json" env:"INSPECTDRAW_LEDGER" help:"History store: json[:path], memory, sqlite[:path] or mysql:<dsn>"`
	Seed        uint64 `default:"0" help:"Random seed for reproducible draws (0 seeds from the system)"`

	Draw    drawCmd    `cmd:"" help:"Draw an inspecting department for a target and category"`
	Target  targetCmd  `cmd:"" help:"Draw every category a target needs"`
	Batch   batchCmd   `cmd:"" help:"Draw a full round for every department"`
	History historyCmd `cmd:"" help:"Show or clear the draw history"`
	Catalog catalogCmd `cmd:"" help:"Manage the department catalog"`
	Serve   serveCmd   `cmd:"" help:"Run the HTTP and websocket server"`
	Version versionCmd `cmd:"" help:"Show version"`

	stdout io.Writer
}

// Main runs the command line.
func Main() {
	cli := &CLI{}
	rootcmd.Run(cli, name, description, cli.options()...)
}

func (cli *CLI) options() []kong.Option {
	return []kong.Option{
		kong.Bind(cli),
		kong.Configuration(kong.JSON, "/etc/inspectdraw/config.json", "~/.config/inspectdraw/config.json"),
	}
}

func (cli *CLI) AfterApply(kctx *kong.Context, ctx context.Context) error {
	if cli.Debug {
		os.Setenv(logger.ConfigPrefix+"_LOG_LEVEL", "DEBUG")
	}
	log := logger.Setup()
	kctx.BindTo(logger.NewContext(ctx, log), (*context.Context)(nil))
	return nil
}

func (cli *CLI) out() io.Writer {
	if cli.stdout != nil {
		return cli.stdout
	}
	return os.Stdout
}

func (cli *CLI) catalogPath() string {
	if cli.CatalogFile != "" {
		return cli.CatalogFile
	}
	return filepath.Join(cli.DataDir, catalog.DefaultFile)
}

func (cli *CLI) picker() (*random.Picker, error) {
	if cli.Seed != 0 {
		return random.New(cli.Seed), nil
	}
	return random.NewFromEntropy()
}

// openService loads the catalog, opens the ledger and returns a draw
// service over them. The caller closes the ledger.
func (cli *CLI) openService(ctx context.Context, metrics *draw.Metrics, selMetrics *selector.Metrics) (*draw.Service, ledger.Ledger, error) {
	log := logger.FromContext(ctx)

	cat, err := catalog.LoadOrDefault(cli.catalogPath())
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: %w", err)
	}

	l, err := ledger.Open(ctx, cli.Ledger, cli.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("ledger: %w", err)
	}

	p, err := cli.picker()
	if err != nil {
		l.Close()
		return nil, nil, err
	}

	svc, err := draw.NewService(draw.Config{
		Catalog:  cat,
		Ledger:   l,
		Picker:   p,
		Selector: selector.NewSelector(log, selMetrics),
		Metrics:  metrics,
		Log:      log,
	})
	if err != nil {
		l.Close()
		return nil, nil, err
	}

	log.DebugContext(ctx, "draw service ready",
		"catalog", cli.catalogPath(),
		"entities", cat.Len(),
		"ledger", cli.Ledger,
		"seed", p.Seed(),
	)

	return svc, l, nil
}

// animationFlags are shared by commands that run the rolling wheel.
type animationFlags struct {
	Roll     time.Duration `default:"2s" help:"How long the wheel rolls before slowing down"`
	Slowdown time.Duration `default:"3s" help:"Duration of the slowdown"`
	FPS      int           `name:"fps" default:"60" help:"Frames per second"`
}

func (f animationFlags) options() draw.AnimateOptions {
	tuning := animation.DefaultTuning()
	if f.Slowdown > 0 {
		tuning.SlowdownDuration = f.Slowdown
	}
	opts := draw.AnimateOptions{
		Tuning: tuning,
		Roll:   f.Roll,
	}
	if f.Roll == 0 {
		// stop right away rather than using the default roll
		opts.Roll = -1
	}
	if f.FPS > 0 {
		opts.FrameInterval = time.Second / time.Duration(f.FPS)
	}
	return opts
}
