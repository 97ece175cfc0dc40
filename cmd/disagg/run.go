package main

// run.go - executes run definitions and writes their output bundles.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"disagg/internal/disagg"
	"disagg/internal/logging"
	"disagg/internal/report"
	"disagg/internal/workspace"
)

// plainProgressInterval is how often progress is printed without a TTY.
const plainProgressInterval = time.Second

func runCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run <workspace> [run...]",
		Short: "Execute runs (all runs of the workspace when none are named)",
		Long: `Execute runs and write their output to ~/.disagg/<workspace>/<run>/:
summary.md, result.yaml, result.json, bins.tsv, sources.tsv and run.log.

DISAGG_MAX_DISTANCE, DISAGG_NUM_SOURCES and DISAGG_SHOW_DISTANCES override
the run definitions; DISAGG_LOG_MODE (dev|prod) selects the run.log format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			runs := args[1:]
			if len(runs) == 0 {
				if runs, err = w.ListRuns(); err != nil {
					return err
				}
			}
			if len(runs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no runs in workspace %q\n", w.Name)
				return nil
			}

			var failed int
			for _, name := range runs {
				if err := c.execute(cmd.Context(), w, name, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "run %q: %v\n", name, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d runs failed", failed, len(runs))
			}
			return nil
		},
	}
}

// execute runs one definition end to end. An intensity level that is never
// exceeded is reported, not treated as a failure.
func (c *cli) execute(ctx context.Context, w *workspace.Workspace, name string, out, errOut io.Writer) error {
	r, err := w.LoadRun(name)
	if err != nil {
		return err
	}
	r.ApplyEnv(c.env)
	if err := r.Validate(); err != nil {
		return err
	}
	p, err := c.registry.Get(r.Provider)
	if err != nil {
		return err
	}
	collab, err := p.Build(r.Answers)
	if err != nil {
		return fmt.Errorf("provider %s: %w", p.Name(), err)
	}
	cfg, err := r.EngineConfig()
	if err != nil {
		return err
	}

	outDir := w.OutputDir(name)
	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("clear %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", outDir, err)
	}
	runID := uuid.NewString()
	logger, err := logging.New(c.env.LogMode, filepath.Join(outDir, "run.log"))
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With("workspace", w.Name, "run", name, "run_id", runID)

	e, err := disagg.New(cfg, disagg.WithLogger(logger.Zap()))
	if err != nil {
		return err
	}
	logger.Info("run started", "provider", p.Name(), "iml", r.IML, "max_distance", r.MaxDistance)

	res, err := c.disaggregate(ctx, e, collab.Request(r.IML), name, errOut)
	if errors.Is(err, disagg.ErrNoExceedance) {
		fmt.Fprintf(out, "%s: intensity level %v is never exceeded at %s; try a lower level\n",
			titleStyle.Render(name), r.IML, collab.Site.Name)
		return nil
	}
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	meta := report.Meta{
		RunID:       runID,
		Run:         name,
		Workspace:   w.Name,
		Provider:    p.Name(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Ruptures:    e.Total(),
	}
	bundle, err := report.Build(res, meta, r.Report.ShowDistances)
	if err != nil {
		return err
	}
	if err := report.WriteBundle(bundle, outDir); err != nil {
		return err
	}
	logger.Info("run written", "dir", outDir)

	fmt.Fprintf(out, "%s %s", titleStyle.Render(name), report.MeanModeSummary(res))
	if len(res.Ranked) > 0 {
		fmt.Fprintf(out, "\n%s", report.SourceTable(res.Ranked, r.Report.ShowDistances))
	}
	fmt.Fprintf(out, "%s\n", dimStyle.Render("→ "+outDir))
	return nil
}

// disaggregate runs the engine with a progress display: a spinner on a
// terminal, periodic lines otherwise.
func (c *cli) disaggregate(ctx context.Context, e *disagg.Engine, req disagg.Request, label string, errOut io.Writer) (*disagg.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.interactive {
		return runWithSpinner(ctx, e, req, label)
	}
	return runPlain(ctx, e, req, label, errOut)
}

func runPlain(ctx context.Context, e *disagg.Engine, req disagg.Request, label string, errOut io.Writer) (*disagg.Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	var res *disagg.Result

	g.Go(func() error {
		defer close(done)
		var err error
		res, err = e.Disaggregate(gctx, req)
		return err
	})
	g.Go(func() error {
		t := time.NewTicker(plainProgressInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return nil
			case <-t.C:
				fmt.Fprintln(errOut, progressLine(label, e.Progress()))
			}
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func runWithSpinner(ctx context.Context, e *disagg.Engine, req disagg.Request, label string) (*disagg.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	prog := tea.NewProgram(newProgressModel(label, e.Progress, cancel), tea.WithOutput(os.Stderr))
	var (
		g      errgroup.Group
		res    *disagg.Result
		runErr error
	)
	g.Go(func() error {
		res, runErr = e.Disaggregate(ctx, req)
		prog.Send(doneMsg{})
		return nil
	})
	g.Go(func() error {
		_, err := prog.Run()
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, runErr
}

var printer = message.NewPrinter(language.English)

func progressLine(label string, p disagg.Progress) string {
	return printer.Sprintf("%s: %d/%d ruptures (%.0f%%)", label, p.Processed, p.Total, 100*p.Fraction())
}
