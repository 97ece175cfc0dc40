package main

// workspace.go - init, add, list and rm.

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"disagg/internal/config"
	"disagg/internal/plugin"
	"disagg/internal/workspace"
)

func initCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "init <workspace>",
		Short: "Create a new workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Init(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created workspace %q at %s\n", w.Name, w.Dir)
			return nil
		},
	}
}

func addCmd(c *cli) *cobra.Command {
	var (
		provider      string
		iml           float64
		answers       map[string]string
		maxDistance   float64
		numSources    int
		showDistances bool
		magEdges      []float64
		distEdges     []float64
	)
	cmd := &cobra.Command{
		Use:   "add <workspace> <run>",
		Short: "Add a run definition to a workspace",
		Long: `Add a run definition to a workspace.

The provider's questions (site location for the demo provider) are taken
from --answer flags; on a terminal, unanswered questions are prompted for.
Unanswered questions fall back to the provider's defaults.

Writes ~/.disagg/<workspace>/<run>.yaml, which can be edited afterwards
(e.g. to add a mag_dist_filter).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			p, err := c.registry.Get(provider)
			if err != nil {
				return err
			}
			questions, err := p.Configure()
			if err != nil {
				return fmt.Errorf("configure provider: %w", err)
			}

			r := config.Default()
			r.Name = args[1]
			r.Provider = p.Name()
			r.IML = iml
			r.Answers = make(map[string]string)
			for k, v := range answers {
				r.Answers[k] = v
			}
			if cmd.Flags().Changed("max-distance") {
				r.MaxDistance = maxDistance
			}
			r.Report = config.Report{NumSources: numSources, ShowDistances: showDistances}
			if len(magEdges) > 0 {
				r.Bins.Magnitude.Edges = magEdges
			}
			if len(distEdges) > 0 {
				r.Bins.Distance.Edges = distEdges
			}

			var missing []plugin.ConfigQuestion
			for _, q := range questions {
				if strings.TrimSpace(r.Answers[q.Key]) == "" {
					missing = append(missing, q)
				}
			}
			if c.interactive && len(missing) > 0 {
				got, err := c.prompt(missing)
				if err != nil {
					return fmt.Errorf("prompt: %w", err)
				}
				for k, v := range got {
					if strings.TrimSpace(v) != "" {
						r.Answers[k] = v
					}
				}
			}
			if len(r.Answers) == 0 {
				r.Answers = nil
			}

			// Catch bad answers now rather than at run time.
			if _, err := p.Build(r.Answers); err != nil {
				return fmt.Errorf("provider %s: %w", p.Name(), err)
			}
			if err := w.AddRun(&r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added run %q to workspace %q\n", r.Name, w.Name)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&provider, "provider", "demo", "forecast provider")
	f.Float64Var(&iml, "iml", 0, "intensity measure level to disaggregate (required)")
	f.StringToStringVar(&answers, "answer", nil, "provider answer as key=value (repeatable)")
	f.Float64Var(&maxDistance, "max-distance", config.DefaultMaxDistance, "ignore sources farther than this (km)")
	f.IntVar(&numSources, "num-sources", 0, "number of top sources to report")
	f.BoolVar(&showDistances, "show-distances", false, "report distance metrics for ranked sources")
	f.Float64SliceVar(&magEdges, "mag-edges", nil, "explicit magnitude bin edges")
	f.Float64SliceVar(&distEdges, "dist-edges", nil, "explicit distance bin edges (km)")
	_ = cmd.MarkFlagRequired("iml")
	return cmd
}

func listCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list [workspace]",
		Short: "List workspaces, or the runs of one workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				names, err := workspace.List()
				if err != nil {
					return err
				}
				if len(names) == 0 {
					fmt.Fprintln(out, "no workspaces (run 'disagg init <name>')")
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			}

			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			runs, err := w.ListRuns()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintf(out, "no runs in workspace %q\n", w.Name)
			}
			for _, r := range runs {
				status := "not run"
				if w.HasOutput(r) {
					status = "done"
				}
				fmt.Fprintf(out, "%s\t%s\n", titleStyle.Render(r), dimStyle.Render(status))
			}
			return nil
		},
	}
}

func rmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <workspace> [run]",
		Short: "Remove a workspace, or one run and its output",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := workspace.Remove(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed workspace %q\n", args[0])
				return nil
			}
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			if err := w.RemoveRun(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed run %q from workspace %q\n", args[1], w.Name)
			return nil
		},
	}
}
