package main

// report.go - report and bins.

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"disagg/internal/bins"
	"disagg/internal/report"
	"disagg/internal/workspace"
)

func reportCmd(c *cli) *cobra.Command {
	var showBins bool
	cmd := &cobra.Command{
		Use:   "report <workspace> <run>",
		Short: "Print the result of an executed run",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			if !w.HasOutput(args[1]) {
				return fmt.Errorf("run %q has no output (run 'disagg run %s %s' first)", args[1], w.Name, args[1])
			}
			dir := w.OutputDir(args[1])
			res, err := report.LoadResult(dir)
			if err != nil {
				return err
			}
			sum, err := report.ReadSummary(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", titleStyle.Render(fmt.Sprintf("%s (%s)", sum.Run, sum.RunID)))
			fmt.Fprintf(out, "%s\n", dimStyle.Render(printer.Sprintf(
				"provider %s, site %q, iml %v, %d ruptures, generated %s",
				sum.Provider, res.Site, res.IML, sum.Ruptures, sum.GeneratedAt)))
			fmt.Fprint(out, report.MeanModeSummary(res))

			if len(res.Ranked) > 0 {
				showDistances := res.Ranked[0].Distances != nil
				fmt.Fprintf(out, "\n%s", report.SourceTable(res.Ranked, showDistances))
			}
			if showBins {
				fmt.Fprintf(out, "\n%s", report.BinTable(res))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showBins, "bins", false, "also print the full bin table")
	return cmd
}

func binsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "bins <workspace> <run>",
		Short: "Show the magnitude and distance bins a run will use",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := workspace.Open(args[0])
			if err != nil {
				return err
			}
			r, err := w.LoadRun(args[1])
			if err != nil {
				return err
			}
			g, err := r.Grid()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Magnitude"))
			if err := printAxis(out, g.Mag); err != nil {
				return err
			}
			fmt.Fprintln(out, titleStyle.Render("Distance (km)"))
			if err := printAxis(out, g.Dist); err != nil {
				return err
			}
			fmt.Fprintln(out, titleStyle.Render("Epsilon"))
			for e := 0; e < bins.NumEpsilon; e++ {
				fmt.Fprintf(out, "%d\t%s\n", e, bins.EpsilonHeader(e))
			}
			return nil
		},
	}
}

func printAxis(w io.Writer, a bins.Axis) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "bin\tfrom\tto\tcenter")
	for i := 0; i < a.Len(); i++ {
		fmt.Fprintf(tw, "%d\t%g\t%g\t%g\n", i, a.Edge(i), a.Edge(i+1), a.Center(i))
	}
	return tw.Flush()
}
