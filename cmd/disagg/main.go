package main

// main.go - disagg command line: workspaces of disaggregation runs.
//
//	disagg init <workspace>
//	disagg add  <workspace> <run> --iml 0.2 [--provider demo] [--answer k=v]...
//	disagg run  <workspace> [run...]
//	disagg report <workspace> <run> [--bins]
//	disagg list [workspace]
//	disagg bins <workspace> <run>
//	disagg rm   <workspace> [run]

import (
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"disagg/internal/config"
	"disagg/internal/demo"
	"disagg/internal/plugin"
)

// providers is the registry of available forecast providers.
var providers = plugin.NewRegistry(demo.Provider{})

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// cli carries state shared by every subcommand.
type cli struct {
	env      config.Env
	registry *plugin.Registry

	// interactive enables the prompt and progress TUIs.
	interactive bool
	prompt      func([]plugin.ConfigQuestion) (map[string]string, error)
}

func newCLI() *cli {
	tty := func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &cli{
		registry:    providers,
		interactive: tty(os.Stdin) && tty(os.Stdout),
		prompt:      promptQuestions,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "disagg",
		Short: "Seismic hazard disaggregation by magnitude, distance and epsilon",
		Long: `disagg decomposes the rate at which a ground-motion level is exceeded at a
site into magnitude, distance and epsilon bins and ranks the contributing
sources.

Runs live in workspaces under ~/.disagg/<workspace>/ (or $DISAGG_HOME).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.ParseEnv()
			if err != nil {
				return err
			}
			c.env = env
			return nil
		},
	}
	root.AddCommand(
		initCmd(c),
		addCmd(c),
		runCmd(c),
		reportCmd(c),
		listCmd(c),
		binsCmd(c),
		rmCmd(c),
	)
	return root
}

func main() {
	if err := newRootCmd(newCLI()).Execute(); err != nil {
		log.SetFlags(0)
		log.Fatal(fmt.Errorf("disagg: %w", err))
	}
}
