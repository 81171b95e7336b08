// Package cli implements the evgen command line.
//
//	evgen                        # root command
//	├── run                      # generate events
//	│   ├── --events, -n         # events in total
//	│   ├── --streams            # independent generators run in parallel
//	│   ├── --db                 # SQLite file for accepted events
//	│   ├── --metrics-addr       # serve Prometheus /metrics while running
//	│   └── --list               # list the first events of stream 0
//	└── list-species             # print the species table
//
// Persistent flags: --config/-c (settings files, repeatable), --species (YAML species
// overlay), --log-level.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/evgen/pkg/evgen/config"
	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

// Version is reported by --version.
var Version = "0.1.0"

// globalFlags are shared by all subcommands.
type globalFlags struct {
	configFiles []string
	speciesFile string
	logLevel    string
}

// BuildCLI returns the root command.
func BuildCLI() *cobra.Command {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:   "evgen",
		Short: "evgen: a staged particle-collision event generator",
		Long: `evgen generates collision events in three stages:
- a hard process (e+ e- -> q qbar)
- a final-state parton shower
- cluster hadronization with pi0 decays

Accepted events are checked for conservation and can be stored in SQLite.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringSliceVarP(&gf.configFiles, "config", "c", nil, "settings files (.yaml or .json); later files override earlier ones")
	rootCmd.PersistentFlags().StringVar(&gf.speciesFile, "species", "", "YAML species table merged over the built-in one")
	rootCmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(buildRunCommand(&gf))
	rootCmd.AddCommand(buildListSpeciesCommand(&gf))

	return rootCmd
}

// loadConfig reads and layers the settings files; none gives an empty
// Config.
func (gf *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.FromFiles(gf.configFiles...)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadSpecies returns the built-in table, overlaid with the species file.
func (gf *globalFlags) loadSpecies() (*species.Table, error) {
	tbl := species.Default()
	if gf.speciesFile == "" {
		return tbl, nil
	}
	if err := species.LoadYAMLFile(tbl, gf.speciesFile); err != nil {
		return nil, fmt.Errorf("load species: %w", err)
	}
	return tbl, nil
}

// newLogger returns a text logger on w at the configured level.
func (gf *globalFlags) newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(gf.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", gf.logLevel, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// Execute runs the root command with os.Args and returns the exit code.
// Cancelling ctx stops generation between events.
func Execute(ctx context.Context) int {
	if err := BuildCLI().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
