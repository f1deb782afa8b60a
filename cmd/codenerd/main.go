// Package main implements the codenerd CLI entry point and command
// registration hub (spec §1, §4.K): one runtime binding config, the
// module archive, the LLM sender, the orchestration loop, and the eval
// sink behind a handful of cobra subcommands.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codenerd/internal/config"
	"codenerd/internal/logging"
)

var (
	verbose    bool
	workspace  string
	configPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "codenerd",
	Short: "codenerd - a self-improving typed LLM module runtime",
	Long: `codenerd drives typed LLM modules through a MAP-Elites archive,
geometric priority selection, and a sub-agent scheduler.

Run "codenerd run <task>" for a single orchestration turn, or
"codenerd compile" to evolve a module archive against a training set.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		if verbose {
			logging.SetLevel(logging.LevelDebug)
		}
		logging.Boot("codenerd starting: workspace=%s verbose=%v", ws, verbose)

		path := configPath
		if path == "" {
			path = filepath.Join(ws, ".codenerd", "config.yaml")
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Boot("codenerd exiting")
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: <workspace>/.codenerd/config.yaml)")

	rootCmd.AddCommand(runCmd, compileCmd, configCmd, archiveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
