// Package cli implements the cortex-refactor command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/cortex-refactor/internal/config"
	"github.com/mvp-joe/cortex-refactor/internal/history"
	"github.com/mvp-joe/cortex-refactor/internal/refactor"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cortex-refactor",
	Short: "Mechanically-verified Python refactoring",
	Long: `cortex-refactor applies deterministic, mechanically-verified
refactorings to Python source files: extract function, inline function,
move method, and constructor dependency injection.

Every operation re-parses its generated output before writing; a file is
never left syntactically broken. Successful edits are recorded in a local
history database and can be rolled back.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .cortex-refactor/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// newEngine loads configuration and wires the engine to the history store.
// The returned closer is non-nil when a history database was opened.
func newEngine() (*refactor.Engine, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	var sink refactor.Sink
	closer := func() {}
	if cfg.History.Enabled {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history: %w", err)
		}
		sink = store
		closer = func() { store.Close() }
	}
	return refactor.New(cfg, sink), closer, nil
}

// openHistory opens the configured history store directly.
func openHistory() (*history.Store, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return history.Open(cfg.History.Path)
}
