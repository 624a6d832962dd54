// Package cli implements the command-line interface for mapedit.
package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/mapedit/internal/config"
	"github.com/kilupskalvis/mapedit/internal/core"
	"github.com/kilupskalvis/mapedit/internal/history"
	"github.com/kilupskalvis/mapedit/internal/logger"
	"github.com/kilupskalvis/mapedit/internal/metrics"
	"github.com/kilupskalvis/mapedit/internal/store"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config  *config.Config
	Store   *store.Store
	History *history.Log
	Logger  *logger.Logger
	Metrics *metrics.Metrics
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.History != nil {
		c.History.Close()
	}
	if c.Store != nil {
		c.Store.Close()
	}
}

// Deps returns the collaborators for edit processing
func (c *cmdContext) Deps() core.Deps {
	return core.Deps{
		Store:             c.Store,
		History:           c.History,
		Metrics:           c.Metrics,
		Logger:            c.Logger,
		NodeMoveTolerance: c.Config.NodeMoveTolerance,
	}
}

// initContext loads the config and opens the store and history
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	log := logger.NewLogger(logger.Config{Level: level, Pretty: cfg.LogPretty})

	st, err := store.New(cfg.DatabasePath(), store.WithLogger(log.StoreLogger()))
	if err != nil {
		exitError("failed to open store: %v", err)
	}
	c := &cmdContext{Config: cfg, Store: st, Logger: log, Metrics: metrics.NewMetrics()}

	if err := st.Initialize(); err != nil {
		c.Close()
		exitError("failed to initialize store: %v", err)
	}

	c.History, err = history.Open(cfg.HistoryPath())
	if err != nil {
		c.Close()
		exitError("failed to open history: %v", err)
	}

	return c
}

var rootCmd = &cobra.Command{
	Use:   "mapedit",
	Short: "Conflict-aware map data editing",
	Long: `mapedit records edits on OpenStreetMap-like map data as a queue of
actions, applies them against the current data with conflict detection,
and lets you undo what was applied.`,
}

var logLevel string

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(createNodeCmd)
	rootCmd.AddCommand(deletePoiCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(editsCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(logCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
