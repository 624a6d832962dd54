package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/mapedit/internal/config"
	"github.com/kilupskalvis/mapedit/internal/history"
	"github.com/kilupskalvis/mapedit/internal/store"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new mapedit workspace",
	Long: `Initialize a new mapedit workspace in the current directory.
This creates a .mapedit directory holding the map data, the edit queue
and the edit history.`,
	Run: runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	if _, err := config.FindRoot(); err == nil {
		exitError("mapedit workspace already exists")
	}

	cfg, err := config.Initialize()
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to create store: %v", err)
	}
	defer st.Close()

	if err := st.Initialize(); err != nil {
		exitError("failed to initialize store: %v", err)
	}

	hist, err := history.Open(cfg.HistoryPath())
	if err != nil {
		exitError("failed to create history: %v", err)
	}
	defer hist.Close()

	color.New(color.FgGreen).Printf("Initialized empty mapedit workspace in %s\n", cfg.Root())
	fmt.Printf("Node move tolerance: %.0f m\n", cfg.NodeMoveTolerance)
}
