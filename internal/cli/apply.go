package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/mapedit/internal/core"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply pending edits",
	Long: `Apply all pending edits in the order they were made. Edits that
conflict with the current map data are marked conflicted and skipped.`,
	Run: runApply,
}

var applyMetricsOut string

func init() {
	applyCmd.Flags().StringVar(&applyMetricsOut, "metrics-out", "", "Write Prometheus metrics to this file (overrides metrics_file)")
}

func runApply(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	c := initContext()
	defer c.Close()

	result, err := core.ApplyPendingEdits(ctx, c.Deps())
	writeMetrics(c)
	if err != nil {
		exitError("%v", err)
	}

	if len(result.Applied) == 0 && len(result.Conflicted) == 0 {
		fmt.Println("Nothing to apply")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	for _, edit := range result.Applied {
		green.Printf("applied    ")
		fmt.Printf("%s %s %s\n", edit.ShortID(), edit.ActionType, edit.ElementKey)
	}
	for _, edit := range result.Conflicted {
		red.Printf("conflicted ")
		fmt.Printf("%s %s: %s\n", edit.ShortID(), edit.ActionType, edit.Conflict)
	}

	fmt.Printf("\n%d applied (%d without changes), %d conflicted\n",
		len(result.Applied), result.Noop, len(result.Conflicted))
}

func writeMetrics(c *cmdContext) {
	path := applyMetricsOut
	if path == "" {
		path = c.Config.MetricsFile
	}
	if path == "" {
		return
	}
	if err := c.Metrics.WriteToTextfile(path); err != nil {
		c.Logger.Error().Err(err).Str("path", path).Msg("failed to write metrics")
	}
}
