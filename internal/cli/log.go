package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/mapedit/internal/history"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show edit history",
	Long:  `Display what happened to edits when they were applied or undone, newest first.`,
	Run:   runLog,
}

var (
	logOneline bool
	logLimit   int
)

func init() {
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "Show each entry on a single line")
	logCmd.Flags().IntVarP(&logLimit, "n", "n", 0, "Limit the number of entries to show")
}

func runLog(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	c := initContext()
	defer c.Close()

	entries, err := c.History.List(ctx, logLimit)
	if err != nil {
		exitError("failed to get history: %v", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history yet")
		return
	}

	yellow := color.New(color.FgYellow)
	for _, e := range entries {
		outcome := outcomeColor(e.Outcome)
		if logOneline {
			yellow.Printf("%.8s ", e.EditID)
			outcome.Printf("%-10s ", e.Outcome)
			fmt.Printf("%s %s\n", e.ActionType, e.ElementKey)
			continue
		}

		yellow.Printf("edit %s ", e.EditID)
		outcome.Printf("(%s)\n", e.Outcome)
		fmt.Printf("Date:     %s\n", e.CreatedAt.Local().Format("Mon Jan 2 15:04:05 2006"))
		fmt.Printf("Element:  %s\n", e.ElementKey)
		fmt.Printf("\n    %s", e.ActionType)
		if e.Duration > 0 {
			fmt.Printf(" in %s", e.Duration)
		}
		fmt.Println()
		if e.Detail != "" {
			fmt.Printf("    %s\n", e.Detail)
		}
		fmt.Println()
	}
}

func outcomeColor(o history.Outcome) *color.Color {
	switch o {
	case history.OutcomeApplied:
		return color.New(color.FgGreen)
	case history.OutcomeConflicted:
		return color.New(color.FgRed)
	case history.OutcomeUndone:
		return color.New(color.FgMagenta)
	}
	return color.New(color.FgCyan)
}
