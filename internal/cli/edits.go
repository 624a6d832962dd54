package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/spf13/cobra"
)

var editsCmd = &cobra.Command{
	Use:   "edits",
	Short: "Show the edit queue",
	Long:  `List queued edits with their state. Conflicted edits show the reason.`,
	Run:   runEdits,
}

var editsState string

func init() {
	editsCmd.Flags().StringVar(&editsState, "state", "", "Only show edits in this state (pending, applied, conflicted, reverted)")
}

func runEdits(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	var states []models.EditState
	if editsState != "" {
		states = append(states, models.EditState(editsState))
	}

	list, err := c.Store.ListEdits(states...)
	if err != nil {
		exitError("failed to list edits: %v", err)
	}

	if last, _ := c.Store.GetValue(lastImportKey); last != "" {
		fmt.Printf("Last import: %s\n\n", last)
	}

	if len(list) == 0 {
		fmt.Println("No edits")
		return
	}

	yellow := color.New(color.FgYellow)
	for _, edit := range list {
		yellow.Printf("%s ", edit.ShortID())
		stateColor(edit.State).Printf("%-10s ", edit.State)
		fmt.Printf("%-26s %s", edit.ActionType, edit.ElementKey)
		if edit.RevertOf != "" {
			fmt.Printf(" (undoes %.8s)", edit.RevertOf)
		}
		fmt.Println()
		if edit.Conflict != "" {
			color.New(color.FgRed).Printf("         %s\n", edit.Conflict)
		}
	}
}

func stateColor(state models.EditState) *color.Color {
	switch state {
	case models.EditApplied:
		return color.New(color.FgGreen)
	case models.EditConflicted:
		return color.New(color.FgRed)
	case models.EditReverted:
		return color.New(color.FgMagenta)
	}
	return color.New(color.FgCyan)
}
