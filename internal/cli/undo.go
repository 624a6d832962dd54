package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/mapedit/internal/core"
	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo <edit>",
	Short: "Undo an applied edit",
	Long: `Queue the inverse of an applied edit. The inverse takes effect with the
next "mapedit apply", which also marks the edit reverted.`,
	Args: cobra.ExactArgs(1),
	Run:  runUndo,
}

func runUndo(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	c := initContext()
	defer c.Close()

	undo, err := core.UndoEdit(ctx, c.Deps(), args[0])
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Queued edit ")
	color.New(color.FgYellow).Printf("%s", undo.ShortID())
	fmt.Printf(" (%s on %s) undoing %.8s\n", undo.ActionType, undo.ElementKey, undo.RevertOf)
}
