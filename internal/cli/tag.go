package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/mapedit/internal/changes"
	"github.com/kilupskalvis/mapedit/internal/core"
	"github.com/kilupskalvis/mapedit/internal/edits"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/kilupskalvis/mapedit/internal/sided"
	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag <type/id> <key=value|key->...",
	Short: "Queue a tag edit",
	Long: `Queue a tag edit on an element. Use key=value to set a tag and key-
to remove it. The edit is applied with "mapedit apply".`,
	Args: cobra.MinimumNArgs(2),
	Run:  runTag,
}

var tagCheckDate bool

func init() {
	tagCmd.Flags().BoolVar(&tagCheckDate, "check-date", false, "Record the survey date: refresh check_date:<key> of confirmed values, drop it for changed ones")
}

func runTag(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	c := initContext()
	defer c.Close()

	el := mustGetElement(ctx, c, args[0])

	today := ""
	if tagCheckDate {
		today = sided.Today()
	}

	b := changes.NewBuilder(el.Tags)
	if err := applyTagArgs(b, args[1:], today); err != nil {
		exitError("%v", err)
	}
	queueTagChanges(c, b, el)
}

// queueTagChanges queues the changes collected in b as an UpdateElementTags edit
func queueTagChanges(c *cmdContext, b *changes.Builder, el *models.Element) {
	cs := b.Changes()
	if cs.IsEmpty() {
		fmt.Printf("Nothing to change on %s\n", el.Key())
		return
	}

	action, err := edits.NewUpdateElementTags(el, cs)
	if err != nil {
		exitError("%v", err)
	}
	queueAction(c, action)

	for _, ch := range cs {
		printChange(ch)
	}
}

func printChange(ch changes.Change) {
	switch ch.Type {
	case changes.ChangeAdd:
		color.New(color.FgGreen).Printf("    %s\n", ch)
	case changes.ChangeDelete:
		color.New(color.FgRed).Printf("    %s\n", ch)
	default:
		color.New(color.FgYellow).Printf("    %s\n", ch)
	}
}

// queueAction adds an action to the edit queue and reports it
func queueAction(c *cmdContext, action edits.Action) {
	edit, err := core.AddEdit(c.Store, action)
	if err != nil {
		exitError("failed to queue edit: %v", err)
	}
	fmt.Printf("Queued edit ")
	color.New(color.FgYellow).Printf("%s", edit.ShortID())
	fmt.Printf(" (%s on %s)\n", edit.ActionType, edit.ElementKey)
}
