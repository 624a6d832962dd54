package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <type/id>",
	Short: "Show an element",
	Long: `Show an element with its tags and geometry. Nodes also list the ways
and relations referencing them. The edit history of the element follows.`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	c := initContext()
	defer c.Close()

	el := mustGetElement(ctx, c, args[0])

	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	yellow.Printf("%s", el.Key())
	fmt.Printf(" (version %d)\n", el.Version)

	switch el.Type {
	case models.ElementNode:
		fmt.Printf("Position: %.7f, %.7f\n", el.Position.Lat, el.Position.Lon)
	case models.ElementWay:
		fmt.Printf("Nodes:    %v\n", el.NodeIDs)
	case models.ElementRelation:
		fmt.Println("Members:")
		for _, m := range el.Members {
			fmt.Printf("    %s/%d %s\n", m.Type, m.Ref, m.Role)
		}
	}

	fmt.Println("Tags:")
	keys := make([]string, 0, len(el.Tags))
	for k := range el.Tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Printf("    %s = %s\n", k, el.Tags[k])
	}

	if el.Type == models.ElementNode {
		ways, err := c.Store.GetWaysForNode(ctx, el.ID)
		if err != nil {
			exitError("failed to get ways: %v", err)
		}
		relations, err := c.Store.GetRelationsForNode(ctx, el.ID)
		if err != nil {
			exitError("failed to get relations: %v", err)
		}
		for _, parent := range append(ways, relations...) {
			cyan.Printf("    part of %s\n", parent.Key())
		}
	}

	entries, err := c.History.ForElement(ctx, el.Key().String())
	if err != nil {
		exitError("failed to get history: %v", err)
	}
	if len(entries) > 0 {
		fmt.Println("\nHistory:")
		for _, e := range entries {
			fmt.Printf("    %s  %-10s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Outcome, e.ActionType)
		}
	}
}

// mustGetElement resolves an element argument or exits
func mustGetElement(ctx context.Context, c *cmdContext, arg string) *models.Element {
	key, err := parseElementKey(arg)
	if err != nil {
		exitError("%v", err)
	}
	el, err := c.Store.GetElement(ctx, key)
	if err != nil {
		exitError("failed to get %s: %v", key, err)
	}
	if el == nil {
		exitError("element not found: %s", key)
	}
	return el
}
