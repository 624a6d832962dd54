package cli

import (
	"context"

	"github.com/kilupskalvis/mapedit/internal/edits"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/spf13/cobra"
)

var deletePoiCmd = &cobra.Command{
	Use:   "delete-poi <node>",
	Short: "Queue the deletion of a point of interest",
	Long: `Queue the deletion of a POI node. A node that is part of a way keeps
its position and loses its tags instead. If it is a relation member it is
marked with a fixme for other mappers.`,
	Args: cobra.ExactArgs(1),
	Run:  runDeletePoi,
}

func runDeletePoi(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	c := initContext()
	defer c.Close()

	key, err := parseElementKey(args[0])
	if err != nil {
		exitError("%v", err)
	}
	if key.Type != models.ElementNode {
		exitError("%s is not a node", key)
	}
	node, err := c.Store.GetNode(ctx, key.ID)
	if err != nil {
		exitError("failed to get %s: %v", key, err)
	}
	if node == nil {
		exitError("node not found: %d", key.ID)
	}

	action, err := edits.NewDeletePoiNode(node)
	if err != nil {
		exitError("%v", err)
	}
	queueAction(c, action)
}
