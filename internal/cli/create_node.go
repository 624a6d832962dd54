package cli

import (
	"github.com/kilupskalvis/mapedit/internal/edits"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/spf13/cobra"
)

var createNodeCmd = &cobra.Command{
	Use:   "create-node --lat <lat> --lon <lon> [key=value]...",
	Short: "Queue the creation of a node",
	Long: `Queue the creation of a new node. The node gets a provisional id until
the edit is applied.`,
	Run: runCreateNode,
}

var (
	createLat float64
	createLon float64
)

func init() {
	createNodeCmd.Flags().Float64Var(&createLat, "lat", 0, "Latitude of the new node")
	createNodeCmd.Flags().Float64Var(&createLon, "lon", 0, "Longitude of the new node")
	createNodeCmd.MarkFlagRequired("lat")
	createNodeCmd.MarkFlagRequired("lon")
}

func runCreateNode(cmd *cobra.Command, args []string) {
	if createLat < -90 || createLat > 90 || createLon < -180 || createLon > 180 {
		exitError("position out of range: %v, %v", createLat, createLon)
	}
	tags, err := parseTags(args)
	if err != nil {
		exitError("%v", err)
	}

	c := initContext()
	defer c.Close()

	action, err := edits.NewCreateNode(models.LatLon{Lat: createLat, Lon: createLon}, tags, c.Store)
	if err != nil {
		exitError("%v", err)
	}
	queueAction(c, action)
}
