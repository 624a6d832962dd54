// Command mapedit edits map data through a queue of conflict-checked edits.
package main

import (
	"os"

	"github.com/kilupskalvis/mapedit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
