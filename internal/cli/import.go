package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Import map data",
	Long: `Import elements from JSON files into the workspace. Each file holds
{"elements": [...]} with nodes, ways and relations. Existing elements
with the same type and id are replaced.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runImport,
}

// maxDecodeWorkers bounds the number of files decoded at once
const maxDecodeWorkers = 4

// mapDataFile is the import file format
type mapDataFile struct {
	Elements []*models.Element `json:"elements"`
}

func runImport(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	c := initContext()
	defer c.Close()

	els, err := loadElementFiles(ctx, args)
	if err != nil {
		exitError("%v", err)
	}

	if err := c.Store.PutElements(ctx, els); err != nil {
		exitError("failed to import elements: %v", err)
	}
	if err := c.Store.SetValue(lastImportKey, time.Now().UTC().Format(time.RFC3339)+" "+strings.Join(args, ", ")); err != nil {
		exitError("failed to record import: %v", err)
	}

	color.New(color.FgGreen).Printf("Imported %d elements from %d files\n", len(els), len(args))
}

const lastImportKey = "last_import"

// loadElementFiles decodes all files concurrently and returns their elements
// in argument order.
func loadElementFiles(ctx context.Context, paths []string) ([]*models.Element, error) {
	results := make([][]*models.Element, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDecodeWorkers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			els, err := loadElementFile(path)
			if err != nil {
				return err
			}
			results[i] = els
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []*models.Element
	for _, els := range results {
		all = append(all, els...)
	}
	return all, nil
}

func loadElementFile(path string) ([]*models.Element, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var file mapDataFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, el := range file.Elements {
		if el == nil || !el.Type.Valid() {
			return nil, fmt.Errorf("%s: invalid element", path)
		}
		if el.Type == models.ElementNode && el.Position == nil {
			return nil, fmt.Errorf("%s: %s has no position", path, el.Key())
		}
		if el.Version == 0 {
			el.Version = 1
		}
	}
	return file.Elements, nil
}
