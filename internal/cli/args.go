package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kilupskalvis/mapedit/internal/changes"
	"github.com/kilupskalvis/mapedit/internal/models"
	"github.com/kilupskalvis/mapedit/internal/sided"
)

// parseElementKey accepts "type/id" or, for nodes, a bare id
func parseElementKey(s string) (models.ElementKey, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.ElementKey{Type: models.ElementNode, ID: id}, nil
	}
	return models.ParseElementKey(s)
}

// applyTagArgs applies "key=value" (set) and "key-" (remove) arguments to b.
// With today set, values are set along with their check date.
func applyTagArgs(b *changes.Builder, args []string, today string) error {
	for _, arg := range args {
		if key, value, ok := strings.Cut(arg, "="); ok {
			if key == "" {
				return fmt.Errorf("invalid tag %q: empty key", arg)
			}
			if today != "" {
				sided.UpdateWithCheckDate(b, key, value, today)
			} else {
				b.Set(key, value)
			}
			continue
		}
		if key, ok := strings.CutSuffix(arg, "-"); ok && key != "" {
			b.Remove(key)
			continue
		}
		return fmt.Errorf("invalid tag %q: expected key=value or key-", arg)
	}
	return nil
}

// parseTags parses "key=value" arguments
func parseTags(args []string) (map[string]string, error) {
	tags := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid tag %q: expected key=value", arg)
		}
		tags[key] = value
	}
	return tags, nil
}
