package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		lines = append(lines, m)
	}
	return lines
}

func TestEditLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "info", Output: &buf})

	el := l.EditLogger("abc", "delete_poi_node")
	el.LogApplied(2*time.Millisecond, 1)
	el.LogConflict("element_deleted", errors.New("gone"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "edits", lines[0]["component"])
	assert.Equal(t, "abc", lines[0]["edit"])
	assert.Equal(t, "delete_poi_node", lines[0]["action"])
	assert.Equal(t, "edit applied", lines[0]["message"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "element_deleted", lines[1]["conflict"])
	assert.Equal(t, "gone", lines[1]["error"])
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "warn", Output: &buf})

	l.EditLogger("abc", "create_node").LogApplied(time.Millisecond, 1)
	assert.Empty(t, buf.String())

	l.Error().Msg("boom")
	assert.Contains(t, buf.String(), "boom")
}

func TestNewLogger_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "loud", Output: &buf})

	l.Debug().Msg("hidden")
	l.EditLogger("abc", "create_node").LogApplied(time.Millisecond, 1)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "info", lines[0]["level"])
}

func TestStoreLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(Config{Level: "debug", Output: &buf})

	sl := l.StoreLogger()
	sl.Debug().Msg("committed")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "store", lines[0]["component"])
}
