package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestLog_RecordAndList(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	first := &Entry{EditID: "e1", ActionType: "delete_poi_node", ElementKey: "node/1", Outcome: OutcomeApplied, Duration: 3 * time.Millisecond}
	second := &Entry{EditID: "e2", ActionType: "update_element_tags", ElementKey: "way/2", Outcome: OutcomeConflicted, Detail: "element deleted"}
	require.NoError(t, l.Record(ctx, first))
	require.NoError(t, l.Record(ctx, second))
	assert.NotZero(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	entries, err := l.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "e2", entries[0].EditID)
	assert.Equal(t, OutcomeConflicted, entries[0].Outcome)
	assert.Equal(t, "element deleted", entries[0].Detail)
	assert.Equal(t, 3*time.Millisecond, entries[1].Duration)
	assert.WithinDuration(t, first.CreatedAt, entries[1].CreatedAt, time.Millisecond)

	entries, err = l.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e2", entries[0].EditID)
}

func TestLog_ForElement(t *testing.T) {
	l := newTestLog(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, &Entry{EditID: "a", ActionType: "x", ElementKey: "node/1", Outcome: OutcomeApplied}))
	require.NoError(t, l.Record(ctx, &Entry{EditID: "b", ActionType: "x", ElementKey: "node/2", Outcome: OutcomeApplied}))
	require.NoError(t, l.Record(ctx, &Entry{EditID: "c", ActionType: "x", ElementKey: "node/1", Outcome: OutcomeUndone}))

	entries, err := l.ForElement(ctx, "node/1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "c", entries[0].EditID)
	assert.Equal(t, "a", entries[1].EditID)
}

func TestLog_MigratesV1Database(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	// a database as written before durations were recorded
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	l := &Log{db: db}
	_, err = db.Exec(`CREATE TABLE history_schema_version (version INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	require.NoError(t, l.migrateToV1())
	_, err = db.Exec(`INSERT INTO edit_history (edit_id, action_type, element_key, outcome, created_at)
		VALUES ('old', 'create_node', 'node/9', 'applied', '2024-05-01 12:00:00')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	l, err = Open(dbPath)
	require.NoError(t, err)
	defer l.Close()

	version, err := l.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
	assert.True(t, l.columnExists("edit_history", "duration_ms"))

	entries, err := l.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), entries[0].CreatedAt)
	assert.Zero(t, entries[0].Duration)
}
