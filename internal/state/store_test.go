package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/internal/testutil"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	require.NoError(t, store.Open(":memory:"))
	require.NoError(t, store.InitSchema())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_OpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store := NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	require.NoError(t, store.InitSchema())
	assert.Equal(t, path, store.Path())

	version, err := store.MigrationVersion()
	require.NoError(t, err)
	assert.EqualValues(t, 2, version)
	require.NoError(t, store.Close())

	// Reopening applies nothing new.
	store = NewSQLiteStore(nil)
	require.NoError(t, store.Open(path))
	defer func() { _ = store.Close() }()
	require.NoError(t, store.InitSchema())
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)
	_, err := store.CreateRun(core.RunKindLoad, "book.db")
	assert.Error(t, err)
	assert.Error(t, store.InitSchema())
	assert.NoError(t, store.Close())
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	tests := []struct {
		name    string
		status  core.RunStatus
		objects int
		errMsg  string
	}{
		{name: "completed", status: core.RunStatusCompleted, objects: 42},
		{name: "failed", status: core.RunStatusFailed, errMsg: "disk full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := setupTestStore(t)

			run, err := store.CreateRun(core.RunKindSave, "book.db")
			require.NoError(t, err)
			assert.Equal(t, core.RunStatusRunning, run.Status)
			assert.NotEmpty(t, run.ID)

			require.NoError(t, store.CompleteRun(run.ID, tt.status, tt.objects, tt.errMsg))

			got, err := store.GetRun(run.ID)
			require.NoError(t, err)
			assert.Equal(t, core.RunKindSave, got.Kind)
			assert.Equal(t, "book.db", got.Target)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.objects, got.Objects)
			assert.Equal(t, tt.errMsg, got.Error)
			require.NotNil(t, got.CompletedAt)
			assert.False(t, got.CompletedAt.Before(got.StartedAt))
			assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Microsecond)
		})
	}
}

func TestSQLiteStore_MissingRun(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetRun("nope")
	assert.ErrorContains(t, err, "run not found")
	assert.ErrorContains(t, store.CompleteRun("nope", core.RunStatusCompleted, 0, ""), "run not found")
}

func TestSQLiteStore_LatestAndList(t *testing.T) {
	store := setupTestStore(t)

	latest, err := store.GetLatestRun("book.db")
	require.NoError(t, err)
	assert.Nil(t, latest)

	var ids []string
	for _, kind := range []core.RunKind{core.RunKindCreate, core.RunKindSave, core.RunKindLoad} {
		run, err := store.CreateRun(kind, "book.db")
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}
	_, err = store.CreateRun(core.RunKindQuery, "other.db")
	require.NoError(t, err)

	latest, err = store.GetLatestRun("book.db")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, ids[2], latest.ID)
	assert.Equal(t, core.RunKindLoad, latest.Kind)

	all, err := store.ListRuns(0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, core.RunKindQuery, all[0].Kind)

	two, err := store.ListRuns(2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}
