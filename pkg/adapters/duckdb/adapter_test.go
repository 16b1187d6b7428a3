package duckdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

func TestAdapter_Connect(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "book.duckdb")

	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: path}))
	assert.True(t, adp.IsConnected())
	require.NoError(t, adp.Close())

	_, err := os.Stat(path)
	assert.NoError(t, err, "database file is created")
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	_, err := adp.Exec(ctx, "SELECT 1")
	assert.Error(t, err)
	_, err = adp.Select(ctx, "SELECT 1")
	assert.Error(t, err)
	assert.Error(t, adp.Begin(ctx))
	assert.NoError(t, adp.Close(), "closing an unopened adapter is a no-op")
}

func TestAdapter_TableLifecycle(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	exists, err := adp.TableExists(ctx, "prices")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, adp.CreateTable(ctx, "prices", []core.ColumnInfo{
		{Name: "guid", Type: core.BasicString, Size: core.GUIDLength, PrimaryKey: true, NotNull: true},
		{Name: "day", Type: core.BasicDate},
		{Name: "at", Type: core.BasicDateTime},
		{Name: "value_num", Type: core.BasicInt64},
	}))

	exists, err = adp.TableExists(ctx, "prices")
	require.NoError(t, err)
	assert.True(t, exists)

	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	_, err = adp.Exec(ctx, "INSERT INTO prices VALUES ("+
		adp.Quote("a")+", "+adp.Quote(core.NewDate(2024, time.May, 1))+", "+adp.Quote(at)+", "+adp.Quote(int64(15))+")")
	require.NoError(t, err)

	rs, err := adp.Select(ctx, "SELECT * FROM prices")
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	got, ok := rs.Rows[0].Time("at")
	require.True(t, ok)
	assert.True(t, at.Equal(got))
	n, ok := rs.Rows[0].Int64("value_num")
	require.True(t, ok)
	assert.Equal(t, int64(15), n)
}

func TestAdapter_Transactions(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	require.NoError(t, adp.Connect(ctx, core.AdapterConfig{Path: ":memory:"}))
	defer func() { _ = adp.Close() }()

	_, err := adp.Exec(ctx, "CREATE TABLE t (id INTEGER)")
	require.NoError(t, err)

	require.NoError(t, adp.Begin(ctx))
	assert.ErrorIs(t, adp.Begin(ctx), adapter.ErrTransactionActive)
	_, err = adp.Exec(ctx, "INSERT INTO t VALUES (1)")
	require.NoError(t, err)
	require.NoError(t, adp.Rollback(ctx))

	rs, err := adp.Select(ctx, "SELECT * FROM t")
	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len(), "rolled back insert is gone")
}

func TestConnect_WithSettings(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	cfg := core.AdapterConfig{
		Path: ":memory:",
		Params: map[string]any{
			"settings": map[string]any{
				"threads": "2",
			},
		},
	}

	err := adp.Connect(ctx, cfg)
	require.NoError(t, err)
	defer func() { _ = adp.Close() }()

	// Verify setting was applied
	rs, err := adp.Select(ctx, "SELECT current_setting('threads') AS threads")
	require.NoError(t, err)
	require.Equal(t, 1, rs.Len())

	threads, ok := rs.Rows[0].Int64("threads")
	require.True(t, ok)
	assert.Equal(t, int64(2), threads)
}

func TestConnect_WithInvalidParams(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)

	err := adp.Connect(ctx, core.AdapterConfig{
		Path:   ":memory:",
		Params: map[string]any{"unknown_key": true},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duckdb params")
	assert.False(t, adp.IsConnected())
}

func TestAdapter_Registry(t *testing.T) {
	factory, ok := adapter.Lookup("duckdb")
	require.True(t, ok)
	adp, ok := factory(nil).(*Adapter)
	require.True(t, ok)
	assert.Equal(t, "duckdb", adp.Dialect().Name)
}
