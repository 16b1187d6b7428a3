package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

func TestCommitEdit_CleanTouchesNothing(t *testing.T) {
	b, conn, _ := newTestBackend(t, itemHandler())
	it := newItem("Widget")
	it.MarkClean()

	require.NoError(t, b.CommitEdit(context.Background(), it))
	assert.Empty(t, conn.calls)
	assert.Equal(t, core.Clean, it.State())
}

func TestCommitEdit_Operations(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(it *item)
		verb    string
	}{
		{"infant inserts", func(*item) {}, "INSERT INTO items("},
		{"dirty updates", func(it *item) { it.MarkClean(); it.MarkDirty() }, "UPDATE items SET "},
		{"destroying deletes", func(it *item) { it.Destroy() }, "DELETE FROM items WHERE "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, conn, book := newTestBackend(t, itemHandler())
			it := newItem("Widget")
			tt.prepare(it)

			require.NoError(t, b.CommitEdit(context.Background(), it))
			require.Len(t, conn.calls, 3)
			assert.Equal(t, "BEGIN", conn.calls[0])
			assert.Contains(t, conn.calls[1], tt.verb)
			assert.Equal(t, "COMMIT", conn.calls[2])
			assert.Equal(t, core.Clean, it.State())
			assert.False(t, book.SessionDirty())
		})
	}
}

func TestCommitEdit_DestroyedLeavesBook(t *testing.T) {
	b, _, book := newTestBackend(t, itemHandler())
	it := newItem("Widget")
	book.Add(it)
	it.Destroy()

	require.NoError(t, b.CommitEdit(context.Background(), it))
	_, ok := book.Lookup("Item", it.GUID())
	assert.False(t, ok)
}

func TestCommitEdit_UnknownType(t *testing.T) {
	b, conn, book := newTestBackend(t)
	it := newItem("Widget")

	err := b.CommitEdit(context.Background(), it)
	require.ErrorIs(t, err, core.ErrUnknownType)
	assert.Equal(t, []string{"BEGIN", "ROLLBACK"}, conn.calls)
	assert.Equal(t, core.Clean, it.State())
	assert.False(t, book.SessionDirty())
}

func TestCommitEdit_HandlerFailureRollsBack(t *testing.T) {
	b, conn, book := newTestBackend(t, itemHandler())
	conn.failOn = "INSERT INTO items"
	it := newItem("Widget")

	err := b.CommitEdit(context.Background(), it)
	require.ErrorIs(t, err, core.ErrStorage)
	require.Len(t, conn.calls, 3)
	assert.Equal(t, "ROLLBACK", conn.calls[2])
	assert.Equal(t, core.Infant, it.State())
	assert.True(t, book.SessionDirty())
	assert.Error(t, b.LastError())
}

func TestCommitEdit_ReadOnlyBook(t *testing.T) {
	b, conn, book := newTestBackend(t, itemHandler())
	book.readOnly = true

	err := b.CommitEdit(context.Background(), newItem("Widget"))
	require.ErrorIs(t, err, core.ErrReadOnly)
	assert.Empty(t, conn.calls)
	require.ErrorIs(t, b.LastError(), core.ErrReadOnly)
}

func TestCommitEdit_WhileLoadingOnlyMarksClean(t *testing.T) {
	b, conn, _ := newTestBackend(t, itemHandler())
	b.state = core.SessionLoading
	it := newItem("Widget")

	require.NoError(t, b.CommitEdit(context.Background(), it))
	assert.Empty(t, conn.calls)
	assert.Equal(t, core.Clean, it.State())
}

func TestCommitEdit_NilEntity(t *testing.T) {
	b, _, _ := newTestBackend(t)
	var it *item
	require.ErrorIs(t, b.CommitEdit(context.Background(), it), core.ErrConfiguration)
}

func TestBeginAndRollbackEdit(t *testing.T) {
	b, conn, _ := newTestBackend(t)
	it := newItem("Widget")

	require.NoError(t, b.BeginEdit(context.Background(), it))
	require.NoError(t, b.RollbackEdit(context.Background(), it))
	assert.Empty(t, conn.calls)
}
