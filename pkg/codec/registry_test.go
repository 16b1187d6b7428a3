package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewStandardRegistry(nil)

	for _, typ := range []core.ColumnType{
		core.TypeString, core.TypeGUID, core.TypeInt, core.TypeInt64, core.TypeBoolean,
		core.TypeDouble, core.TypeTimestamp, core.TypeDate, core.TypeNumeric,
	} {
		t.Run(string(typ), func(t *testing.T) {
			c, err := r.Lookup(typ)
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}

	_, err := r.Lookup("ct_missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
	var unknown *UnknownTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, core.ColumnType("ct_missing"), unknown.Type)
	assert.Contains(t, unknown.Available, core.TypeString)
}

func TestRegistry_EmptyHasNoCodecs(t *testing.T) {
	r := NewRegistry(nil)
	assert.Empty(t, r.Types())
	_, err := r.Lookup(core.TypeString)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestRegistry_ReplaceKeepsLatest(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(core.TypeString, stringCodec{})
	ref := NewRefCodec("Widget")
	r.Register(core.TypeString, ref)
	c, err := r.Lookup(core.TypeString)
	require.NoError(t, err)
	assert.Same(t, ref, c)
}

func TestRegistry_Validate(t *testing.T) {
	r := newTestRegistry()
	key := core.ColumnDescriptor{
		Name: "guid", Type: core.TypeGUID, Flags: core.FlagPrimaryKey,
		Access: core.Bind(func(w *widget) core.GUID { return w.GUID() }, func(w *widget, g core.GUID) { w.SetGUID(g) }),
	}

	ok := &core.EntityDescriptor{TypeName: "Widget", Table: "widgets", Columns: append([]core.ColumnDescriptor{key}, widgetColumns()...)}
	require.NoError(t, r.Validate(ok))

	infos, err := r.Describe(ok)
	require.NoError(t, err)
	assert.Len(t, infos, len(ok.Columns)+1, "numeric expands into two columns")

	bad := &core.EntityDescriptor{TypeName: "Widget", Table: "widgets", Columns: []core.ColumnDescriptor{
		key,
		{Name: "x", Type: "ct_nope", Access: key.Access},
	}}
	err = r.Validate(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}
