package codec

import (
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// guidCodec stores identities as 32 hex digits. A nil GUID is not written.
type guidCodec struct{}

func (guidCodec) Load(env Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	g, ok := readGUID(env, row, col.Name)
	if !ok {
		return nil
	}
	return col.Set(e, g)
}

func (guidCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{guidInfo(col)}
}

func (guidCodec) Serialize(_ Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	g, ok, err := field[core.GUID](col, e)
	if err != nil || !ok || g.IsZero() {
		return nil, err
	}
	return []core.Pair{{Column: col.Name, Value: g.String()}}, nil
}

func guidInfo(col core.ColumnDescriptor) core.ColumnInfo {
	info := basicInfo(col, core.BasicString, core.GUIDLength)
	info.Unicode = false
	return info
}

// readGUID parses a GUID column, warning about malformed text.
func readGUID(env Env, row core.Row, name string) (core.GUID, bool) {
	s, ok := row.String(name)
	if !ok || s == "" {
		return core.NilGUID, false
	}
	g, err := core.ParseGUID(s)
	if err != nil {
		warn(env, "skipping malformed guid", "column", name, "value", s)
		return core.NilGUID, false
	}
	return g, true
}

// ReadGUID reads the GUID stored in column name, if any.
func ReadGUID(env Env, row core.Row, name string) (core.GUID, bool) {
	return readGUID(env, row, name)
}
