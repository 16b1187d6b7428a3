package codec

import (
	"fmt"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// field reads col from e and asserts its type. A nil field reports ok=false.
func field[V any](col core.ColumnDescriptor, e core.Entity) (V, bool, error) {
	var zero V
	v, err := col.Get(e)
	if err != nil {
		return zero, false, err
	}
	if v == nil {
		return zero, false, nil
	}
	t, ok := v.(V)
	if !ok {
		return zero, false, fmt.Errorf("%w: column %s holds %T, want %T", core.ErrConfiguration, col.Name, v, zero)
	}
	return t, true, nil
}

type stringCodec struct{}

func (stringCodec) Load(_ Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	s, ok := row.String(col.Name)
	if !ok {
		return nil
	}
	return col.Set(e, s)
}

func (stringCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{basicInfo(col, core.BasicString, col.Size)}
}

func (stringCodec) Serialize(_ Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	s, ok, err := field[string](col, e)
	if err != nil || !ok {
		return nil, err
	}
	return []core.Pair{{Column: col.Name, Value: s}}, nil
}

// intCodec stores Go int fields. NULL loads as 0.
type intCodec struct{}

func (intCodec) Load(_ Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	n, _ := row.Int64(col.Name)
	return col.Set(e, int(n))
}

func (intCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{basicInfo(col, core.BasicInt, 0)}
}

func (intCodec) Serialize(_ Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	n, ok, err := field[int](col, e)
	if err != nil || !ok {
		return nil, err
	}
	return []core.Pair{{Column: col.Name, Value: int64(n)}}, nil
}

// int64Codec stores int64 fields. NULL loads as 0.
type int64Codec struct{}

func (int64Codec) Load(_ Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	n, _ := row.Int64(col.Name)
	return col.Set(e, n)
}

func (int64Codec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{basicInfo(col, core.BasicInt64, 0)}
}

func (int64Codec) Serialize(_ Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	n, ok, err := field[int64](col, e)
	if err != nil || !ok {
		return nil, err
	}
	return []core.Pair{{Column: col.Name, Value: n}}, nil
}

// boolCodec stores booleans as integers 0 and 1. NULL loads as false.
type boolCodec struct{}

func (boolCodec) Load(_ Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	n, _ := row.Int64(col.Name)
	return col.Set(e, n != 0)
}

func (boolCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{basicInfo(col, core.BasicInt, 0)}
}

func (boolCodec) Serialize(_ Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	b, ok, err := field[bool](col, e)
	if err != nil || !ok {
		return nil, err
	}
	var n int64
	if b {
		n = 1
	}
	return []core.Pair{{Column: col.Name, Value: n}}, nil
}

// doubleCodec stores float64 fields. NULL leaves the field unchanged.
type doubleCodec struct{}

func (doubleCodec) Load(_ Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	f, ok := row.Float64(col.Name)
	if !ok {
		return nil
	}
	return col.Set(e, f)
}

func (doubleCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{basicInfo(col, core.BasicDouble, 0)}
}

func (doubleCodec) Serialize(_ Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	f, ok, err := field[float64](col, e)
	if err != nil || !ok {
		return nil, err
	}
	return []core.Pair{{Column: col.Name, Value: f}}, nil
}
