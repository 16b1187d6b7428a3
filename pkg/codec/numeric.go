package codec

import (
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Physical column suffixes for numerics.
const (
	NumSuffix   = "_num"
	DenomSuffix = "_denom"
)

// numericCodec splits a core.Numeric into <name>_num and <name>_denom.
// A missing numerator loads as core.UnsetNumeric and an unset value writes
// nothing.
type numericCodec struct{}

func (numericCodec) Load(_ Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	num, ok := row.Int64(col.Name + NumSuffix)
	if !ok {
		return col.Set(e, core.UnsetNumeric())
	}
	denom, ok := row.Int64(col.Name + DenomSuffix)
	if !ok || denom == 0 {
		denom = 1
	}
	return col.Set(e, core.NewNumeric(num, denom))
}

func (numericCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	num := basicInfo(col, core.BasicInt64, 0)
	num.Name = col.Name + NumSuffix
	num.AutoIncrement = false
	denom := num
	denom.Name = col.Name + DenomSuffix
	return []core.ColumnInfo{num, denom}
}

func (numericCodec) Serialize(_ Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	n, ok, err := field[core.Numeric](col, e)
	if err != nil || !ok || n.IsUnset() {
		return nil, err
	}
	return []core.Pair{
		{Column: col.Name + NumSuffix, Value: n.Num},
		{Column: col.Name + DenomSuffix, Value: n.Denominator()},
	}, nil
}
