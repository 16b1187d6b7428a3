package codec

import (
	"fmt"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// RefCodec stores a reference to another entity as that entity's GUID.
// On load the GUID is resolved against already-loaded entities; an
// unresolvable GUID leaves the field unset.
type RefCodec struct {
	// TypeName is the referenced entity type.
	TypeName string
	// Resolve overrides the session lookup when set.
	Resolve func(env Env, id core.GUID) (core.Entity, bool)
}

// NewRefCodec returns a codec for references to typeName resolved through the session.
func NewRefCodec(typeName string) *RefCodec {
	return &RefCodec{TypeName: typeName}
}

// Load resolves the stored GUID and assigns the referenced entity.
func (c *RefCodec) Load(env Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error {
	id, ok := readGUID(env, row, col.Name)
	if !ok {
		return nil
	}
	var target core.Entity
	if c.Resolve != nil {
		target, ok = c.Resolve(env, id)
	} else if env != nil {
		target, ok = env.Resolve(c.TypeName, id)
	}
	if !ok || core.IsNil(target) {
		warn(env, "unresolved reference", "column", col.Name, "type", c.TypeName, "guid", id.String())
		return nil
	}
	return col.Set(e, target)
}

// Describe returns a single GUID-sized column.
func (c *RefCodec) Describe(col core.ColumnDescriptor) []core.ColumnInfo {
	return []core.ColumnInfo{guidInfo(col)}
}

// Serialize writes the referenced entity's GUID, or nothing for a nil reference.
func (c *RefCodec) Serialize(_ Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error) {
	v, err := col.Get(e)
	if err != nil || v == nil {
		return nil, err
	}
	target, ok := v.(core.Entity)
	if !ok {
		return nil, fmt.Errorf("%w: column %s holds %T, want an entity", core.ErrConfiguration, col.Name, v)
	}
	if core.IsNil(target) || target.GUID().IsZero() {
		return nil, nil
	}
	return []core.Pair{{Column: col.Name, Value: target.GUID().String()}}, nil
}
