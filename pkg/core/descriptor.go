package core

import (
	"fmt"
	"strings"
)

// ColumnType tags a logical column with the codec that persists it.
type ColumnType string

// Built-in column types.
const (
	TypeString    ColumnType = "ct_string"
	TypeGUID      ColumnType = "ct_guid"
	TypeInt       ColumnType = "ct_int"
	TypeInt64     ColumnType = "ct_int64"
	TypeTimestamp ColumnType = "ct_timespec"
	TypeDate      ColumnType = "ct_gdate"
	TypeNumeric   ColumnType = "ct_numeric"
	TypeDouble    ColumnType = "ct_double"
	TypeBoolean   ColumnType = "ct_boolean"
)

// RefType returns the column type for a reference to entities of typeName.
// The codec for it is registered alongside the referenced module.
func RefType(typeName string) ColumnType {
	return ColumnType("ct_" + strings.ToLower(typeName) + "ref")
}

// ColumnFlags is a bitmask of column constraints.
type ColumnFlags uint8

// Column flags.
const (
	FlagPrimaryKey ColumnFlags = 1 << iota
	FlagNotNull
	FlagUnique
	FlagAutoIncrement
)

// Accessor reads and writes one logical field of an entity.
type Accessor struct {
	Get func(Entity) (any, error)
	Set func(Entity, any) error
}

// Bind builds an Accessor from typed getter and setter functions, usually
// method expressions such as (*Account).Name and (*Account).SetName.
// A nil set makes the field read-only for loads.
func Bind[E Entity, V any](get func(E) V, set func(E, V)) Accessor {
	acc := Accessor{
		Get: func(e Entity) (any, error) {
			t, ok := e.(E)
			if !ok {
				return nil, fmt.Errorf("%w: accessor expects %T, got %T", ErrConfiguration, *new(E), e)
			}
			return get(t), nil
		},
	}
	if set != nil {
		acc.Set = func(e Entity, v any) error {
			t, ok := e.(E)
			if !ok {
				return fmt.Errorf("%w: accessor expects %T, got %T", ErrConfiguration, *new(E), e)
			}
			val, ok := v.(V)
			if !ok {
				if v != nil {
					return fmt.Errorf("%w: accessor expects value %T, got %T", ErrConfiguration, *new(V), v)
				}
				var zero V
				val = zero
			}
			set(t, val)
			return nil
		}
	}
	return acc
}

// ColumnDescriptor describes one logical column of an entity table.
type ColumnDescriptor struct {
	Name   string
	Type   ColumnType
	Size   int
	Flags  ColumnFlags
	Access Accessor
}

// Has reports whether all of f are set on the column.
func (c ColumnDescriptor) Has(f ColumnFlags) bool {
	return c.Flags&f == f
}

// Get reads the column's field from e. Auto-increment columns have no field and yield nil.
func (c ColumnDescriptor) Get(e Entity) (any, error) {
	if c.Has(FlagAutoIncrement) || c.Access.Get == nil {
		return nil, nil
	}
	v, err := c.Access.Get(e)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", c.Name, err)
	}
	return v, nil
}

// Set writes v into the column's field of e. Columns without a setter ignore it.
func (c ColumnDescriptor) Set(e Entity, v any) error {
	if c.Has(FlagAutoIncrement) || c.Access.Set == nil {
		return nil
	}
	if err := c.Access.Set(e, v); err != nil {
		return fmt.Errorf("column %s: %w", c.Name, err)
	}
	return nil
}

// EntityDescriptor maps an entity type onto a table.
// The first column is the primary key.
type EntityDescriptor struct {
	TypeName string
	Table    string
	Columns  []ColumnDescriptor
}

// Key returns the primary key column.
func (d *EntityDescriptor) Key() ColumnDescriptor {
	return d.Columns[0]
}

// Column returns the column named name.
func (d *EntityDescriptor) Column(name string) (ColumnDescriptor, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

// Validate checks the structural rules every descriptor must satisfy.
func (d *EntityDescriptor) Validate() error {
	if d.Table == "" {
		return fmt.Errorf("%w: descriptor %q has no table", ErrConfiguration, d.TypeName)
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("%w: table %s has no columns", ErrConfiguration, d.Table)
	}
	if !d.Columns[0].Has(FlagPrimaryKey) {
		return fmt.Errorf("%w: first column of %s must be the primary key", ErrConfiguration, d.Table)
	}
	seen := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if c.Name == "" {
			return fmt.Errorf("%w: table %s has an unnamed column", ErrConfiguration, d.Table)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: table %s repeats column %s", ErrConfiguration, d.Table, c.Name)
		}
		seen[c.Name] = true
		if c.Type == "" {
			return fmt.Errorf("%w: column %s.%s has no type", ErrConfiguration, d.Table, c.Name)
		}
		if !c.Has(FlagAutoIncrement) && c.Access.Get == nil {
			return fmt.Errorf("%w: column %s.%s has no accessor", ErrConfiguration, d.Table, c.Name)
		}
	}
	return nil
}

// BasicType is a physical column type understood by every adapter.
type BasicType int

// Physical column types.
const (
	BasicString BasicType = iota
	BasicInt
	BasicInt64
	BasicDate
	BasicDouble
	BasicDateTime
)

func (t BasicType) String() string {
	switch t {
	case BasicString:
		return "string"
	case BasicInt:
		return "int"
	case BasicInt64:
		return "int64"
	case BasicDate:
		return "date"
	case BasicDouble:
		return "double"
	case BasicDateTime:
		return "datetime"
	default:
		return fmt.Sprintf("basic(%d)", int(t))
	}
}

// ColumnInfo describes one physical column for DDL.
type ColumnInfo struct {
	Name          string
	Type          BasicType
	Size          int
	Unicode       bool
	AutoIncrement bool
	PrimaryKey    bool
	NotNull       bool
}

// Pair is a physical column name with the value to store in it.
type Pair struct {
	Column string
	Value  any
}
