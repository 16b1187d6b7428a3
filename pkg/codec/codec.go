package codec

import (
	"log/slog"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Env is what codecs need from the session that drives them.
type Env interface {
	// Resolve finds a loaded entity by type and identity.
	Resolve(typeName string, id core.GUID) (core.Entity, bool)
	// TimestampFormat is the time layout the connected backend stores.
	TimestampFormat() string
	// DateFormat is the date layout the connected backend stores.
	DateFormat() string
	Logger() *slog.Logger
}

// Codec persists one column type.
type Codec interface {
	// Load reads the column from row into e. Absent or NULL values apply the
	// type's NULL rule instead of failing.
	Load(env Env, row core.Row, col core.ColumnDescriptor, e core.Entity) error
	// Describe returns the physical columns that back col.
	Describe(col core.ColumnDescriptor) []core.ColumnInfo
	// Serialize returns the physical column/value pairs for e's field.
	// A nil or unset value yields no pairs.
	Serialize(env Env, col core.ColumnDescriptor, e core.Entity) ([]core.Pair, error)
}

func basicInfo(col core.ColumnDescriptor, t core.BasicType, size int) core.ColumnInfo {
	return core.ColumnInfo{
		Name:          col.Name,
		Type:          t,
		Size:          size,
		Unicode:       t == core.BasicString,
		AutoIncrement: col.Has(core.FlagAutoIncrement),
		PrimaryKey:    col.Has(core.FlagPrimaryKey),
		NotNull:       col.Has(core.FlagNotNull),
	}
}

func warn(env Env, msg string, args ...any) {
	if env == nil || env.Logger() == nil {
		return
	}
	env.Logger().Warn(msg, args...)
}
