package adapter

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Dialect holds the per-database pieces of DDL and literal formatting.
type Dialect struct {
	Name string

	// TimestampFormat and DateFormat are the text layouts written for
	// timestamp and date columns.
	TimestampFormat string
	DateFormat      string

	// Types maps physical types to SQL type names.
	Types map[core.BasicType]string
	// VarChar is the format for sized strings, e.g. "varchar(%d)".
	VarChar string
	// AutoIncrement is the full column definition suffix for auto-increment keys.
	AutoIncrement string

	// TableExistsQuery is a format taking the quoted table name.
	// The query returns a row when the table exists.
	TableExistsQuery string
}

// ColumnDDL renders one column definition.
func (d *Dialect) ColumnDDL(info core.ColumnInfo) string {
	var sb strings.Builder
	sb.WriteString(info.Name)
	sb.WriteByte(' ')
	if info.AutoIncrement && d.AutoIncrement != "" {
		sb.WriteString(d.AutoIncrement)
		return sb.String()
	}
	sb.WriteString(d.TypeName(info))
	if info.PrimaryKey {
		sb.WriteString(" PRIMARY KEY")
	}
	if info.NotNull {
		sb.WriteString(" NOT NULL")
	}
	return sb.String()
}

// TypeName returns the SQL type for a physical column.
func (d *Dialect) TypeName(info core.ColumnInfo) string {
	if info.Type == core.BasicString && info.Size > 0 && d.VarChar != "" {
		return fmt.Sprintf(d.VarChar, info.Size)
	}
	if name, ok := d.Types[info.Type]; ok {
		return name
	}
	return "text"
}
