package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Transaction errors.
var (
	ErrTransactionActive = errors.New("transaction already in progress")
	ErrNoTransaction     = errors.New("no transaction in progress")
)

var errNotConnected = errors.New("database connection not established")

type execQueryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get the whole
// Connection implementation; adapters only open DB and pick a Dialect.
type BaseSQLAdapter struct {
	DB         *sql.DB
	Cfg        core.AdapterConfig
	Logger     *slog.Logger
	SQLDialect *Dialect

	txMu sync.Mutex
	tx   *sql.Tx
}

// Close closes the database connection, rolling back any open transaction.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.log().Debug("closing database connection")
		b.txMu.Lock()
		if b.tx != nil {
			_ = b.tx.Rollback()
			b.tx = nil
		}
		b.txMu.Unlock()
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Dialect returns the adapter's dialect.
func (b *BaseSQLAdapter) Dialect() *Dialect {
	return b.SQLDialect
}

// Begin opens a transaction.
func (b *BaseSQLAdapter) Begin(ctx context.Context) error {
	if b.DB == nil {
		return errNotConnected
	}
	b.txMu.Lock()
	defer b.txMu.Unlock()
	if b.tx != nil {
		return ErrTransactionActive
	}
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	b.tx = tx
	return nil
}

// Commit commits the open transaction.
func (b *BaseSQLAdapter) Commit(_ context.Context) error {
	b.txMu.Lock()
	defer b.txMu.Unlock()
	if b.tx == nil {
		return ErrNoTransaction
	}
	err := b.tx.Commit()
	b.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the open transaction, if any.
func (b *BaseSQLAdapter) Rollback(_ context.Context) error {
	b.txMu.Lock()
	defer b.txMu.Unlock()
	if b.tx == nil {
		return nil
	}
	err := b.tx.Rollback()
	b.tx = nil
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// InTransaction reports whether a transaction is open.
func (b *BaseSQLAdapter) InTransaction() bool {
	b.txMu.Lock()
	defer b.txMu.Unlock()
	return b.tx != nil
}

func (b *BaseSQLAdapter) conn() (execQueryer, error) {
	if b.DB == nil {
		return nil, errNotConnected
	}
	b.txMu.Lock()
	defer b.txMu.Unlock()
	if b.tx != nil {
		return b.tx, nil
	}
	return b.DB, nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) (int64, error) {
	c, err := b.conn()
	if err != nil {
		return 0, err
	}
	b.log().Debug("exec", "sql", sqlStr)
	res, err := c.ExecContext(ctx, sqlStr)
	if err != nil {
		return 0, fmt.Errorf("failed to execute SQL: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// Select executes a query and reads every row into memory.
// Byte slices are converted to strings.
func (b *BaseSQLAdapter) Select(ctx context.Context, sqlStr string) (*core.ResultSet, error) {
	c, err := b.conn()
	if err != nil {
		return nil, err
	}
	b.log().Debug("select", "sql", sqlStr)
	rows, err := c.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	rs := &core.ResultSet{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(core.MapRow, len(cols))
		for i, name := range cols {
			v := vals[i]
			if bs, ok := v.([]byte); ok {
				v = string(bs)
			}
			row[name] = v
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return rs, nil
}

// TableExists reports whether name is a table in the current schema.
func (b *BaseSQLAdapter) TableExists(ctx context.Context, name string) (bool, error) {
	if b.SQLDialect == nil || b.SQLDialect.TableExistsQuery == "" {
		return false, fmt.Errorf("adapter has no table lookup query")
	}
	rs, err := b.Select(ctx, fmt.Sprintf(b.SQLDialect.TableExistsQuery, b.Quote(name)))
	if err != nil {
		return false, err
	}
	return rs.Len() > 0, nil
}

// CreateTable creates a table from physical column descriptions.
func (b *BaseSQLAdapter) CreateTable(ctx context.Context, name string, cols []core.ColumnInfo) error {
	if len(cols) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}
	defs := make([]string, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, b.dialect().ColumnDDL(c))
	}
	_, err := b.Exec(ctx, "CREATE TABLE "+name+"("+strings.Join(defs, ", ")+")")
	return err
}

// AddColumns adds each column with its own ALTER TABLE statement.
func (b *BaseSQLAdapter) AddColumns(ctx context.Context, table string, cols []core.ColumnInfo) error {
	for _, c := range cols {
		if _, err := b.Exec(ctx, "ALTER TABLE "+table+" ADD COLUMN "+b.dialect().ColumnDDL(c)); err != nil {
			return err
		}
	}
	return nil
}

// CreateIndex creates a non-unique index on table.
func (b *BaseSQLAdapter) CreateIndex(ctx context.Context, index, table string, cols []string) error {
	_, err := b.Exec(ctx, "CREATE INDEX "+index+" ON "+table+"("+strings.Join(cols, ", ")+")")
	return err
}

// Quote renders v as a SQL literal.
func (b *BaseSQLAdapter) Quote(v any) string {
	return QuoteValue(v, b.TimestampFormat(), b.DateFormat())
}

// TimestampFormat returns the dialect's timestamp layout.
func (b *BaseSQLAdapter) TimestampFormat() string {
	return b.dialect().TimestampFormat
}

// DateFormat returns the dialect's date layout.
func (b *BaseSQLAdapter) DateFormat() string {
	return b.dialect().DateFormat
}

func (b *BaseSQLAdapter) dialect() *Dialect {
	if b.SQLDialect == nil {
		return defaultDialect
	}
	return b.SQLDialect
}

func (b *BaseSQLAdapter) log() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

var defaultDialect = &Dialect{
	Name:            "ansi",
	TimestampFormat: "2006-01-02 15:04:05",
	DateFormat:      "2006-01-02",
	Types: map[core.BasicType]string{
		core.BasicString:   "text",
		core.BasicInt:      "integer",
		core.BasicInt64:    "bigint",
		core.BasicDouble:   "double precision",
		core.BasicDate:     "date",
		core.BasicDateTime: "timestamp",
	},
	VarChar: "varchar(%d)",
}

// QuoteValue renders v as a SQL literal. Strings are single-quoted with
// embedded quotes doubled; nil renders as NULL.
func QuoteValue(v any, timestampFormat, dateFormat string) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return quoteString(x)
	case []byte:
		return quoteString(string(x))
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return quoteString(x.UTC().Format(timestampFormat))
	case core.Date:
		return quoteString(x.Format(dateFormat))
	case core.Numeric:
		return x.DecimalString()
	case core.GUID:
		return quoteString(x.String())
	case fmt.Stringer:
		return quoteString(x.String())
	default:
		return quoteString(fmt.Sprint(x))
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
