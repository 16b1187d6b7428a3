package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

var testDialect = &Dialect{
	Name:            "test",
	TimestampFormat: "20060102150405",
	DateFormat:      "20060102",
	Types: map[core.BasicType]string{
		core.BasicString:   "text",
		core.BasicInt:      "integer",
		core.BasicInt64:    "bigint",
		core.BasicDouble:   "real",
		core.BasicDate:     "text",
		core.BasicDateTime: "text",
	},
	VarChar:          "varchar(%d)",
	AutoIncrement:    "integer PRIMARY KEY AUTOINCREMENT",
	TableExistsQuery: "SELECT name FROM sqlite_master WHERE type='table' AND name=%s",
}

func newMockBase(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{DB: db, SQLDialect: testDialect}, mock
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		expectErr bool
	}{
		{
			name:      "close with nil DB",
			setupDB:   false,
			expectErr: false,
		},
		{
			name:      "close with open DB",
			setupDB:   true,
			expectErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				db, mock, err := sqlmock.New()
				require.NoError(t, err)
				mock.ExpectClose()
				base.DB = db
			}

			err := base.Close()
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	tests := []struct {
		name      string
		setupDB   bool
		setupMock func(mock sqlmock.Sqlmock)
		sql       string
		want      int64
		expectErr bool
		errMsg    string
	}{
		{
			name:      "exec without connection",
			setupDB:   false,
			sql:       "SELECT 1",
			expectErr: true,
			errMsg:    "database connection not established",
		},
		{
			name:    "exec success",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("UPDATE users SET a=1").WillReturnResult(sqlmock.NewResult(0, 3))
			},
			sql:  "UPDATE users SET a=1",
			want: 3,
		},
		{
			name:    "exec with error",
			setupDB: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("INVALID SQL").WillReturnError(assert.AnError)
			},
			sql:       "INVALID SQL",
			expectErr: true,
			errMsg:    "failed to execute SQL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				var mock sqlmock.Sqlmock
				base, mock = newMockBase(t)
				if tt.setupMock != nil {
					tt.setupMock(mock)
				}
			}

			n, err := base.Exec(ctx, tt.sql)
			if tt.expectErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, n)
			}
		})
	}
}

func TestBaseSQLAdapter_Select(t *testing.T) {
	ctx := context.Background()
	base, mock := newMockBase(t)

	rows := sqlmock.NewRows([]string{"id", "name", "blob"}).
		AddRow(int64(1), "alice", []byte("x")).
		AddRow(int64(2), nil, nil)
	mock.ExpectQuery("SELECT id, name, blob FROM users").WillReturnRows(rows)

	rs, err := base.Select(ctx, "SELECT id, name, blob FROM users")
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())
	assert.Equal(t, []string{"id", "name", "blob"}, rs.Columns)

	name, ok := rs.Rows[0].String("name")
	assert.True(t, ok)
	assert.Equal(t, "alice", name)
	blob, ok := rs.Rows[0].Value("blob")
	assert.True(t, ok)
	assert.Equal(t, "x", blob, "bytes are converted to strings")

	_, ok = rs.Rows[1].String("name")
	assert.False(t, ok)

	mock.ExpectQuery("SELECT nope").WillReturnError(assert.AnError)
	_, err = base.Select(ctx, "SELECT nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute query")

	var empty BaseSQLAdapter
	_, err = empty.Select(ctx, "SELECT 1")
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseSQLAdapter_Transactions(t *testing.T) {
	ctx := context.Background()

	t.Run("commit routes statements through the transaction", func(t *testing.T) {
		base, mock := newMockBase(t)
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM t").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, base.Begin(ctx))
		assert.True(t, base.InTransaction())
		assert.ErrorIs(t, base.Begin(ctx), ErrTransactionActive)

		_, err := base.Exec(ctx, "DELETE FROM t")
		require.NoError(t, err)
		require.NoError(t, base.Commit(ctx))
		assert.False(t, base.InTransaction())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		base, mock := newMockBase(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		require.NoError(t, base.Begin(ctx))
		require.NoError(t, base.Rollback(ctx))
		assert.False(t, base.InTransaction())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without transaction", func(t *testing.T) {
		base, _ := newMockBase(t)
		assert.NoError(t, base.Rollback(ctx), "rollback without a transaction is a no-op")
		assert.True(t, errors.Is(base.Commit(ctx), ErrNoTransaction))
	})

	t.Run("begin failure", func(t *testing.T) {
		base, mock := newMockBase(t)
		mock.ExpectBegin().WillReturnError(assert.AnError)
		err := base.Begin(ctx)
		require.Error(t, err)
		assert.False(t, base.InTransaction())
	})
}

func TestBaseSQLAdapter_DDL(t *testing.T) {
	ctx := context.Background()
	base, mock := newMockBase(t)

	cols := []core.ColumnInfo{
		{Name: "guid", Type: core.BasicString, Size: 32, PrimaryKey: true, NotNull: true},
		{Name: "name", Type: core.BasicString, Size: 0},
		{Name: "amount_num", Type: core.BasicInt64, NotNull: true},
		{Name: "id", Type: core.BasicInt, AutoIncrement: true, PrimaryKey: true},
	}
	mock.ExpectExec("CREATE TABLE items(guid varchar(32) PRIMARY KEY NOT NULL, name text, amount_num bigint NOT NULL, id integer PRIMARY KEY AUTOINCREMENT)").
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, base.CreateTable(ctx, "items", cols))

	mock.ExpectExec("ALTER TABLE items ADD COLUMN a integer").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ALTER TABLE items ADD COLUMN b real").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, base.AddColumns(ctx, "items", []core.ColumnInfo{
		{Name: "a", Type: core.BasicInt},
		{Name: "b", Type: core.BasicDouble},
	}))

	mock.ExpectExec("CREATE INDEX items_name ON items(name, guid)").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, base.CreateIndex(ctx, "items_name", "items", []string{"name", "guid"}))

	mock.ExpectQuery("SELECT name FROM sqlite_master WHERE type='table' AND name='items'").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("items"))
	exists, err := base.TableExists(ctx, "items")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT name FROM sqlite_master WHERE type='table' AND name='gone'").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	exists, err = base.TableExists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Error(t, base.CreateTable(ctx, "empty", nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteValue(t *testing.T) {
	g, err := core.ParseGUID("6ba7b8109dad11d180b400c04fd430c8")
	require.NoError(t, err)
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: "NULL"},
		{name: "string", in: "plain", want: "'plain'"},
		{name: "embedded quote", in: "O'Brien", want: "'O''Brien'"},
		{name: "bytes", in: []byte("b"), want: "'b'"},
		{name: "true", in: true, want: "1"},
		{name: "false", in: false, want: "0"},
		{name: "int", in: 42, want: "42"},
		{name: "int32", in: int32(-7), want: "-7"},
		{name: "int64", in: int64(1) << 40, want: "1099511627776"},
		{name: "float", in: 0.5, want: "0.5"},
		{name: "time", in: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), want: "'20240102030405'"},
		{name: "date", in: core.NewDate(2024, time.March, 1), want: "'20240301'"},
		{name: "numeric", in: core.NewNumeric(1234, 100), want: "12.34"},
		{name: "guid", in: g, want: "'6ba7b8109dad11d180b400c04fd430c8'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteValue(tt.in, testDialect.TimestampFormat, testDialect.DateFormat))
		})
	}
}

func TestBaseSQLAdapter_IsConnected(t *testing.T) {
	tests := []struct {
		name     string
		setupDB  bool
		expected bool
	}{
		{
			name:     "not connected",
			setupDB:  false,
			expected: false,
		},
		{
			name:     "connected",
			setupDB:  true,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := &BaseSQLAdapter{}

			if tt.setupDB {
				base, _ = newMockBase(t)
			}

			assert.Equal(t, tt.expected, base.IsConnected())
		})
	}
}
