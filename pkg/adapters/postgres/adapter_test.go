package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// newMocked returns an adapter whose connection is a sqlmock database.
func newMocked(t *testing.T) (*Adapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	adp := New(nil)
	adp.DB = db
	t.Cleanup(func() { _ = adp.Close() })
	return adp, mock
}

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name   string
		config adapter.Config
		want   string
	}{
		{
			name:   "defaults",
			config: adapter.Config{Database: "books"},
			want:   "host=localhost port=5432 dbname=books sslmode=disable",
		},
		{
			name: "credentials and sslmode",
			config: adapter.Config{
				Host: "ledger.internal", Port: 5433, Database: "books",
				Username: "clerk", Password: "s3cret",
				Options: map[string]string{"sslmode": "verify-full"},
			},
			want: "host=ledger.internal port=5433 dbname=books sslmode=verify-full user=clerk password=s3cret",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildPostgresDSN(tt.config))
		})
	}
}

func TestAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	adp := New(nil)
	assert.False(t, adp.IsConnected())

	_, err := adp.Exec(ctx, "SELECT 1")
	assert.ErrorContains(t, err, "not established")
	_, err = adp.TableExists(ctx, "accounts")
	assert.ErrorContains(t, err, "not established")
	assert.NoError(t, adp.Close())
}

func TestAdapter_TableExists(t *testing.T) {
	adp, mock := newMocked(t)
	mock.ExpectQuery("SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = 'accounts'").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("accounts"))

	ok, err := adp.TableExists(context.Background(), "accounts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CreateTable(t *testing.T) {
	adp, mock := newMocked(t)
	mock.ExpectExec("CREATE TABLE prices(guid varchar(32) PRIMARY KEY NOT NULL, date timestamp without time zone, value_num bigint NOT NULL)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adp.CreateTable(context.Background(), "prices", []core.ColumnInfo{
		{Name: "guid", Type: core.BasicString, Size: core.GUIDLength, PrimaryKey: true, NotNull: true},
		{Name: "date", Type: core.BasicDateTime},
		{Name: "value_num", Type: core.BasicInt64, NotNull: true},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDialect_ColumnDDL(t *testing.T) {
	tests := []struct {
		name string
		info core.ColumnInfo
		want string
	}{
		{name: "unsized text", info: core.ColumnInfo{Name: "notes", Type: core.BasicString}, want: "notes text"},
		{name: "serial", info: core.ColumnInfo{Name: "id", Type: core.BasicInt, AutoIncrement: true, PrimaryKey: true}, want: "id SERIAL PRIMARY KEY"},
		{name: "double", info: core.ColumnInfo{Name: "rate", Type: core.BasicDouble}, want: "rate double precision"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SQL.ColumnDDL(tt.info))
		})
	}
}

func TestAdapter_Quote(t *testing.T) {
	adp := New(nil)
	at := time.Date(2024, time.May, 1, 12, 30, 0, 0, time.UTC)

	assert.Equal(t, "'2024-05-01 12:30:00'", adp.Quote(at))
	assert.Equal(t, "'2024-05-01'", adp.Quote(core.NewDate(2024, time.May, 1)))
	assert.Equal(t, "'O''Hara'", adp.Quote("O'Hara"))
}

func TestAdapter_Registry(t *testing.T) {
	factory, ok := adapter.Lookup("postgres")
	require.True(t, ok)
	pg, ok := factory(nil).(*Adapter)
	require.True(t, ok)
	assert.Equal(t, "postgres", pg.Dialect().Name)
}
