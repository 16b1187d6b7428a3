package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/config"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/internal/modules"
	"github.com/leapstack-labs/leapstore/internal/testutil"
	"github.com/leapstack-labs/leapstore/pkg/codec"
	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/leapstack-labs/leapstore/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewQueryCommand(t *testing.T) {
	cmd := NewQueryCommand()

	assert.Equal(t, "query", cmd.Name())
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("sql"))
}

func TestNewSaveCommand(t *testing.T) {
	cmd := NewSaveCommand()

	assert.Equal(t, "save", cmd.Use)
	for _, flag := range []string{"transactions", "start"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestParseQuery(t *testing.T) {
	desc, err := descriptorFor(ledger.TypeTransaction)
	require.NoError(t, err)

	q, err := parseQuery(desc, []string{"description", "=", "Rent", "or", "description", "!=", "Salary 1", "num", "=", "7"})
	require.NoError(t, err)
	require.Len(t, q.Terms, 2)
	assert.Equal(t, ledger.TypeTransaction, q.SearchFor)
	assert.Equal(t, query.Where("description", query.EQ, query.String("Rent")), q.Terms[0][0])
	require.Len(t, q.Terms[1], 2)
	assert.Equal(t, query.NEQ, q.Terms[1][0].Op)

	q, err = parseQuery(desc, nil)
	require.NoError(t, err)
	assert.Empty(t, q.Terms)
}

func TestParseQuery_Errors(t *testing.T) {
	desc, err := descriptorFor(ledger.TypeTransaction)
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
	}{
		{"incomplete", []string{"description", "="}},
		{"unknown column", []string{"memo", "=", "x"}},
		{"unknown operator", []string{"description", "like", "x"}},
		{"leading or", []string{"or", "description", "=", "x"}},
		{"trailing or", []string{"description", "=", "x", "or"}},
		{"bad guid", []string{"currency_guid", "=", "usd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseQuery(desc, tt.args)
			assert.Error(t, err)
		})
	}

	_, err = descriptorFor("Budget")
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	id := core.NewGUID()
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		typ  core.ColumnType
		raw  string
		want query.Value
	}{
		{"string", core.TypeString, "Rent", query.String("Rent")},
		{"int", core.TypeInt, "42", query.Int64(42)},
		{"bool", core.TypeBoolean, "true", query.Bool(true)},
		{"double", core.TypeDouble, "1.5", query.Double(1.5)},
		{"numeric", core.TypeNumeric, "12.50", query.Numeric(core.NewNumeric(25, 2))},
		{"date", core.TypeTimestamp, "2024-03-05", query.Date(day)},
		{"guid", core.TypeGUID, id.String(), query.GUIDs{Match: query.MatchAny, IDs: []core.GUID{id}}},
		{"ref", core.RefType(ledger.TypeAccount), id.String(), query.GUIDs{Match: query.MatchAny, IDs: []core.GUID{id}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValue(tt.typ, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseValue(core.TypeInt, "many")
	assert.Error(t, err)
}

func TestDisplayValue(t *testing.T) {
	usd := ledger.NewCommodity(ledger.CurrencyNamespace, "USD", "US Dollar", 100)
	var noAccount *ledger.Account

	assert.Equal(t, "", displayValue(nil))
	assert.Equal(t, "", displayValue(noAccount))
	assert.Equal(t, "", displayValue(core.GUID{}))
	assert.Equal(t, "CURRENCY::USD", displayValue(usd))
	assert.Equal(t, "12.5", displayValue(core.NewNumeric(25, 2)))
	assert.Equal(t, "2024-03-05 10:00:00", displayValue(time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, displayValue(7))
}

func TestLoadOrder(t *testing.T) {
	logger := testutil.NewTestLogger(t)
	reg := backend.NewRegistry(logger)
	require.NoError(t, modules.RegisterAll(reg, codec.NewStandardRegistry(logger)))

	order, err := loadOrder(reg, []string{ledger.TypeInvoice, ledger.TypeAccount, ledger.TypePrice})
	require.NoError(t, err)
	assert.Equal(t, []string{ledger.TypeInvoice, ledger.TypePrice, ledger.TypeBillTerm}, order)

	_, err = loadOrder(reg, []string{"Budget"})
	assert.ErrorIs(t, err, core.ErrConfiguration)
}

func TestRunInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books")

	path, err := runInit(dir, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.ConfigFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got config.Config
	require.NoError(t, yaml.Unmarshal(data, &got))
	require.NotNil(t, got.Target)
	assert.Equal(t, config.DefaultTargetType, got.Target.Type)
	assert.Equal(t, config.DefaultStateFile, got.StatePath)

	_, err = runInit(dir, false)
	assert.Error(t, err, "existing config needs --force")

	_, err = runInit(dir, true)
	assert.NoError(t, err)
}

func TestBalanceTable(t *testing.T) {
	book := ledger.Sample(ledger.SampleOptions{Transactions: 4})

	tbl, err := balanceTable(book)
	require.NoError(t, err)
	assert.Equal(t, []string{"account", "type", "balance"}, tbl.Columns)

	var found bool
	for _, row := range tbl.Rows {
		if row[0] == "Expenses:Groceries" {
			found = true
			assert.Equal(t, "Expense", row[1])
		}
		assert.NotEqual(t, "", row[0], "the root account is not listed")
	}
	assert.True(t, found)
}
