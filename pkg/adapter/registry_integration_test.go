package adapter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/pkg/adapter"

	_ "github.com/leapstack-labs/leapstore/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapstore/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapstore/pkg/adapters/sqlite"
)

func TestDrivers_Bundled(t *testing.T) {
	names := adapter.Drivers()
	for _, want := range []string{"duckdb", "postgres", "sqlite"} {
		assert.Contains(t, names, want)
	}
}

func TestCheckDriver_Bundled(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{"duckdb", "duckdb", false},
		{"postgres mixed case", "Postgres", false},
		{"sqlite", "sqlite", false},
		{"unknown", "unknown_db", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := adapter.CheckDriver(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOpen_InMemory(t *testing.T) {
	for _, name := range []string{"sqlite", "duckdb"} {
		t.Run(name, func(t *testing.T) {
			adp, err := adapter.Open(context.Background(), adapter.Config{Type: name, Path: ":memory:"}, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = adp.Close() })
			assert.Equal(t, name, adp.Dialect().Name)
		})
	}
}
