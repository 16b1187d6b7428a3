package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/internal/testutil"
	_ "github.com/leapstack-labs/leapstore/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapstore/pkg/adapters/sqlite"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("state", "", "")
	fs.String("target-type", "", "")
	fs.String("database", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.StringSlice("load-order", nil, "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultTargetType, cfg.Target.Type)
	assert.Equal(t, filepath.Join(dir, DefaultDatabase), cfg.Target.Database)
	assert.Equal(t, filepath.Join(dir, DefaultStateFile), cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
target:
  type: sqlite
  database: from-file.db
output: markdown
state_path: file-state.db
load_order: [Price]
`)

	tests := []struct {
		name      string
		env       map[string]string
		args      []string
		wantDB    string
		wantOut   string
		wantState string
	}{
		{
			name:      "file over defaults",
			wantDB:    "from-file.db",
			wantOut:   "markdown",
			wantState: "file-state.db",
		},
		{
			name:      "env over file",
			env:       map[string]string{"LEAPSTORE_OUTPUT": "text", "LEAPSTORE_TARGET__DATABASE": "from-env.db"},
			wantDB:    "from-env.db",
			wantOut:   "text",
			wantState: "file-state.db",
		},
		{
			name:      "flags over env",
			env:       map[string]string{"LEAPSTORE_OUTPUT": "text"},
			args:      []string{"--output", "json", "--database", "from-flag.db", "--state", "flag-state.db"},
			wantDB:    "from-flag.db",
			wantOut:   "json",
			wantState: "flag-state.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			fs := newFlags()
			require.NoError(t, fs.Parse(tt.args))

			cfg, err := Load(path, fs)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.wantDB), cfg.Target.Database)
			assert.Equal(t, tt.wantOut, cfg.Output)
			assert.Equal(t, filepath.Join(dir, tt.wantState), cfg.StatePath)
			assert.Equal(t, []string{"Price"}, cfg.LoadOrder)
			assert.Equal(t, path, cfg.ConfigFile)
			assert.Equal(t, dir, cfg.ProjectRoot)
		})
	}
}

func TestLoad_FindsConfigUpward(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "output: text\n")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	t.Chdir(sub)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, root, cfg.ProjectRoot)
}

func TestLoad_UnsetFlagsDoNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "verbose: true\n")

	fs := newFlags()
	require.NoError(t, fs.Parse(nil))
	cfg, err := Load(path, fs)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
}

func TestLoad_PostgresTarget(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PGPASS_TEST", "s3cret")
	path := writeConfig(t, dir, `
target:
  type: Postgres
  host: db.internal
  database: ledger
  user: app
  password: ${PGPASS_TEST}
  params:
    sslmode: disable
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	tgt := cfg.Target
	assert.Equal(t, "postgres", tgt.Type)
	assert.Equal(t, 5432, tgt.Port)
	assert.Equal(t, "public", tgt.Schema)
	assert.Equal(t, "ledger", tgt.Database, "server databases are not paths")
	assert.Equal(t, "s3cret", tgt.Password)
	assert.Equal(t, "postgres://db.internal:5432/ledger", tgt.String())

	ac := tgt.AdapterConfig()
	assert.Equal(t, "app", ac.Username)
	assert.Equal(t, "disable", ac.Params["sslmode"])
}

func TestTargetConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		target    TargetConfig
		errSubstr string
	}{
		{name: "empty type", target: TargetConfig{}, errSubstr: "target type is required"},
		{name: "sqlite", target: TargetConfig{Type: "sqlite"}},
		{name: "uppercase", target: TargetConfig{Type: "SQLite"}},
		{name: "unknown", target: TargetConfig{Type: "oracle"}, errSubstr: "no storage driver"},
		{name: "postgres without host", target: TargetConfig{Type: "postgres"}, errSubstr: "requires a host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLogger(t *testing.T) {
	assert.NotNil(t, Logger(context.Background()))

	l := testutil.NewTestLogger(t)
	assert.Same(t, l, Logger(WithLogger(context.Background(), l)))
}
