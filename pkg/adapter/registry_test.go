package adapter

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// stubAdapter fails or succeeds Connect on demand.
type stubAdapter struct {
	Adapter
	connectErr error
	cfg        Config
}

func (s *stubAdapter) Connect(_ context.Context, cfg Config) error {
	s.cfg = cfg
	return s.connectErr
}

func TestUnknownDriverError(t *testing.T) {
	err := &UnknownDriverError{Name: "fake_db", Known: []string{"duckdb", "postgres"}}

	msg := err.Error()
	assert.Contains(t, msg, `"fake_db"`)
	assert.Contains(t, msg, "duckdb, postgres")
	assert.Contains(t, msg, "leapstore.yaml")
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestRegister_IgnoresCase(t *testing.T) {
	Register("Stub_Upper", func(_ *slog.Logger) Adapter { return &stubAdapter{} })

	_, ok := Lookup("stub_upper")
	assert.True(t, ok)
	_, ok = Lookup("STUB_UPPER")
	assert.True(t, ok)
	assert.Contains(t, Drivers(), "stub_upper")
	assert.NoError(t, CheckDriver("Stub_Upper"))
}

func TestCheckDriver(t *testing.T) {
	err := CheckDriver("")
	require.ErrorIs(t, err, core.ErrConfiguration)

	err = CheckDriver("nowhere")
	var unknown *UnknownDriverError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nowhere", unknown.Name)
}

func TestOpen_ConnectsWithConfig(t *testing.T) {
	stub := &stubAdapter{}
	Register("stub_ok", func(_ *slog.Logger) Adapter { return stub })

	cfg := Config{Type: "stub_ok", Path: "books.db"}
	adp, err := Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Same(t, stub, adp)
	assert.Equal(t, "books.db", stub.cfg.Path)
}

func TestOpen_ConnectFailureIsStorageError(t *testing.T) {
	boom := errors.New("refused")
	Register("stub_fail", func(_ *slog.Logger) Adapter { return &stubAdapter{connectErr: boom} })

	adp, err := Open(context.Background(), Config{Type: "stub_fail"}, nil)
	require.ErrorIs(t, err, core.ErrStorage)
	require.ErrorIs(t, err, boom)
	assert.Nil(t, adp)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Type: "unknown_adapter"}, nil)
	var unknown *UnknownDriverError
	require.ErrorAs(t, err, &unknown)
	assert.ErrorIs(t, err, core.ErrConfiguration)
}
