// Package commands implements the Leapstore subcommands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/cli/output"
	"github.com/leapstack-labs/leapstore/internal/config"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/internal/modules"
	"github.com/leapstack-labs/leapstore/internal/state"
	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/codec"
	"github.com/leapstack-labs/leapstore/pkg/core"
	"github.com/spf13/cobra"

	// Register storage adapters.
	_ "github.com/leapstack-labs/leapstore/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapstore/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapstore/pkg/adapters/sqlite"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext builds the context from the configuration loaded by the
// root command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.Logger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// OpenSession connects to the configured target and opens a backend session
// for book with every ledger handler registered.
// Returns the session and a cleanup function that must be called (typically via defer).
func (c *CommandContext) OpenSession(ctx context.Context, book *ledger.Book) (*backend.Backend, func(), error) {
	acfg := c.Cfg.Target.AdapterConfig()
	conn, err := adapter.Open(ctx, acfg, c.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", c.Cfg.Target, err)
	}
	cleanup := func() { _ = conn.Close() }

	reg := backend.NewRegistry(c.Logger)
	codecs := codec.NewStandardRegistry(c.Logger)
	if err := modules.RegisterAll(reg, codecs); err != nil {
		cleanup()
		return nil, nil, err
	}
	order, err := loadOrder(reg, c.Cfg.LoadOrder)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	reg.SetLoadOrder(order)

	b, err := backend.New(backend.Config{
		Conn:     conn,
		Registry: reg,
		Codecs:   codecs,
		Logger:   c.Logger,
		Progress: func(percent float64) {
			c.Logger.Debug("progress", slog.Float64("percent", percent))
		},
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if err := b.Open(ctx, book); err != nil {
		cleanup()
		return nil, nil, err
	}
	return b, cleanup, nil
}

// loadOrder puts the configured types ahead of the registered order.
func loadOrder(reg *backend.Registry, configured []string) ([]string, error) {
	order := make([]string, 0, len(configured))
	for _, name := range configured {
		if _, ok := reg.Lookup(name); !ok {
			return nil, fmt.Errorf("%w: load order names unknown type %q", core.ErrConfiguration, name)
		}
		if slices.Contains(backend.FixedLoadOrder, name) || slices.Contains(order, name) {
			continue
		}
		order = append(order, name)
	}
	for _, name := range reg.LoadOrder() {
		if !slices.Contains(order, name) {
			order = append(order, name)
		}
	}
	return order, nil
}

// OpenStore opens the run history database, creating it when missing.
func (c *CommandContext) OpenStore() (*state.SQLiteStore, error) {
	if dir := filepath.Dir(c.Cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Record runs fn as a run of kind against the configured target and stores
// its outcome with the number of objects it reported.
func (c *CommandContext) Record(kind core.RunKind, fn func() (int, error)) error {
	store, err := c.OpenStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.CreateRun(kind, c.Cfg.Target.String())
	if err != nil {
		return err
	}

	objects, runErr := fn()
	status, msg := core.RunStatusCompleted, ""
	if runErr != nil {
		status, msg = core.RunStatusFailed, runErr.Error()
	}
	if err := store.CompleteRun(run.ID, status, objects, msg); err != nil {
		c.Logger.Warn("failed to record run", slog.String("run", run.ID), slog.String("error", err.Error()))
	}
	return runErr
}
