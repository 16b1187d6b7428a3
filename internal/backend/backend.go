// Package backend persists entity graphs to SQL databases.
//
// A Backend is one session against one connection. It dispatches every
// entity type to the Handler registered for it, builds CRUD statements from
// entity descriptors through the column codecs, tracks per-table schema
// versions and orchestrates transactional loads and saves.
//
// A Backend is used by a single goroutine at a time.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapstore/pkg/adapter"
	"github.com/leapstack-labs/leapstore/pkg/codec"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Progress values with special meaning.
const (
	ProgressIndeterminate = 101
	ProgressDone          = -1
)

// ProgressFunc receives percent complete, ProgressIndeterminate when no total
// is known, or ProgressDone when the operation finished.
type ProgressFunc func(percent float64)

// Config holds backend configuration.
type Config struct {
	// Conn is the storage connection (required)
	Conn adapter.Connection
	// Registry holds the entity handlers (required)
	Registry *Registry
	// Codecs holds the column codecs (optional, standard codecs if nil)
	Codecs *codec.Registry
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Progress receives progress reports (optional)
	Progress ProgressFunc
	// AppVersion is recorded in the version table on creation (default 1)
	AppVersion int
	// ResaveVersion is the oldest version able to re-save the data (default 1)
	ResaveVersion int
}

// Backend is a persistence session bound to one connection.
type Backend struct {
	conn     adapter.Connection
	registry *Registry
	codecs   *codec.Registry
	logger   *slog.Logger
	progress ProgressFunc

	appVersion    int
	resaveVersion int

	book     core.Book
	versions *Versions
	state    core.SessionState
	pristine bool
	postLoad []core.Entity
	pending  []pendingCommit
	err      error

	done  int
	total int
}

// New creates a backend session.
func New(cfg Config) (*Backend, error) {
	if cfg.Conn == nil {
		return nil, fmt.Errorf("%w: backend requires a connection", core.ErrConfiguration)
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("%w: backend requires a handler registry", core.ErrConfiguration)
	}

	// Initialize logger (use discard handler if nil)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	codecs := cfg.Codecs
	if codecs == nil {
		codecs = codec.NewStandardRegistry(logger)
	}

	b := &Backend{
		conn:          cfg.Conn,
		registry:      cfg.Registry,
		codecs:        codecs,
		logger:        logger,
		progress:      cfg.Progress,
		appVersion:    max(cfg.AppVersion, 1),
		resaveVersion: max(cfg.ResaveVersion, 1),
	}
	b.versions = newVersions(b)
	return b, nil
}

// Open attaches book to the session and reads the version table,
// creating it on a fresh database.
func (b *Backend) Open(ctx context.Context, book core.Book) error {
	b.book = book
	if err := b.versions.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize version table: %w", err)
	}
	return nil
}

// Close forgets version information and closes the connection when it can be closed.
func (b *Backend) Close() error {
	b.versions.Finalize()
	if c, ok := b.conn.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// Book returns the attached book.
func (b *Backend) Book() core.Book { return b.book }

// Conn returns the storage connection.
func (b *Backend) Conn() adapter.Connection { return b.conn }

// Codecs returns the column codec registry.
func (b *Backend) Codecs() *codec.Registry { return b.codecs }

// Registry returns the handler registry.
func (b *Backend) Registry() *Registry { return b.registry }

// Versions returns the schema version manager.
func (b *Backend) Versions() *Versions { return b.versions }

// State returns what the session is doing.
func (b *Backend) State() core.SessionState { return b.state }

// Pristine reports whether a full save into an empty database is running.
func (b *Backend) Pristine() bool { return b.pristine }

// LastError returns the last storage error recorded by the session.
func (b *Backend) LastError() error { return b.err }

// ClearError resets the recorded error.
func (b *Backend) ClearError() { b.err = nil }

func (b *Backend) setError(err error) {
	if err != nil {
		b.err = err
	}
}

// Resolve finds a loaded entity in the attached book.
func (b *Backend) Resolve(typeName string, id core.GUID) (core.Entity, bool) {
	if b.book == nil {
		return nil, false
	}
	return b.book.Lookup(typeName, id)
}

// TimestampFormat returns the connection's timestamp layout.
func (b *Backend) TimestampFormat() string { return b.conn.TimestampFormat() }

// DateFormat returns the connection's date layout.
func (b *Backend) DateFormat() string { return b.conn.DateFormat() }

// Logger returns the session logger.
func (b *Backend) Logger() *slog.Logger { return b.logger }

var _ codec.Env = (*Backend)(nil)

// enter moves an idle session into s.
func (b *Backend) enter(s core.SessionState) error {
	if b.state != core.SessionIdle {
		return fmt.Errorf("%w: cannot start %s while %s", core.ErrBusy, s, b.state)
	}
	b.state = s
	return nil
}

func (b *Backend) leave() {
	b.state = core.SessionIdle
}

// step reports progress after one unit of work.
func (b *Backend) step() {
	if b.progress == nil {
		return
	}
	if b.total > 0 {
		b.done++
		b.progress(min(float64(b.done)*100/float64(b.total), 100))
		return
	}
	b.progress(ProgressIndeterminate)
}

func (b *Backend) finishProgress() {
	b.done, b.total = 0, 0
	if b.progress != nil {
		b.progress(ProgressDone)
	}
}

// storageError wraps err as a storage failure and records it.
func (b *Backend) storageError(action string, err error) error {
	if errors.Is(err, core.ErrStorage) {
		b.setError(err)
		return err
	}
	wrapped := fmt.Errorf("failed to %s: %w: %w", action, core.ErrStorage, err)
	b.setError(wrapped)
	return wrapped
}
