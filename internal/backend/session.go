package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// BeginEdit is called before an entity is modified. Nothing is written.
func (b *Backend) BeginEdit(_ context.Context, e core.Entity) error {
	if core.IsNil(e) {
		return fmt.Errorf("%w: nil entity", core.ErrConfiguration)
	}
	return nil
}

// RollbackEdit is called when an edit is abandoned. Nothing is written.
func (b *Backend) RollbackEdit(_ context.Context, e core.Entity) error {
	if core.IsNil(e) {
		return fmt.Errorf("%w: nil entity", core.ErrConfiguration)
	}
	return nil
}

// CommitEdit persists the pending change of e in its own transaction.
//
// Clean entities are skipped without touching storage. While loading, e is
// only marked clean. An entity type without a handler is rolled back, marked
// clean and reported as core.ErrUnknownType. On a handler failure the
// transaction is rolled back and e keeps its state.
func (b *Backend) CommitEdit(ctx context.Context, e core.Entity) error {
	if core.IsNil(e) {
		return fmt.Errorf("%w: nil entity", core.ErrConfiguration)
	}
	if b.book != nil && b.book.ReadOnly() {
		if b.conn.InTransaction() {
			_ = b.conn.Rollback(ctx)
		}
		err := fmt.Errorf("failed to commit %s: %w", e.TypeName(), core.ErrReadOnly)
		b.setError(err)
		return err
	}
	if b.state == core.SessionLoading {
		return e.Transition(core.Clean)
	}

	state := e.State()
	if state == core.Clean {
		return nil
	}
	b.logger.Debug("committing entity",
		slog.String("type", e.TypeName()),
		slog.String("guid", e.GUID().String()),
		slog.String("state", state.String()))

	if err := b.conn.Begin(ctx); err != nil {
		return b.storageError("begin transaction", err)
	}
	b.pending = b.pending[:0]

	h, ok := b.registry.Committer(e.TypeName())
	if !ok {
		_ = b.conn.Rollback(ctx)
		b.logger.Warn("no handler for entity type", slog.String("type", e.TypeName()))
		b.markSaved()
		_ = e.Transition(core.Clean)
		return fmt.Errorf("failed to commit %s: %w", e.TypeName(), core.ErrUnknownType)
	}

	if err := h.Commit(ctx, b, e); err != nil {
		b.pending = nil
		if rbErr := b.conn.Rollback(ctx); rbErr != nil {
			err = errors.Join(err, b.storageError("roll back", rbErr))
		}
		b.setError(err)
		return fmt.Errorf("failed to commit %s: %w", e.TypeName(), err)
	}

	if err := b.conn.Commit(ctx); err != nil {
		b.pending = nil
		_ = b.conn.Rollback(ctx)
		return b.storageError("commit transaction", err)
	}

	b.settlePending()
	b.markSaved()
	b.settle(e, state)
	return nil
}

// SaveEntity writes e through the handler registered for its type inside
// the current transaction. Writers use it during a full save.
func (b *Backend) SaveEntity(ctx context.Context, e core.Entity) error {
	if core.IsNil(e) {
		return fmt.Errorf("%w: nil entity", core.ErrConfiguration)
	}
	h, ok := b.registry.Committer(e.TypeName())
	if !ok {
		return fmt.Errorf("failed to save %s: %w", e.TypeName(), core.ErrUnknownType)
	}
	if err := h.Commit(ctx, b, e); err != nil {
		return fmt.Errorf("failed to save %s: %w", e.TypeName(), err)
	}
	b.Settle(e)
	return nil
}

type pendingCommit struct {
	entity core.Entity
	was    core.Lifecycle
}

// Settle moves e to its post-commit state once the open transaction
// commits. A rollback leaves e as it is. Outside a transaction e is
// settled at once.
func (b *Backend) Settle(e core.Entity) {
	if core.IsNil(e) {
		return
	}
	if !b.conn.InTransaction() {
		b.settle(e, e.State())
		return
	}
	b.pending = append(b.pending, pendingCommit{entity: e, was: e.State()})
}

func (b *Backend) settlePending() int {
	n := len(b.pending)
	for _, p := range b.pending {
		b.settle(p.entity, p.was)
	}
	b.pending = nil
	return n
}

// settle moves a committed entity to its post-commit state. Destroyed
// entities leave the book.
func (b *Backend) settle(e core.Entity, was core.Lifecycle) {
	_ = e.Transition(core.Clean)
	if was == core.Destroying && b.book != nil {
		b.book.Remove(e)
	}
}

func (b *Backend) markSaved() {
	if b.book != nil {
		b.book.MarkSessionSaved()
	}
}
