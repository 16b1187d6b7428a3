package backend

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// SyncAll writes the whole book into a fresh set of tables in one
// transaction. The version reset and table replacement run inside that
// transaction, so any failure leaves the database as it was.
func (b *Backend) SyncAll(ctx context.Context, book core.Book) error {
	if core.IsNil(book) {
		return fmt.Errorf("%w: nil book", core.ErrConfiguration)
	}
	if err := b.enter(core.SessionSaving); err != nil {
		return err
	}
	defer b.leave()
	defer b.finishProgress()

	b.step()
	if err := b.conn.Begin(ctx); err != nil {
		return b.storageError("begin transaction", err)
	}

	prev := maps.Clone(b.versions.tables)
	abort := func(err error) error {
		_ = b.conn.Rollback(ctx)
		b.versions.tables = prev
		b.pristine = false
		b.pending = nil
		b.setError(err)
		return err
	}

	if err := b.versions.Reset(ctx); err != nil {
		return abort(fmt.Errorf("failed to reset version table: %w", err))
	}
	b.pristine = true
	if err := b.registry.CreateAllTables(ctx, b); err != nil {
		return abort(err)
	}

	b.book = book
	b.pending = b.pending[:0]
	b.done = 0
	b.total = 1 + len(book.Descendants(book.RootAccount())) + book.TransactionCount()

	if err := b.writeAll(ctx, book); err != nil {
		return abort(err)
	}
	if err := b.conn.Commit(ctx); err != nil {
		return abort(b.storageError("commit transaction", err))
	}

	b.pristine = false
	n := b.settlePending()
	b.logger.Debug("saved book", slog.Int("objects", n))
	book.MarkSessionSaved()
	return nil
}

func (b *Backend) writeAll(ctx context.Context, book core.Book) error {
	if err := b.SaveEntity(ctx, book); err != nil {
		return err
	}
	if err := b.writeTree(ctx, book, book.RootAccount()); err != nil {
		return err
	}
	if err := b.writeTree(ctx, book, book.TemplateRoot()); err != nil {
		return err
	}
	if err := b.writeTransactions(ctx, book, book.RootAccount()); err != nil {
		return err
	}
	if err := b.writeTransactions(ctx, book, book.TemplateRoot()); err != nil {
		return err
	}
	for _, sx := range book.ScheduledTransactions() {
		if err := b.SaveEntity(ctx, sx); err != nil {
			return err
		}
	}
	b.step()
	return each(b.registry, func(h Writer) error {
		if err := h.Write(ctx, b); err != nil {
			return fmt.Errorf("failed to write %s: %w", h.TypeName(), err)
		}
		b.step()
		return nil
	})
}

// writeTree saves root and its descendants depth first, stopping at the
// first failure.
func (b *Backend) writeTree(ctx context.Context, book core.Book, root core.Entity) error {
	if core.IsNil(root) {
		return nil
	}
	if err := b.SaveEntity(ctx, root); err != nil {
		return err
	}
	for _, e := range book.Descendants(root) {
		if err := b.SaveEntity(ctx, e); err != nil {
			return err
		}
		b.step()
	}
	return nil
}

func (b *Backend) writeTransactions(ctx context.Context, book core.Book, root core.Entity) error {
	if core.IsNil(root) {
		return nil
	}
	for _, tx := range book.Transactions(root) {
		if err := b.SaveEntity(ctx, tx); err != nil {
			return err
		}
		b.step()
	}
	return nil
}
