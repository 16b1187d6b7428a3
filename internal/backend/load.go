package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// LoadType selects what Load reads.
type LoadType int

// Load types.
const (
	// LoadInitial reads every registered type into an empty book.
	LoadInitial LoadType = iota
	// LoadAll reads the entities an initial load leaves in storage.
	LoadAll
)

func (t LoadType) String() string {
	switch t {
	case LoadInitial:
		return "initial"
	case LoadAll:
		return "all"
	default:
		return fmt.Sprintf("load(%d)", int(t))
	}
}

// Load reads stored entities into book. An initial load attaches book to
// the session; LoadAll extends the attached book and rejects any other.
//
// Entities queued with PushPostLoad are committed once the whole graph is
// in memory, then the book is marked saved.
func (b *Backend) Load(ctx context.Context, book core.Book, lt LoadType) error {
	if core.IsNil(book) {
		return fmt.Errorf("%w: nil book", core.ErrConfiguration)
	}
	if lt == LoadAll && !core.IsNil(b.book) && b.book != book {
		return fmt.Errorf("%w: load all needs the attached book", core.ErrConfiguration)
	}
	if err := b.enter(core.SessionLoading); err != nil {
		return err
	}
	b.logger.Debug("loading book", slog.String("type", lt.String()))

	var err error
	switch lt {
	case LoadInitial:
		b.book = book
		err = b.registry.InitialLoadAll(ctx, b)
	case LoadAll:
		b.book = book
		err = each(b.registry, func(h FullLoader) error {
			if err := h.LoadAll(ctx, b); err != nil {
				return fmt.Errorf("failed to load all %s: %w", h.TypeName(), err)
			}
			b.step()
			return nil
		})
	default:
		err = fmt.Errorf("%w: unknown load type %d", core.ErrConfiguration, int(lt))
	}
	b.leave()

	pending := b.postLoad
	b.postLoad = nil
	if err == nil {
		for _, e := range pending {
			if cerr := b.CommitEdit(ctx, e); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	}

	book.MarkSessionSaved()
	b.finishProgress()
	return err
}

// PushPostLoad queues e to be committed after the current load completes.
func (b *Backend) PushPostLoad(e core.Entity) {
	b.postLoad = append(b.postLoad, e)
}
