package modules

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/leapstore/internal/backend"
	"github.com/leapstack-labs/leapstore/internal/ledger"
	"github.com/leapstack-labs/leapstore/pkg/core"
)

const booksTable = "books"

var bookDescriptor = &core.EntityDescriptor{
	TypeName: ledger.TypeBook,
	Table:    booksTable,
	Columns: []core.ColumnDescriptor{
		keyColumn[*ledger.Book](),
		{Name: "root_account_guid", Type: core.TypeGUID, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Book).RootID, (*ledger.Book).SetRootID)},
		{Name: "root_template_guid", Type: core.TypeGUID, Flags: core.FlagNotNull,
			Access: core.Bind((*ledger.Book).TemplateID, (*ledger.Book).SetTemplateID)},
	},
}

// bookHandler stores the book's own row. Loading fills the session book
// instead of creating one.
type bookHandler struct {
	*backend.StandardHandler
}

func newBookHandler() *bookHandler {
	return &bookHandler{&backend.StandardHandler{
		Type:         ledger.TypeBook,
		Descriptor:   bookDescriptor,
		TableVersion: 1,
		New:          func(b *backend.Backend) core.Entity { return b.Book() },
	}}
}

// InitialLoad reads the first book row into the session book.
func (h *bookHandler) InitialLoad(ctx context.Context, b *backend.Backend) error {
	book, err := bookOf(b)
	if err != nil {
		return err
	}
	rs, err := b.SelectAll(ctx, booksTable)
	if err != nil {
		return err
	}
	if rs.Len() == 0 {
		return nil
	}
	if rs.Len() > 1 {
		b.Logger().Warn("database holds more than one book, using the first")
	}
	if err := b.LoadObject(rs.Rows[0], bookDescriptor, book); err != nil {
		return fmt.Errorf("failed to load book: %w", err)
	}
	return book.Transition(core.Clean)
}
