package core

// Book is the root of an entity graph: the collection a session loads and saves.
type Book interface {
	Entity

	// ReadOnly reports whether writes are refused.
	ReadOnly() bool

	// SessionDirty reports whether the book has unsaved changes.
	SessionDirty() bool
	MarkSessionSaved()
	MarkSessionDirty()

	// Lookup finds a loaded entity of typeName by identity.
	Lookup(typeName string, id GUID) (Entity, bool)
	// Add inserts an entity into the collection it belongs to.
	Add(e Entity)
	// Remove drops an entity from its collection.
	Remove(e Entity)

	// RootAccount and TemplateRoot return the hierarchy roots; either may be nil.
	RootAccount() Entity
	TemplateRoot() Entity
	// Descendants lists every entity below root, depth first.
	Descendants(root Entity) []Entity
	// Transactions lists the transactions touching root or its descendants.
	Transactions(root Entity) []Entity
	// ScheduledTransactions lists the recurring templates.
	ScheduledTransactions() []Entity
	// TransactionCount is used for save progress.
	TransactionCount() int
}
