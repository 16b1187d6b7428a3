package backend

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// FixedLoadOrder lists the types that must load first, in this order.
var FixedLoadOrder = []string{"Book", "Commodity", "Account", "Lot"}

// Registry holds the handlers of every persisted type in registration order.
// It is filled once at startup and read-only afterwards.
type Registry struct {
	entries   []Handler
	byName    map[string]Handler
	loadOrder []string
	logger    *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		byName: make(map[string]Handler),
		logger: logger,
	}
}

// Register appends h. Handlers built for another contract revision and
// duplicate type names are rejected.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("%w: nil handler", core.ErrConfiguration)
	}
	if h.Version() != HandlerVersion {
		return fmt.Errorf("%w: handler %s has version %d, want %d",
			core.ErrConfiguration, h.TypeName(), h.Version(), HandlerVersion)
	}
	name := h.TypeName()
	if name == "" {
		return fmt.Errorf("%w: handler without type name", core.ErrConfiguration)
	}
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("%w: handler for %s already registered", core.ErrConfiguration, name)
	}
	r.entries = append(r.entries, h)
	r.byName[name] = h
	r.logger.Debug("registered handler", slog.String("type", name))
	return nil
}

// Lookup returns the handler registered for typeName.
func (r *Registry) Lookup(typeName string) (Handler, bool) {
	h, ok := r.byName[typeName]
	return h, ok
}

// Handlers returns the handlers in registration order.
func (r *Registry) Handlers() []Handler {
	return slices.Clone(r.entries)
}

// SetLoadOrder sets the types that load right after FixedLoadOrder.
func (r *Registry) SetLoadOrder(order []string) {
	r.loadOrder = slices.Clone(order)
}

// LoadOrder returns the pluggable load order.
func (r *Registry) LoadOrder() []string {
	return slices.Clone(r.loadOrder)
}

// Committer returns the handler that commits entities of typeName.
func (r *Registry) Committer(typeName string) (Committer, bool) {
	return find[Committer](r, typeName)
}

// find scans entries for the first handler of typeName with capability C.
func find[C Handler](r *Registry, typeName string) (C, bool) {
	for _, h := range r.entries {
		if h.TypeName() != typeName {
			continue
		}
		if c, ok := h.(C); ok {
			return c, true
		}
	}
	var zero C
	return zero, false
}

// each calls fn for every handler with capability C, in registration order.
func each[C Handler](r *Registry, fn func(C) error) error {
	for _, h := range r.entries {
		if c, ok := h.(C); ok {
			if err := fn(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateAllTables asks every TableCreator to create or upgrade its tables.
func (r *Registry) CreateAllTables(ctx context.Context, b *Backend) error {
	return each(r, func(h TableCreator) error {
		if err := h.CreateTables(ctx, b); err != nil {
			return fmt.Errorf("failed to create tables for %s: %w", h.TypeName(), err)
		}
		return nil
	})
}

// InitialLoadAll loads every type: first FixedLoadOrder, then the pluggable
// order, then all remaining handlers in registration order.
func (r *Registry) InitialLoadAll(ctx context.Context, b *Backend) error {
	done := make(map[string]bool)
	load := func(name string) error {
		done[name] = true
		h, ok := find[Loader](r, name)
		if !ok {
			r.logger.Debug("no loader for type", slog.String("type", name))
			return nil
		}
		if err := h.InitialLoad(ctx, b); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
		b.step()
		return nil
	}

	for _, name := range FixedLoadOrder {
		if err := load(name); err != nil {
			return err
		}
	}
	for _, name := range r.loadOrder {
		if done[name] {
			continue
		}
		if err := load(name); err != nil {
			return err
		}
	}
	for _, h := range r.entries {
		if done[h.TypeName()] {
			continue
		}
		if err := load(h.TypeName()); err != nil {
			return err
		}
	}
	return nil
}
