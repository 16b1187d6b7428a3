package codec

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// UnknownTypeError is returned when a column type has no registered codec.
type UnknownTypeError struct {
	Type      core.ColumnType
	Available []core.ColumnType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("no codec registered for column type %q (available: %v)", e.Type, e.Available)
}

// Unwrap makes the error match core.ErrConfiguration.
func (e *UnknownTypeError) Unwrap() error {
	return core.ErrConfiguration
}

// Registry maps column types to codecs.
type Registry struct {
	mu     sync.RWMutex
	codecs map[core.ColumnType]Codec
	logger *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		codecs: make(map[core.ColumnType]Codec),
		logger: logger,
	}
}

// NewStandardRegistry returns a registry holding codecs for every built-in column type.
func NewStandardRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(core.TypeString, stringCodec{})
	r.Register(core.TypeGUID, guidCodec{})
	r.Register(core.TypeInt, intCodec{})
	r.Register(core.TypeInt64, int64Codec{})
	r.Register(core.TypeBoolean, boolCodec{})
	r.Register(core.TypeDouble, doubleCodec{})
	r.Register(core.TypeTimestamp, timestampCodec{})
	r.Register(core.TypeDate, dateCodec{})
	r.Register(core.TypeNumeric, numericCodec{})
	return r
}

// Register adds or replaces the codec for t.
func (r *Registry) Register(t core.ColumnType, c Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.codecs[t]; exists {
		r.logger.Debug("replacing codec", "type", t)
	}
	r.codecs[t] = c
}

// Lookup returns the codec for t.
func (r *Registry) Lookup(t core.ColumnType) (Codec, error) {
	r.mu.RLock()
	c, ok := r.codecs[t]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownTypeError{Type: t, Available: r.Types()}
	}
	return c, nil
}

// Types returns the registered column types in sorted order.
func (r *Registry) Types() []core.ColumnType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]core.ColumnType, 0, len(r.codecs))
	for t := range r.codecs {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Validate checks a descriptor's structure and that every column type resolves.
func (r *Registry) Validate(desc *core.EntityDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	for _, col := range desc.Columns {
		if _, err := r.Lookup(col.Type); err != nil {
			return fmt.Errorf("table %s column %s: %w", desc.Table, col.Name, err)
		}
	}
	return nil
}

// Describe expands every column of desc into physical columns.
func (r *Registry) Describe(desc *core.EntityDescriptor) ([]core.ColumnInfo, error) {
	var infos []core.ColumnInfo
	for _, col := range desc.Columns {
		c, err := r.Lookup(col.Type)
		if err != nil {
			return nil, fmt.Errorf("table %s column %s: %w", desc.Table, col.Name, err)
		}
		infos = append(infos, c.Describe(col)...)
	}
	return infos, nil
}
