package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/leapstore/pkg/core"
)

// Factory builds an unconnected adapter.
type Factory func(*slog.Logger) Adapter

var drivers = struct {
	sync.RWMutex
	byName map[string]Factory
}{byName: make(map[string]Factory)}

// Register makes a driver available to Open under name. Names are matched
// without regard to case; a later registration replaces an earlier one.
func Register(name string, f Factory) {
	drivers.Lock()
	defer drivers.Unlock()
	drivers.byName[strings.ToLower(name)] = f
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	drivers.RLock()
	defer drivers.RUnlock()
	f, ok := drivers.byName[strings.ToLower(name)]
	return f, ok
}

// Drivers lists the registered driver names in order.
func Drivers() []string {
	drivers.RLock()
	defer drivers.RUnlock()
	return slices.Sorted(maps.Keys(drivers.byName))
}

// CheckDriver fails with an *UnknownDriverError unless name is registered.
func CheckDriver(name string) error {
	if name == "" {
		return fmt.Errorf("%w: target type is required", core.ErrConfiguration)
	}
	if _, ok := Lookup(name); !ok {
		return &UnknownDriverError{Name: name, Known: Drivers()}
	}
	return nil
}

// Open builds the adapter named by cfg.Type and connects it. The returned
// connection is ready for a backend session; the caller closes it.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Adapter, error) {
	if err := CheckDriver(cfg.Type); err != nil {
		return nil, err
	}
	f, _ := Lookup(cfg.Type)
	adp := f(logger)
	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("%w: connect %s: %w", core.ErrStorage, strings.ToLower(cfg.Type), err)
	}
	return adp, nil
}

// UnknownDriverError reports a target type no driver is registered for.
type UnknownDriverError struct {
	Name  string
	Known []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("no storage driver %q (known: %s); set target.type in leapstore.yaml",
		e.Name, strings.Join(e.Known, ", "))
}

// Unwrap makes the error match core.ErrConfiguration.
func (e *UnknownDriverError) Unwrap() error {
	return core.ErrConfiguration
}
