package core

import (
	"fmt"
	"reflect"
	"sync"
)

// Lifecycle is the persistence state of an entity instance.
type Lifecycle int

// Lifecycle states.
const (
	// Infant entities have never been persisted.
	Infant Lifecycle = iota
	// Clean entities match their stored row.
	Clean
	// Dirty entities were modified since they were last persisted.
	Dirty
	// Destroying entities are marked for deletion on the next commit.
	Destroying
)

func (l Lifecycle) String() string {
	switch l {
	case Infant:
		return "infant"
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Destroying:
		return "destroying"
	default:
		return fmt.Sprintf("lifecycle(%d)", int(l))
	}
}

// Entity is any domain object the backend can persist.
type Entity interface {
	// TypeName is the stable name used to look up the entity's handler.
	TypeName() string
	GUID() GUID
	SetGUID(GUID)
	State() Lifecycle
	// Transition moves the entity to another lifecycle state.
	Transition(to Lifecycle) error
}

// Instance carries identity and lifecycle state. Domain types embed it
// to satisfy most of Entity.
type Instance struct {
	mu    sync.Mutex
	guid  GUID
	state Lifecycle
}

// GUID returns the instance identity.
func (i *Instance) GUID() GUID {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.guid
}

// SetGUID replaces the instance identity.
func (i *Instance) SetGUID(g GUID) {
	i.mu.Lock()
	i.guid = g
	i.mu.Unlock()
}

// State returns the current lifecycle state.
func (i *Instance) State() Lifecycle {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Transition moves the instance to another state.
//
// Allowed moves:
//
//	Infant     -> Infant, Clean, Destroying
//	Clean      -> Clean, Dirty, Destroying
//	Dirty      -> Dirty, Clean, Destroying
//	Destroying -> Destroying, Clean
//
// Nothing returns to Infant once it has been persisted.
func (i *Instance) Transition(to Lifecycle) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !validTransition(i.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, i.state, to)
	}
	i.state = to
	return nil
}

// MarkDirty records a mutation. Infant and destroying instances keep their state.
func (i *Instance) MarkDirty() {
	i.mu.Lock()
	if i.state == Clean {
		i.state = Dirty
	}
	i.mu.Unlock()
}

// MarkClean records that the instance matches storage.
func (i *Instance) MarkClean() {
	i.mu.Lock()
	i.state = Clean
	i.mu.Unlock()
}

// Destroy marks the instance for deletion.
func (i *Instance) Destroy() {
	i.mu.Lock()
	i.state = Destroying
	i.mu.Unlock()
}

// IsDirty reports whether a commit would write anything.
func (i *Instance) IsDirty() bool {
	s := i.State()
	return s == Infant || s == Dirty
}

func validTransition(from, to Lifecycle) bool {
	if from == to {
		return true
	}
	switch from {
	case Infant:
		return to == Clean || to == Destroying
	case Clean:
		return to == Dirty || to == Destroying
	case Dirty:
		return to == Clean || to == Destroying
	case Destroying:
		return to == Clean
	}
	return false
}

// IsNil reports whether e is nil, including a typed nil pointer stored in the interface.
func IsNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
