// Package object defines the external object references that the host
// persistence runtime knows how to store.
package object

import (
	"sync"

	"github.com/google/uuid"
)

type ID = uuid.UUID

// Object is a reference the host can persist. Interface-typed fields are only
// restored when their value is an Object.
type Object interface {
	ObjectID() ID
}

// Destroyable is implemented by objects whose lifetime the host ends explicitly.
type Destroyable interface {
	Destroyed() bool
}

// Base is meant to be embedded in host object types.
type Base struct {
	id ID
}

func NewBase() Base {
	return Base{id: uuid.New()}
}

func BaseWithID(id ID) Base {
	return Base{id: id}
}

func (b Base) ObjectID() ID {
	return b.id
}

// Missing stands in for a stored reference whose target could not be found on
// load. It never implements any capability interface, so it degrades to nil
// when assigned to an interface field.
type Missing struct {
	ID ID
}

func (m Missing) ObjectID() ID {
	return m.ID
}

func IsMissing(o Object) bool {
	_, ok := o.(Missing)
	return ok
}

// Alive reports whether o is non-nil, not a placeholder and not destroyed.
// It consults host liveness state and must only be called from the goroutine
// that owns the objects; serialization hooks use plain nil checks instead.
func Alive(o Object) bool {
	if o == nil || IsMissing(o) {
		return false
	}
	if d, ok := o.(Destroyable); ok {
		return !d.Destroyed()
	}
	return true
}

// Resolver maps persisted IDs back to live objects.
type Resolver interface {
	Resolve(id ID) (Object, bool)
}

// Table is an in-memory Resolver.
type Table struct {
	mu      sync.RWMutex
	objects map[ID]Object
}

func NewTable(objects ...Object) *Table {
	t := &Table{objects: make(map[ID]Object, len(objects))}
	for _, o := range objects {
		t.Add(o)
	}
	return t
}

func (t *Table) Add(o Object) {
	if o == nil {
		return
	}
	t.mu.Lock()
	t.objects[o.ObjectID()] = o
	t.mu.Unlock()
}

func (t *Table) Remove(id ID) {
	t.mu.Lock()
	delete(t.objects, id)
	t.mu.Unlock()
}

func (t *Table) Resolve(id ID) (Object, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	o, ok := t.objects[id]
	return o, ok
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.objects)
}
