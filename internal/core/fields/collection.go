package fields

import (
	"fmt"
	"reflect"

	"github.com/zeusync/ifacedeps/pkg/collections"
	"github.com/zeusync/ifacedeps/pkg/sequence"
)

// CollectionWrapper gives one slice or list field of one holder a single
// read/write surface. Slices are treated as fixed-length arrays: every
// structural change builds a new slice and stores it back into the field, so
// slices handed out earlier keep their old contents. Lists are changed in place.
//
// The wrapper caches the field value. Call Refresh after the field was
// replaced behind its back. Not safe for concurrent use.
type CollectionWrapper struct {
	acc    Accessor
	holder any
	elem   reflect.Type
	list   bool

	backing reflect.Value
}

// NewCollectionWrapper wraps the field acc of holder. holder must be a pointer
// for mutations to reach the field.
func NewCollectionWrapper(acc Accessor, holder any) (*CollectionWrapper, error) {
	if acc.Type == nil || !acc.Valid() {
		return nil, ErrNotACollectionField
	}
	w := &CollectionWrapper{acc: acc, holder: holder}
	switch {
	case acc.Type.Kind() == reflect.Slice:
		w.elem = acc.Type.Elem()
	case IsList(acc.Type):
		w.elem = ListElem(acc.Type)
		w.list = true
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotACollectionField, acc)
	}
	if _, err := w.Refresh(); err != nil {
		return nil, err
	}
	return w, nil
}

// Refresh reloads the cached backing from the field and returns it.
func (w *CollectionWrapper) Refresh() (any, error) {
	v, err := w.acc.Get(w.holder)
	if err != nil {
		return nil, err
	}
	w.backing = v
	return w.Backing(), nil
}

// Backing returns the current slice or list, nil when the field is nil.
func (w *CollectionWrapper) Backing() any {
	if w.isNil() {
		return nil
	}
	return w.backing.Interface()
}

func (w *CollectionWrapper) IsArray() bool { return !w.list }

func (w *CollectionWrapper) IsList() bool { return w.list }

// ItemType is the declared element type.
func (w *CollectionWrapper) ItemType() reflect.Type { return w.elem }

// Count is the number of elements, 0 for a nil field.
func (w *CollectionWrapper) Count() int {
	if w.isNil() {
		return 0
	}
	if w.list {
		return w.dynamic().Len()
	}
	return w.backing.Len()
}

// Create replaces the field with a new empty list, or a slice of capacity nil
// elements, and returns it.
func (w *CollectionWrapper) Create(capacity int) (any, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrIndexOutOfRange, capacity)
	}
	var v reflect.Value
	if w.list {
		v = reflect.New(w.acc.Type.Elem())
	} else {
		v = reflect.MakeSlice(w.acc.Type, capacity, capacity)
	}
	if err := w.store(v); err != nil {
		return nil, err
	}
	return w.Backing(), nil
}

func (w *CollectionWrapper) At(index int) (any, error) {
	if err := w.check(index, w.Count()); err != nil {
		return nil, err
	}
	if w.list {
		v, err := w.dynamic().Slot(index)
		if err != nil {
			return nil, err
		}
		return valueOf(v), nil
	}
	return valueOf(w.backing.Index(index)), nil
}

// Set replaces the element at index. On a nil field index 0 materializes a
// one-element collection.
func (w *CollectionWrapper) Set(index int, value any) error {
	if w.isNil() && index == 0 {
		_, err := w.Add(value)
		return err
	}
	if err := w.check(index, w.Count()); err != nil {
		return err
	}
	v, err := assignable(w.elem, reflect.ValueOf(value))
	if err != nil {
		return err
	}
	if w.list {
		slot, err := w.dynamic().Slot(index)
		if err != nil {
			return err
		}
		slot.Set(v)
		return nil
	}
	next := w.copyArray(w.Count())
	next.Index(index).Set(v)
	return w.store(next)
}

// Add appends value and returns its index. A nil field is materialized first.
func (w *CollectionWrapper) Add(value any) (int, error) {
	n := w.Count()
	if err := w.Insert(n, value); err != nil {
		return -1, err
	}
	return n, nil
}

// Insert places value at index, shifting the tail right. index may equal Count.
func (w *CollectionWrapper) Insert(index int, value any) error {
	n := w.Count()
	if err := w.check(index, n+1); err != nil {
		return err
	}
	v, err := assignable(w.elem, reflect.ValueOf(value))
	if err != nil {
		return err
	}
	if w.list {
		if err := w.ensure(); err != nil {
			return err
		}
		return w.dynamic().InsertAny(index, valueOf(v))
	}
	next := reflect.MakeSlice(w.acc.Type, n+1, n+1)
	reflect.Copy(next.Slice(0, index), w.backing.Slice(0, index))
	reflect.Copy(next.Slice(index+1, n+1), w.backing.Slice(index, n))
	next.Index(index).Set(v)
	return w.store(next)
}

// RemoveAt drops the element at index. A nil field has no valid index.
func (w *CollectionWrapper) RemoveAt(index int) error {
	n := w.Count()
	if err := w.check(index, n); err != nil {
		return err
	}
	if w.list {
		return w.dynamic().RemoveAt(index)
	}
	next := reflect.MakeSlice(w.acc.Type, n-1, n-1)
	reflect.Copy(next.Slice(0, index), w.backing.Slice(0, index))
	reflect.Copy(next.Slice(index, n-1), w.backing.Slice(index+1, n))
	return w.store(next)
}

// Remove drops the first element equal to value and reports whether one was
// found.
func (w *CollectionWrapper) Remove(value any) (bool, error) {
	i := w.IndexOf(value)
	if i < 0 {
		return false, nil
	}
	return true, w.RemoveAt(i)
}

// Reorder moves the element at from to position to, shifting the elements in
// between by one. Both indexes must be in [0, Count).
func (w *CollectionWrapper) Reorder(from, to int) error {
	n := w.Count()
	if err := w.check(from, n); err != nil {
		return err
	}
	if err := w.check(to, n); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	if w.list {
		return w.dynamic().Move(from, to)
	}
	next := w.copyArray(n)
	item := w.backing.Index(from)
	if from < to {
		reflect.Copy(next.Slice(from, to), w.backing.Slice(from+1, to+1))
	} else {
		reflect.Copy(next.Slice(to+1, from+1), w.backing.Slice(to, from))
	}
	next.Index(to).Set(item)
	return w.store(next)
}

// Clear empties a list. A slice keeps its length and has every element reset
// to nil.
func (w *CollectionWrapper) Clear() error {
	if w.isNil() {
		return nil
	}
	if w.list {
		w.dynamic().Clear()
		return nil
	}
	n := w.Count()
	return w.store(reflect.MakeSlice(w.acc.Type, n, n))
}

func (w *CollectionWrapper) Contains(value any) bool {
	return w.IndexOf(value) >= 0
}

// IndexOf returns the index of the first element equal to value, -1 if none.
func (w *CollectionWrapper) IndexOf(value any) int {
	for i := range w.Count() {
		item, err := w.At(i)
		if err != nil {
			return -1
		}
		if sameValue(item, value) {
			return i
		}
	}
	return -1
}

// AllNonNil reports whether the field is set and holds no nil element.
func (w *CollectionWrapper) AllNonNil() bool {
	if w.isNil() {
		return false
	}
	for i := range w.Count() {
		item, err := w.At(i)
		if err != nil || item == nil {
			return false
		}
	}
	return true
}

// Iter iterates over the elements. Each run reloads the field once, so it sees
// the contents at the time it starts; a nil field yields nothing.
func (w *CollectionWrapper) Iter() *sequence.Iterator[any] {
	return sequence.FromSeq(func(yield func(any) bool) {
		if _, err := w.Refresh(); err != nil {
			return
		}
		n := w.Count()
		for i := range n {
			item, err := w.At(i)
			if err != nil || !yield(item) {
				return
			}
		}
	})
}

func (w *CollectionWrapper) isNil() bool {
	return !w.backing.IsValid() || w.backing.IsNil()
}

func (w *CollectionWrapper) dynamic() collections.Dynamic {
	return w.backing.Interface().(collections.Dynamic)
}

func (w *CollectionWrapper) ensure() error {
	if !w.isNil() {
		return nil
	}
	_, err := w.Create(0)
	return err
}

func (w *CollectionWrapper) copyArray(n int) reflect.Value {
	next := reflect.MakeSlice(w.acc.Type, n, n)
	if !w.isNil() {
		reflect.Copy(next, w.backing)
	}
	return next
}

// store writes v to the field and makes it the cached backing.
func (w *CollectionWrapper) store(v reflect.Value) error {
	if err := w.acc.SetValue(w.holder, v); err != nil {
		return err
	}
	w.backing = v
	return nil
}

func (w *CollectionWrapper) check(index, bound int) error {
	if index < 0 || index >= bound {
		return fmt.Errorf("%w: %s[%d] with %d elements", ErrIndexOutOfRange, w.acc.Name, index, w.Count())
	}
	return nil
}

// sameValue compares by identity for pointers and by == for comparable values.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}
