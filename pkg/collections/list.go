// Package collections provides List, the growable list shape recognized by the
// interface field classifier alongside plain slices.
package collections

import (
	"fmt"
	"iter"
	"reflect"
)

// Dynamic is the untyped view of a List used by reflection-driven callers that
// do not know T at compile time. All methods must be safe on a nil receiver
// when they do not mutate.
type Dynamic interface {
	Len() int
	ElemType() reflect.Type
	AnyAt(index int) (any, error)
	// Slot returns the addressable element at index.
	Slot(index int) (reflect.Value, error)
	SetAny(index int, value any) error
	AddAny(value any) (int, error)
	InsertAny(index int, value any) error
	RemoveAt(index int) error
	Move(from, to int) error
	Clear()
}

var _ Dynamic = (*List[any])(nil)

// List is a growable list mutated in place. Fields should hold *List[T] so a nil
// list can be told apart from an empty one.
type List[T any] struct {
	items []T
}

// NewList creates a list holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{items: make([]T, len(items))}
	copy(l.items, items)
	return l
}

// NewListWithCapacity creates an empty list with room for capacity elements.
func NewListWithCapacity[T any](capacity int) *List[T] {
	return &List[T]{items: make([]T, 0, capacity)}
}

func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

func (l *List[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (l *List[T]) At(index int) (T, error) {
	if err := l.check(index, l.Len()); err != nil {
		var zero T
		return zero, err
	}
	return l.items[index], nil
}

func (l *List[T]) Set(index int, value T) error {
	if err := l.check(index, l.Len()); err != nil {
		return err
	}
	l.items[index] = value
	return nil
}

// Add appends value and returns its index.
func (l *List[T]) Add(value T) int {
	l.items = append(l.items, value)
	return len(l.items) - 1
}

// Insert places value at index, shifting the tail right. index may equal Len.
func (l *List[T]) Insert(index int, value T) error {
	if err := l.check(index, l.Len()+1); err != nil {
		return err
	}
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = value
	return nil
}

func (l *List[T]) RemoveAt(index int) error {
	if err := l.check(index, l.Len()); err != nil {
		return err
	}
	copy(l.items[index:], l.items[index+1:])
	var zero T
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return nil
}

// Move takes the element at from out of the list and reinserts it at to.
func (l *List[T]) Move(from, to int) error {
	n := l.Len()
	if err := l.check(from, n); err != nil {
		return err
	}
	if err := l.check(to, n); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	item := l.items[from]
	if from < to {
		copy(l.items[from:to], l.items[from+1:to+1])
	} else {
		copy(l.items[to+1:from+1], l.items[to:from])
	}
	l.items[to] = item
	return nil
}

func (l *List[T]) Clear() {
	if l == nil {
		return
	}
	clear(l.items)
	l.items = l.items[:0]
}

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	out := make([]T, l.Len())
	if l != nil {
		copy(out, l.items)
	}
	return out
}

// All iterates over index/value pairs of the contents at call time.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l == nil {
			return
		}
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}

func (l *List[T]) AnyAt(index int) (any, error) {
	v, err := l.At(index)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (l *List[T]) Slot(index int) (reflect.Value, error) {
	if err := l.check(index, l.Len()); err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(l.items).Index(index), nil
}

func (l *List[T]) SetAny(index int, value any) error {
	v, err := convert[T](value)
	if err != nil {
		return err
	}
	return l.Set(index, v)
}

func (l *List[T]) AddAny(value any) (int, error) {
	v, err := convert[T](value)
	if err != nil {
		return -1, err
	}
	return l.Add(v), nil
}

func (l *List[T]) InsertAny(index int, value any) error {
	v, err := convert[T](value)
	if err != nil {
		return err
	}
	return l.Insert(index, v)
}

func (l *List[T]) check(index, bound int) error {
	if index < 0 || index >= bound {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, bound)
	}
	return nil
}

func convert[T any](value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	v, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T into %s", ErrIncompatibleValue, value, reflect.TypeFor[T]())
	}
	return v, nil
}
