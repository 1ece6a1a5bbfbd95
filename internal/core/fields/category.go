package fields

import (
	"reflect"

	"github.com/zeusync/ifacedeps/pkg/collections"
)

// Category tells how a field holds interface values.
type Category uint8

const (
	Unsupported Category = iota
	// Singular fields are themselves of a non-empty interface type.
	Singular
	// Array fields are slices of a non-empty interface type.
	Array
	// List fields are *collections.List (or another collections.Dynamic) of a
	// non-empty interface type.
	List
)

func (c Category) String() string {
	switch c {
	case Singular:
		return "singular"
	case Array:
		return "array"
	case List:
		return "list"
	default:
		return "unsupported"
	}
}

// ParseCategory is the inverse of Category.String.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "singular":
		return Singular, true
	case "array":
		return Array, true
	case "list":
		return List, true
	case "unsupported":
		return Unsupported, true
	default:
		return Unsupported, false
	}
}

// IsCollection reports whether c is Array or List.
func (c Category) IsCollection() bool {
	return c == Array || c == List
}

var dynamicType = reflect.TypeFor[collections.Dynamic]()

// Classify derives the category from the declared type alone.
func Classify(t reflect.Type) Category {
	if t == nil {
		return Unsupported
	}
	if t.Kind() == reflect.Slice {
		if isCapability(t.Elem()) {
			return Array
		}
		return Unsupported
	}
	if IsList(t) {
		if isCapability(ListElem(t)) {
			return List
		}
		return Unsupported
	}
	switch t.Kind() {
	case reflect.Array, reflect.Map, reflect.Chan:
		return Unsupported
	}
	if isCapability(t) {
		return Singular
	}
	return Unsupported
}

// IsList reports whether t is a pointer type implementing collections.Dynamic.
func IsList(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Pointer && t.Implements(dynamicType)
}

// ListElem returns the element type of a list type, nil if t is not a list
// or its ElemType cannot be called on a nil receiver.
func ListElem(t reflect.Type) (elem reflect.Type) {
	if !IsList(t) {
		return nil
	}
	defer func() {
		if recover() != nil {
			elem = nil
		}
	}()
	return reflect.Zero(t).Interface().(collections.Dynamic).ElemType()
}

// ElemType returns the element type of a slice or list type, nil otherwise.
func ElemType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Slice {
		return t.Elem()
	}
	return ListElem(t)
}

// isCapability excludes the empty interface: a field of type any names no
// capability and is left alone.
func isCapability(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface && t.NumMethod() > 0
}
