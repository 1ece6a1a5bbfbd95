// Package path locates the holder object a snapshot works on, starting from
// the root object and following a dotted field path such as "wheels.[2].hub".
package path

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	"github.com/zeusync/ifacedeps/pkg/collections"
)

// arrayMarker is how hosts spell an element access in serialized field paths
// ("wheels.Array.data[2]"). It is rewritten to the bracket form "wheels.[2]".
const arrayMarker = "Array.data["

var ErrInvalidPath = errors.New("invalid holder path")

// Segment is one step of a holder path: a field name or an element index.
type Segment struct {
	Name    string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Name
}

// DeriveHolderPath turns the path of a snapshot field into the path of the
// struct holding it. A field on the root yields "".
func DeriveHolderPath(fieldPath string) string {
	i := strings.LastIndexByte(fieldPath, '.')
	if i < 0 {
		return ""
	}
	return Normalize(fieldPath[:i])
}

// Normalize rewrites host element markers into bracket segments.
func Normalize(p string) string {
	return strings.ReplaceAll(p, arrayMarker, "[")
}

// Split parses a holder path. Segments are separated by dots; a segment may be
// a bare index "[n]" or a name followed by indexes, "wheels[2]".
func Split(p string) ([]Segment, error) {
	p = Normalize(p)
	if p == "" {
		return nil, nil
	}

	var out []Segment
	for _, part := range strings.Split(p, ".") {
		name := part
		if i := strings.IndexByte(part, '['); i >= 0 {
			name = part[:i]
		}
		if name != "" {
			out = append(out, Segment{Name: name})
		} else if !strings.HasPrefix(part, "[") {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, p)
		}

		rest := part[len(name):]
		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, fmt.Errorf("%w: malformed index in %q", ErrInvalidPath, part)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index %q", ErrInvalidPath, rest[:end+1])
			}
			out = append(out, Segment{Index: n, IsIndex: true})
			rest = rest[end+1:]
		}
	}
	return out, nil
}

// Resolve walks holderPath from root and returns the value found there, or
// nil when root is nil, a field is missing, an index is out of range or a nil
// is met along the way. An empty path returns root.
//
// Structs reached through an addressable path are returned as pointers so the
// caller can write to their fields. Resolve never panics.
func Resolve(root any, holderPath string) (out any) {
	if root == nil {
		return nil
	}
	if holderPath == "" {
		return root
	}
	segments, err := Split(holderPath)
	if err != nil {
		return nil
	}

	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	cur := reflect.ValueOf(root)
	for _, seg := range segments {
		if seg.IsIndex {
			cur = index(cur, seg.Index)
		} else {
			cur = field(cur, seg.Name)
		}
		if !cur.IsValid() {
			return nil
		}
	}
	return result(cur)
}

// ResolveFieldHolder resolves the holder of the snapshot field at fieldPath.
func ResolveFieldHolder(root any, fieldPath string) any {
	return Resolve(root, DeriveHolderPath(fieldPath))
}

func field(v reflect.Value, name string) reflect.Value {
	v = indirect(v)
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	sf, ok := v.Type().FieldByName(name)
	if !ok {
		return reflect.Value{}
	}
	f, err := v.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}
	}
	return expose(f)
}

func index(v reflect.Value, i int) reflect.Value {
	v = unwrap(v)
	if !v.IsValid() {
		return reflect.Value{}
	}
	if v.Kind() == reflect.Pointer && v.CanInterface() {
		if d, ok := v.Interface().(collections.Dynamic); ok {
			if v.IsNil() {
				return reflect.Value{}
			}
			slot, err := d.Slot(i)
			if err != nil {
				return reflect.Value{}
			}
			return slot
		}
	}
	v = indirect(v)
	if !v.IsValid() {
		return reflect.Value{}
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if i >= v.Len() {
			return reflect.Value{}
		}
		return expose(v.Index(i))
	}
	return reflect.Value{}
}

func result(v reflect.Value) any {
	v = unwrap(v)
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	case reflect.Struct:
		if v.CanAddr() {
			return expose(v).Addr().Interface()
		}
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// unwrap strips interfaces; a nil interface becomes invalid.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// indirect strips interfaces and pointers; any nil becomes invalid.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() {
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer:
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		default:
			return v
		}
	}
	return v
}

func expose(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}
