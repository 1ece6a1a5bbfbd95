package fields

import (
	"fmt"
	"reflect"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Layout is the ordered set of classifiable fields of one holder type.
type Layout struct {
	Type   reflect.Type
	Fields []Accessor
	byName map[string]int
}

func newLayout(t reflect.Type, accessors []Accessor) *Layout {
	l := &Layout{
		Type:   t,
		Fields: accessors,
		byName: make(map[string]int, len(accessors)),
	}
	for i, a := range accessors {
		l.byName[a.Name] = i
	}
	return l
}

// Lookup finds a field by name.
func (l *Layout) Lookup(name string) (Accessor, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Accessor{}, false
	}
	return l.Fields[i], true
}

func (l *Layout) Len() int {
	return len(l.Fields)
}

// Table caches one Layout per holder struct type. Layouts are either derived
// by reflection on first use or registered explicitly. Safe for concurrent use.
type Table struct {
	layouts sync.Map // reflect.Type -> *Layout
	group   singleflight.Group
}

func NewTable() *Table {
	return &Table{}
}

// Register installs an explicit layout for t, replacing any cached one. Every
// accessor must be of a supported category and carry a distinct name.
func (t *Table) Register(typ reflect.Type, accessors ...Accessor) error {
	st := structType(typ)
	if st == nil {
		return fmt.Errorf("%w: %v", ErrNotStruct, typ)
	}

	seen := make(map[string]struct{}, len(accessors))
	for _, a := range accessors {
		if !a.Valid() || a.Category == Unsupported {
			return fmt.Errorf("%w: %s.%s", ErrUnsupportedField, st, a.Name)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("duplicate field %q in layout of %s", a.Name, st)
		}
		seen[a.Name] = struct{}{}
	}

	t.layouts.Store(st, newLayout(st, append([]Accessor(nil), accessors...)))
	return nil
}

// Layout returns the layout of typ (a struct or pointer to struct).
func (t *Table) Layout(typ reflect.Type) (*Layout, error) {
	st := structType(typ)
	if st == nil {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, typ)
	}
	if l, ok := t.layouts.Load(st); ok {
		return l.(*Layout), nil
	}

	v, _, _ := t.group.Do(fmt.Sprintf("%p", st), func() (any, error) {
		if l, ok := t.layouts.Load(st); ok {
			return l, nil
		}
		l, _ := t.layouts.LoadOrStore(st, newLayout(st, EnumerateClassifiable(st)))
		return l, nil
	})
	return v.(*Layout), nil
}

// LayoutOf returns the layout of the runtime type of holder.
func (t *Table) LayoutOf(holder any) (*Layout, error) {
	if holder == nil {
		return nil, ErrNilHolder
	}
	return t.Layout(reflect.TypeOf(holder))
}

// EnumerateClassifiable lists the classifiable fields of a struct type in
// declaration order. Fields promoted from value-embedded structs are listed
// where the embedded struct is declared; a shallower field shadows a deeper
// one with the same name and equally deep duplicates are dropped, as Go's
// selector rules make them unreachable.
func EnumerateClassifiable(typ reflect.Type) []Accessor {
	st := structType(typ)
	if st == nil {
		return nil
	}

	type candidate struct {
		field reflect.StructField
		index []int
		depth int
	}
	var candidates []candidate
	var walk func(t reflect.Type, prefix []int, depth int, visiting map[reflect.Type]bool)
	walk = func(t reflect.Type, prefix []int, depth int, visiting map[reflect.Type]bool) {
		visiting[t] = true
		defer delete(visiting, t)
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			index := append(append([]int(nil), prefix...), i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !visiting[sf.Type] {
				walk(sf.Type, index, depth+1, visiting)
				continue
			}
			candidates = append(candidates, candidate{field: sf, index: index, depth: depth})
		}
	}
	walk(st, nil, 0, make(map[reflect.Type]bool))

	shallowest := make(map[string]int)
	count := make(map[string]int)
	for _, c := range candidates {
		d, ok := shallowest[c.field.Name]
		switch {
		case !ok || c.depth < d:
			shallowest[c.field.Name] = c.depth
			count[c.field.Name] = 1
		case c.depth == d:
			count[c.field.Name]++
		}
	}

	out := make([]Accessor, 0, len(candidates))
	for _, c := range candidates {
		name := c.field.Name
		if c.depth != shallowest[name] || count[name] > 1 {
			continue
		}
		if Classify(c.field.Type) == Unsupported {
			continue
		}
		out = append(out, structAccessor(name, c.field.Type, c.index))
	}
	return out
}

// InterfaceFields lists only the Singular fields of typ.
func InterfaceFields(typ reflect.Type) []Accessor {
	var out []Accessor
	for _, a := range EnumerateClassifiable(typ) {
		if a.Category == Singular {
			out = append(out, a)
		}
	}
	return out
}

// FieldOfType returns the first classifiable field whose declared type is
// exactly fieldType.
func FieldOfType(typ, fieldType reflect.Type) (Accessor, bool) {
	for _, a := range EnumerateClassifiable(typ) {
		if a.Type == fieldType {
			return a, true
		}
	}
	return Accessor{}, false
}
