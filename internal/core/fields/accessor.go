package fields

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Accessor reads and writes one field of a holder struct. Accessors are built
// once per holder type (see Table) and shared; they carry no holder state.
type Accessor struct {
	Name     string
	Type     reflect.Type
	Category Category

	get func(holder reflect.Value) (reflect.Value, error)
	set func(holder reflect.Value, value reflect.Value) error
}

// Valid reports whether the accessor can be used.
func (a Accessor) Valid() bool {
	return a.get != nil && a.set != nil
}

// Get returns the field value of holder, a pointer to the struct (or the
// struct itself for read-only access). The returned value has the field's type.
func (a Accessor) Get(holder any) (reflect.Value, error) {
	hv, err := holderValue(holder)
	if err != nil {
		return reflect.Value{}, err
	}
	return a.get(hv)
}

// Value returns the field value as an interface, nil for nil interfaces,
// slices and pointers.
func (a Accessor) Value(holder any) (any, error) {
	v, err := a.Get(holder)
	if err != nil {
		return nil, err
	}
	return valueOf(v), nil
}

// Set assigns value to the field of holder. A nil value stores the zero value.
func (a Accessor) Set(holder any, value any) error {
	hv, err := holderValue(holder)
	if err != nil {
		return err
	}
	return a.set(hv, reflect.ValueOf(value))
}

// SetValue is Set for callers already holding a reflect.Value; an invalid value
// stores the zero value.
func (a Accessor) SetValue(holder any, value reflect.Value) error {
	hv, err := holderValue(holder)
	if err != nil {
		return err
	}
	return a.set(hv, value)
}

func (a Accessor) String() string {
	return fmt.Sprintf("%s %s (%s)", a.Name, a.Type, a.Category)
}

// Bind builds an accessor from typed closures instead of reflection on the
// struct layout. The holder passed to Get and Set must be a *H.
func Bind[H any, F any](name string, get func(*H) F, set func(*H, F)) Accessor {
	typ := reflect.TypeFor[F]()
	return Accessor{
		Name:     name,
		Type:     typ,
		Category: Classify(typ),
		get: func(holder reflect.Value) (reflect.Value, error) {
			h, err := typedHolder[H](holder)
			if err != nil {
				return reflect.Value{}, err
			}
			f := get(h)
			return reflect.ValueOf(&f).Elem(), nil
		},
		set: func(holder reflect.Value, value reflect.Value) error {
			h, err := typedHolder[H](holder)
			if err != nil {
				return err
			}
			f, err := assignable(typ, value)
			if err != nil {
				return err
			}
			fv, _ := f.Interface().(F)
			set(h, fv)
			return nil
		},
	}
}

// FieldByName builds a reflection accessor for any field of t, classified or
// not. Unexported and promoted fields are found too.
func FieldByName(t reflect.Type, name string) (Accessor, error) {
	t = structType(t)
	if t == nil {
		return Accessor{}, ErrNotStruct
	}
	sf, ok := t.FieldByName(name)
	if !ok {
		return Accessor{}, fmt.Errorf("%w: %s.%s", ErrFieldNotFound, t, name)
	}
	return structAccessor(sf.Name, sf.Type, sf.Index), nil
}

func structAccessor(name string, typ reflect.Type, index []int) Accessor {
	return Accessor{
		Name:     name,
		Type:     typ,
		Category: Classify(typ),
		get: func(holder reflect.Value) (reflect.Value, error) {
			if holder.Kind() != reflect.Struct {
				return reflect.Value{}, ErrNotStruct
			}
			f, err := holder.FieldByIndexErr(index)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("field %s: %w", name, err)
			}
			return expose(f), nil
		},
		set: func(holder reflect.Value, value reflect.Value) error {
			if holder.Kind() != reflect.Struct {
				return ErrNotStruct
			}
			if !holder.CanAddr() {
				return fmt.Errorf("%w: %s", ErrNotAddressable, name)
			}
			f, err := holder.FieldByIndexErr(index)
			if err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			dst := expose(f)
			v, err := assignable(typ, value)
			if err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			dst.Set(v)
			return nil
		},
	}
}

// holderValue turns a pointer-to-struct or struct into the struct value.
func holderValue(holder any) (reflect.Value, error) {
	v := reflect.ValueOf(holder)
	if !v.IsValid() {
		return reflect.Value{}, ErrNilHolder
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, ErrNilHolder
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotStruct, v.Type())
	}
	return v, nil
}

func typedHolder[H any](holder reflect.Value) (*H, error) {
	if !holder.CanAddr() {
		return nil, ErrNotAddressable
	}
	h, ok := holder.Addr().Interface().(*H)
	if !ok {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrNotStruct, reflect.TypeFor[H](), holder.Type())
	}
	return h, nil
}

// expose lifts the read-only flag reflect puts on unexported fields so they can
// be read through Interface and written with Set. Non-addressable values are
// returned unchanged.
func expose(v reflect.Value) reflect.Value {
	if v.CanInterface() || !v.CanAddr() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// assignable converts value for storing into a slot of type typ. An invalid
// value or an untyped nil becomes the zero value.
func assignable(typ reflect.Type, value reflect.Value) (reflect.Value, error) {
	if !value.IsValid() {
		return reflect.Zero(typ), nil
	}
	if value.Type().AssignableTo(typ) {
		if value.Type() == typ {
			return value, nil
		}
		out := reflect.New(typ).Elem()
		out.Set(value)
		return out, nil
	}
	if value.Kind() == reflect.Interface && value.IsNil() {
		return reflect.Zero(typ), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s into %s", ErrIncompatibleValue, value.Type(), typ)
}

// valueOf unwraps v into an interface value, mapping nil references to nil.
func valueOf(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return nil
		}
	}
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

func structType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}
