// Package editing is the surface an inspector-like editor uses to read and
// assign the interface fields of a holder: field listing, get and set with an
// undo checkpoint first, collection editing and candidate pickers.
package editing

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/zeusync/ifacedeps/internal/core/events/bus"
	"github.com/zeusync/ifacedeps/internal/core/fields"
	"github.com/zeusync/ifacedeps/internal/core/observability/log"
	"github.com/zeusync/ifacedeps/internal/core/path"
	"github.com/zeusync/ifacedeps/internal/core/provider"
	"github.com/zeusync/ifacedeps/pkg/object"
)

// TagKey is the struct tag read for field options, e.g. `ifacedeps:"optional"`.
const TagKey = "ifacedeps"

var (
	ErrHolderUnreachable = errors.New("holder path does not lead to a struct")
	ErrUnknownField      = errors.New("no interface field with that name")
	ErrNoPicker          = errors.New("no search provider or picker configured")
)

// UndoRecorder is called right before every change made through a Binding.
type UndoRecorder interface {
	RecordUndoCheckpoint(label string)
}

// SearchProvider returns candidate objects for a capability. Candidates may
// be providers of the capability rather than implementations of it.
type SearchProvider interface {
	Candidates(capability reflect.Type) []object.Object
}

// Picker presents candidates and calls onPicked with the chosen one, or
// with nil to clear. It may call back later, from the UI loop.
type Picker interface {
	Pick(capability reflect.Type, candidates []any, onPicked func(any))
}

type Options struct {
	Table  *fields.Table
	Finder *provider.Finder
	Undo   UndoRecorder
	Search SearchProvider
	Picker Picker
	// Events, when set, receives a FieldAssigned or CollectionEdited event
	// after every successful change.
	Events   *bus.Bus
	Logger   log.Log
	MaxDepth int
}

// FieldInfo describes one editable field.
type FieldInfo struct {
	Name     string
	Type     reflect.Type
	Category fields.Category
	Optional bool
}

// Stats counts fields by resolution state. Optional fields are counted in
// Optional as well as in Resolved or Unresolved.
type Stats struct {
	Resolved   int
	Unresolved int
	Optional   int
}

// Binding is an editor's handle on one holder. It is not safe for concurrent
// use, and must be rebuilt when the holder is replaced.
type Binding struct {
	root       any
	holderPath string
	holder     any
	layout     *fields.Layout
	optional   map[string]bool
	opts       Options
}

// BindHolder resolves the holder at holderPath inside root and lists its
// interface fields.
func BindHolder(root any, holderPath string, opts Options) (*Binding, error) {
	if opts.Table == nil {
		opts.Table = fields.NewTable()
	}
	if opts.Logger == nil {
		opts.Logger = log.Provide()
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = provider.DefaultMaxDepth
	}

	holder := path.Resolve(root, holderPath)
	if holder == nil {
		return nil, fmt.Errorf("%w: %q", ErrHolderUnreachable, holderPath)
	}
	layout, err := opts.Table.LayoutOf(holder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHolderUnreachable, err)
	}

	b := &Binding{
		root:       root,
		holderPath: holderPath,
		holder:     holder,
		layout:     layout,
		optional:   make(map[string]bool),
		opts:       opts,
	}
	for _, acc := range layout.Fields {
		if sf, ok := layout.Type.FieldByName(acc.Name); ok && hasOption(sf.Tag.Get(TagKey), "optional") {
			b.optional[acc.Name] = true
		}
	}
	return b, nil
}

func (b *Binding) Holder() any { return b.holder }

func (b *Binding) HolderPath() string { return b.holderPath }

// Fields lists the interface fields in layout order.
func (b *Binding) Fields() []FieldInfo {
	out := make([]FieldInfo, 0, b.layout.Len())
	for _, acc := range b.layout.Fields {
		out = append(out, FieldInfo{
			Name:     acc.Name,
			Type:     acc.Type,
			Category: acc.Category,
			Optional: b.optional[acc.Name],
		})
	}
	return out
}

// Value returns the current value of a field: the object for a singular
// field, the slice or list for a collection, nil when unset.
func (b *Binding) Value(name string) (any, error) {
	acc, err := b.field(name)
	if err != nil {
		return nil, err
	}
	return acc.Value(b.holder)
}

// SetValue records an undo checkpoint and assigns v to the field.
func (b *Binding) SetValue(name string, v any) error {
	acc, err := b.field(name)
	if err != nil {
		return err
	}
	label := "set " + name
	b.checkpoint(label)
	if err := acc.Set(b.holder, v); err != nil {
		return err
	}
	b.publish(bus.Event{Kind: bus.FieldAssigned, Field: name, Value: v, Label: label})
	return nil
}

// Collection wraps a slice or list field for direct editing. Changes made
// through the wrapper do not record undo checkpoints; use Mutate for that.
func (b *Binding) Collection(name string) (*fields.CollectionWrapper, error) {
	acc, err := b.field(name)
	if err != nil {
		return nil, err
	}
	return fields.NewCollectionWrapper(acc, b.holder)
}

// Mutate records an undo checkpoint and runs fn on the wrapped collection.
func (b *Binding) Mutate(name string, fn func(w *fields.CollectionWrapper) error) error {
	w, err := b.Collection(name)
	if err != nil {
		return err
	}
	label := "edit " + name
	b.checkpoint(label)
	if err := fn(w); err != nil {
		return err
	}
	b.publish(bus.Event{Kind: bus.CollectionEdited, Field: name, Label: label})
	return nil
}

// Resolved reports whether a singular field holds a live object, or a
// collection field is set and every element is live. Destroyed objects and
// placeholders count as unresolved.
func (b *Binding) Resolved(name string) (bool, error) {
	acc, err := b.field(name)
	if err != nil {
		return false, err
	}
	if acc.Category == fields.Singular {
		v, err := acc.Value(b.holder)
		return live(v), err
	}
	w, err := fields.NewCollectionWrapper(acc, b.holder)
	if err != nil {
		return false, err
	}
	if !w.AllNonNil() {
		return false, nil
	}
	return w.Iter().All(live), nil
}

// Unresolved lists the required fields that are not resolved.
func (b *Binding) Unresolved() []string {
	var out []string
	for _, acc := range b.layout.Fields {
		if b.optional[acc.Name] {
			continue
		}
		if ok, err := b.Resolved(acc.Name); err != nil || !ok {
			out = append(out, acc.Name)
		}
	}
	return out
}

func (b *Binding) Stats() Stats {
	var s Stats
	for _, acc := range b.layout.Fields {
		if ok, err := b.Resolved(acc.Name); err == nil && ok {
			s.Resolved++
		} else {
			s.Unresolved++
		}
		if b.optional[acc.Name] {
			s.Optional++
		}
	}
	return s
}

// OpenPicker asks the search provider for candidates, keeps those providing
// capability and hands them to the picker.
func (b *Binding) OpenPicker(capability reflect.Type, onPicked func(any)) error {
	if b.opts.Search == nil || b.opts.Picker == nil || b.opts.Finder == nil {
		return ErrNoPicker
	}
	candidates := provider.FilterCandidates(b.opts.Finder, b.opts.Search.Candidates(capability), capability, b.opts.MaxDepth)
	b.opts.Logger.Debug("picker opened", log.Type("capability", capability), log.Int("candidates", len(candidates)))
	b.opts.Picker.Pick(capability, candidates, onPicked)
	return nil
}

// PickInto opens a picker for the element type of a field. The picked value
// replaces a singular field or is appended to a collection.
func (b *Binding) PickInto(name string) error {
	acc, err := b.field(name)
	if err != nil {
		return err
	}
	capability := acc.Type
	if acc.Category.IsCollection() {
		capability = fields.ElemType(acc.Type)
	}
	return b.OpenPicker(capability, func(v any) {
		var err error
		if acc.Category == fields.Singular {
			err = b.SetValue(name, v)
		} else {
			err = b.Mutate(name, func(w *fields.CollectionWrapper) error {
				_, err := w.Add(v)
				return err
			})
		}
		if err != nil {
			b.opts.Logger.Warn("picked value rejected", log.String("field", name), log.Error(err))
		}
	})
}

func (b *Binding) field(name string) (fields.Accessor, error) {
	acc, ok := b.layout.Lookup(name)
	if !ok {
		return fields.Accessor{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, b.layout.Type, name)
	}
	return acc, nil
}

func (b *Binding) checkpoint(label string) {
	if b.opts.Undo != nil {
		b.opts.Undo.RecordUndoCheckpoint(label)
	}
}

func (b *Binding) publish(e bus.Event) {
	e.HolderPath = b.holderPath
	if err := b.opts.Events.Publish(e); err != nil {
		b.opts.Logger.Warn("change handler failed", log.String("field", e.Field), log.Error(err))
	}
}

// live is nil-safe liveness: objects go through object.Alive, anything else
// only has to be non-nil.
func live(v any) bool {
	if v == nil {
		return false
	}
	if o, ok := v.(object.Object); ok {
		return object.Alive(o)
	}
	return true
}

func hasOption(tag, option string) bool {
	for _, o := range strings.Split(tag, ",") {
		if strings.TrimSpace(o) == option {
			return true
		}
	}
	return false
}
