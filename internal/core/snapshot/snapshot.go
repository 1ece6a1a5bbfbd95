// Package snapshot persists the values of interface-typed fields across a host
// save/load cycle. Before the host saves, Serialize flattens the holder's
// interface fields into a list of object references plus a layout description;
// after the host loads, Deserialize writes the references back, skipping
// whatever no longer fits the live type.
package snapshot

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/zeusync/ifacedeps/internal/core/fields"
	"github.com/zeusync/ifacedeps/internal/core/observability/log"
	"github.com/zeusync/ifacedeps/internal/core/path"
	"github.com/zeusync/ifacedeps/internal/core/schema/registry"
	"github.com/zeusync/ifacedeps/pkg/encoding"
	"github.com/zeusync/ifacedeps/pkg/object"
)

var _ encoding.SerializationCallbackReceiver = (*Snapshot)(nil)

// Snapshot is the side record kept next to a holder struct. The host calls
// Serialize and Deserialize (or the SerializationCallbackReceiver aliases)
// from any goroutine; calls on one Snapshot are serialized by its mutex.
type Snapshot struct {
	mu sync.Mutex

	root        object.Object
	holderPath  string
	state       State
	descriptors []FieldDescriptor
	values      []object.Object

	level     ValidationLevel
	registry  *registry.TypeRegistry
	validator *Validator
	table     *fields.Table
	logger    log.Log
}

type Option func(*Snapshot)

func WithLogger(l log.Log) Option {
	return func(s *Snapshot) { s.logger = l }
}

// WithRegistry shares a type registry, normally the session's.
func WithRegistry(r *registry.TypeRegistry) Option {
	return func(s *Snapshot) { s.registry = r }
}

// WithTable shares a layout table, normally the session's.
func WithTable(t *fields.Table) Option {
	return func(s *Snapshot) { s.table = t }
}

func WithValidationLevel(level ValidationLevel) Option {
	return func(s *Snapshot) { s.level = level }
}

func New(opts ...Option) *Snapshot {
	s := &Snapshot{}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Provide()
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	if s.table == nil {
		s.table = fields.NewTable()
	}
	s.validator = NewValidator(s.registry)
	return s
}

// Bind attaches the snapshot to root. snapshotFieldPath is the path of the
// field holding this Snapshot inside root; its parent is the holder whose
// interface fields are recorded.
func (s *Snapshot) Bind(root object.Object, snapshotFieldPath string) {
	s.BindHolder(root, path.DeriveHolderPath(snapshotFieldPath))
}

// BindHolder attaches the snapshot to root with an explicit holder path, ""
// meaning root itself. Recorded data is kept.
func (s *Snapshot) BindHolder(root object.Object, holderPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root = root
	s.holderPath = path.Normalize(holderPath)
	if isNil(root) {
		s.state = Unbound
	} else {
		s.state = Bound
	}
}

func (s *Snapshot) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Snapshot) Root() object.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

func (s *Snapshot) HolderPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holderPath
}

// Descriptors returns a copy of the recorded layout.
func (s *Snapshot) Descriptors() []FieldDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.descriptors)
}

// Values returns a copy of the recorded references.
func (s *Snapshot) Values() []object.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.values)
}

func (s *Snapshot) OnBeforeSerialize() { s.Serialize() }

func (s *Snapshot) OnAfterDeserialize() { s.Deserialize() }

// Serialize records the current values of the holder's interface fields. It
// never fails: when the holder cannot be reached the previous record is kept.
func (s *Snapshot) Serialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverHook("serialize")

	holder, layout, err := s.resolve()
	if err != nil {
		s.logger.Debug("snapshot serialize skipped", log.String("holder_path", s.holderPath), log.Error(err))
		return
	}

	descriptors := make([]FieldDescriptor, 0, layout.Len())
	values := make([]object.Object, 0, layout.Len())
	for _, acc := range layout.Fields {
		d := FieldDescriptor{
			Name:     acc.Name,
			Type:     s.registry.Token(acc.Type),
			Category: acc.Category,
		}

		if acc.Category == fields.Singular {
			v, err := acc.Value(holder)
			if err != nil {
				s.logger.Debug("snapshot field unreadable", log.String("field", acc.Name), log.Error(err))
			}
			values = append(values, asObject(v))
			descriptors = append(descriptors, d)
			continue
		}

		w, err := fields.NewCollectionWrapper(acc, holder)
		if err != nil {
			s.logger.Debug("snapshot field unreadable", log.String("field", acc.Name), log.Error(err))
		} else if w.Backing() != nil {
			d.Initialized = true
			for item := range w.Iter().Seq() {
				values = append(values, asObject(item))
				d.Length++
			}
		}
		descriptors = append(descriptors, d)
	}

	s.descriptors, s.values = descriptors, values
	s.state = Serialized
}

// Deserialize writes the recorded values back into the holder. Fields that no
// longer exist, changed category or fail type validation are skipped; values
// that do not fit their slot are stored as nil. It never fails.
func (s *Snapshot) Deserialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.recoverHook("deserialize")

	holder, layout, err := s.resolve()
	if err != nil {
		s.logger.Debug("snapshot deserialize skipped", log.String("holder_path", s.holderPath), log.Error(err))
		return
	}

	level := s.level
	if level != ValidationNone {
		if sum := descriptorsFingerprint(s.descriptors); sum == layoutFingerprint(layout, s.registry) {
			s.logger.Debug("snapshot layout unchanged", log.String("fingerprint", fingerprintString(sum)))
			level = ValidationNone
		}
	}

	cursor := 0
	for _, d := range s.descriptors {
		span := d.span()
		if span < 0 || cursor+span > len(s.values) {
			s.logger.Debug("snapshot values truncated", log.String("field", d.Name), log.Int("cursor", cursor))
			break
		}
		vals := s.values[cursor : cursor+span]
		cursor += span

		acc, ok := layout.Lookup(d.Name)
		if !ok {
			continue
		}
		if acc.Category != d.Category {
			s.logger.Warn("snapshot field changed category",
				log.String("field", d.Name),
				log.String("stored", d.Category.String()),
				log.String("current", acc.Category.String()))
			continue
		}
		if !s.validator.Validate(level, acc.Type, d.Type) {
			s.logger.Warn("snapshot field type mismatch",
				log.String("field", d.Name),
				log.String("stored_type", d.Type),
				log.Type("field_type", acc.Type),
				log.String("validation", level.String()))
			continue
		}

		if err := s.restore(holder, acc, d, vals); err != nil {
			s.logger.Debug("snapshot field not restored", log.String("field", d.Name), log.Error(err))
		}
	}
	s.state = Deserialized
}

func (s *Snapshot) restore(holder any, acc fields.Accessor, d FieldDescriptor, vals []object.Object) error {
	if d.Category == fields.Singular {
		if err := acc.Set(holder, assignableObject(vals[0])); err != nil {
			return acc.Set(holder, nil)
		}
		return nil
	}

	if !d.Initialized {
		return acc.Set(holder, nil)
	}
	w, err := fields.NewCollectionWrapper(acc, holder)
	if err != nil {
		return err
	}
	if _, err := w.Create(d.Length); err != nil {
		return err
	}
	for i, v := range vals {
		v := assignableObject(v)
		if w.IsArray() {
			if err := w.Set(i, v); err != nil {
				if err := w.Set(i, nil); err != nil {
					return err
				}
			}
			continue
		}
		if _, err := w.Add(v); err != nil {
			if _, err := w.Add(nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolve finds the holder struct and its layout.
func (s *Snapshot) resolve() (any, *fields.Layout, error) {
	if isNil(s.root) {
		return nil, nil, ErrUnbound
	}
	holder := path.Resolve(s.root, s.holderPath)
	if isNil(holder) {
		return nil, nil, fmt.Errorf("%w: %q", ErrHolderUnreachable, s.holderPath)
	}
	layout, err := s.table.LayoutOf(holder)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrHolderUnreachable, err)
	}
	return holder, layout, nil
}

func (s *Snapshot) recoverHook(hook string) {
	if r := recover(); r != nil {
		s.logger.Debug("snapshot hook recovered", log.String("hook", hook), log.Any("panic", r))
	}
}

// asObject keeps v only if it is a non-nil Object. The check is by identity
// and never asks the host whether the object is still alive.
func asObject(v any) object.Object {
	o, ok := v.(object.Object)
	if !ok || isNil(o) {
		return nil
	}
	return o
}

// assignableObject turns placeholders into nil so they are never stored in a
// field.
func assignableObject(o object.Object) any {
	if o == nil || object.IsMissing(o) {
		return nil
	}
	return o
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
