package snapshot

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/ifacedeps/internal/core/fields"
	"github.com/zeusync/ifacedeps/pkg/encoding"
	"github.com/zeusync/ifacedeps/pkg/object"
)

// Record is the persisted form of a Snapshot. Objects are stored by ID; a nil
// value is stored as null.
type Record struct {
	Root       string        `json:"root" yaml:"root"`
	HolderPath string        `json:"holder_path" yaml:"holder_path"`
	Fields     []FieldRecord `json:"fields" yaml:"fields"`
	Values     []*string     `json:"values" yaml:"values"`
}

type FieldRecord struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Category    string `json:"category" yaml:"category"`
	Length      int    `json:"length" yaml:"length"`
	Initialized bool   `json:"initialized" yaml:"initialized"`
}

// Export copies the snapshot into a Record.
func (s *Snapshot) Export() Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		HolderPath: s.holderPath,
		Fields:     make([]FieldRecord, 0, len(s.descriptors)),
		Values:     make([]*string, 0, len(s.values)),
	}
	if !isNil(s.root) {
		rec.Root = s.root.ObjectID().String()
	}
	for _, d := range s.descriptors {
		rec.Fields = append(rec.Fields, FieldRecord{
			Name:        d.Name,
			Type:        d.Type,
			Category:    d.Category.String(),
			Length:      d.Length,
			Initialized: d.Initialized,
		})
	}
	for _, v := range s.values {
		if v == nil {
			rec.Values = append(rec.Values, nil)
			continue
		}
		id := v.ObjectID().String()
		rec.Values = append(rec.Values, &id)
	}
	return rec
}

// Import replaces the snapshot contents with rec. The root and every value are
// looked up in resolver; values that cannot be found become object.Missing
// placeholders, which restore as nil. An unresolvable root is an error and
// leaves the snapshot unchanged.
func (s *Snapshot) Import(rec Record, resolver object.Resolver) error {
	descriptors := make([]FieldDescriptor, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		category, ok := fields.ParseCategory(f.Category)
		if !ok || category == fields.Unsupported {
			return fmt.Errorf("%w: field %q has category %q", ErrInvalidRecord, f.Name, f.Category)
		}
		if f.Length < 0 || (category == fields.Singular && f.Length != 0) || (!f.Initialized && f.Length != 0) {
			return fmt.Errorf("%w: field %q has length %d", ErrInvalidRecord, f.Name, f.Length)
		}
		descriptors = append(descriptors, FieldDescriptor{
			Name:        f.Name,
			Type:        f.Type,
			Category:    category,
			Length:      f.Length,
			Initialized: f.Initialized,
		})
	}
	if want := totalSpan(descriptors); want != len(rec.Values) {
		return fmt.Errorf("%w: %d values for %d slots", ErrInvalidRecord, len(rec.Values), want)
	}

	values := make([]object.Object, 0, len(rec.Values))
	for i, raw := range rec.Values {
		if raw == nil {
			values = append(values, nil)
			continue
		}
		id, err := uuid.Parse(*raw)
		if err != nil {
			return fmt.Errorf("%w: value %d: %w", ErrInvalidRecord, i, err)
		}
		values = append(values, lookup(resolver, id))
	}

	var root object.Object
	if rec.Root != "" {
		id, err := uuid.Parse(rec.Root)
		if err != nil {
			return fmt.Errorf("%w: root: %w", ErrInvalidRecord, err)
		}
		o := lookup(resolver, id)
		if object.IsMissing(o) {
			return fmt.Errorf("%w: %s", ErrUnresolvedRoot, id)
		}
		root = o
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
	s.holderPath = rec.HolderPath
	s.descriptors, s.values = descriptors, values
	if isNil(root) {
		s.state = Unbound
	} else {
		s.state = Serialized
	}
	return nil
}

// Encode exports the snapshot and marshals it with codec.
func (s *Snapshot) Encode(codec encoding.Codec) ([]byte, error) {
	data, err := codec.Marshal(s.Export())
	if err != nil {
		return nil, fmt.Errorf("encode snapshot as %s: %w", codec.Format(), err)
	}
	return data, nil
}

// Decode unmarshals data with codec and imports the result.
func (s *Snapshot) Decode(codec encoding.Codec, data []byte, resolver object.Resolver) error {
	var rec Record
	if err := codec.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrInvalidRecord, codec.Format(), err)
	}
	return s.Import(rec, resolver)
}

func lookup(resolver object.Resolver, id object.ID) object.Object {
	if resolver != nil {
		if o, ok := resolver.Resolve(id); ok && o != nil {
			return o
		}
	}
	return object.Missing{ID: id}
}
