package snapshot

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/ifacedeps/internal/core/fields"
	"github.com/zeusync/ifacedeps/internal/core/schema/registry"
)

// State is where a Snapshot is in its bind/serialize/deserialize cycle.
type State uint8

const (
	Unbound State = iota
	Bound
	Serialized
	Deserialized
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Bound:
		return "bound"
	case Serialized:
		return "serialized"
	case Deserialized:
		return "deserialized"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// FieldDescriptor records one field of the holder as it was when serialized.
// Descriptors are positional: the values of a field follow those of the
// fields before it.
type FieldDescriptor struct {
	Name     string
	Type     string
	Category fields.Category
	// Length is the element count of a collection field, 0 for singular ones.
	Length int
	// Initialized tells a nil collection from an empty one.
	Initialized bool
}

// span is the number of values the descriptor owns.
func (d FieldDescriptor) span() int {
	if d.Category == fields.Singular {
		return 1
	}
	return d.Length
}

func totalSpan(descriptors []FieldDescriptor) int {
	n := 0
	for _, d := range descriptors {
		n += d.span()
	}
	return n
}

// fingerprint hashes the shape of a layout: names, type tokens and
// categories in order. Lengths are not part of it.
type fingerprint struct {
	digest *xxhash.Digest
}

func newFingerprint() *fingerprint {
	return &fingerprint{digest: xxhash.New()}
}

func (f *fingerprint) add(name, token string, category fields.Category) {
	_, _ = f.digest.WriteString(name)
	_, _ = f.digest.Write([]byte{0})
	_, _ = f.digest.WriteString(token)
	_, _ = f.digest.Write([]byte{0, byte(category)})
}

func (f *fingerprint) sum() uint64 {
	return f.digest.Sum64()
}

func descriptorsFingerprint(descriptors []FieldDescriptor) uint64 {
	f := newFingerprint()
	for _, d := range descriptors {
		f.add(d.Name, d.Type, d.Category)
	}
	return f.sum()
}

func layoutFingerprint(layout *fields.Layout, r *registry.TypeRegistry) uint64 {
	f := newFingerprint()
	for _, acc := range layout.Fields {
		f.add(acc.Name, r.Token(acc.Type), acc.Category)
	}
	return f.sum()
}

func fingerprintString(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
