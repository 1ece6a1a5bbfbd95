package provider

import (
	"fmt"
	"reflect"

	"github.com/zeusync/ifacedeps/internal/core/path"
	"github.com/zeusync/ifacedeps/pkg/concurrent"
	"github.com/zeusync/ifacedeps/pkg/sequence"
)

// Marker declares that the type carrying it provides Capability, either
// directly or through a field at most MaxDepth levels down. Path is filled in
// by Find.
type Marker struct {
	Capability reflect.Type
	MaxDepth   int
	Path       string
}

// Provides builds a marker for capability C with the default depth unless
// one is given.
func Provides[C any](maxDepth ...int) Marker {
	m := Marker{Capability: reflect.TypeFor[C](), MaxDepth: DefaultMaxDepth}
	if len(maxDepth) > 0 {
		m.MaxDepth = maxDepth[0]
	}
	return m
}

// Find resolves the marker against holder and stores the path.
func (m *Marker) Find(f *Finder, holder reflect.Type) (string, error) {
	p, err := f.FindPath(m.Capability, holder, m.MaxDepth)
	if err != nil {
		return "", err
	}
	m.Path = p
	return p, nil
}

// Declarer is implemented by holder types that carry provider markers.
type Declarer interface {
	ProvidedCapabilities() []Marker
}

// Resolve finds the path of every marker of d. The returned markers carry
// their paths; the first failure is returned.
func Resolve(f *Finder, d Declarer) ([]Marker, error) {
	holder := reflect.TypeOf(d)
	markers := d.ProvidedCapabilities()
	out := make([]Marker, len(markers))
	for i, m := range markers {
		if _, err := m.Find(f, holder); err != nil {
			return nil, err
		}
		out[i] = m
	}
	return out, nil
}

// ValidateAll resolves the markers of every declarer, at most limit at a
// time (no limit when limit <= 0), and joins all failures.
func ValidateAll(f *Finder, limit int, declarers ...Declarer) error {
	return concurrent.Concurrent(sequence.From(declarers), limit, func(d Declarer) error {
		if d == nil {
			return nil
		}
		if _, err := Resolve(f, d); err != nil {
			return fmt.Errorf("%s: %w", reflect.TypeOf(d), err)
		}
		return nil
	})
}

// Implements reports whether the dynamic type of obj satisfies capability.
func Implements(obj any, capability reflect.Type) bool {
	if obj == nil || capability == nil {
		return false
	}
	return reflect.TypeOf(obj).AssignableTo(capability)
}

// Lookup returns the value providing capability inside obj: obj itself when
// it implements capability, otherwise the value at the provider path.
func Lookup(f *Finder, obj any, capability reflect.Type, maxDepth int) (any, bool) {
	if obj == nil || capability == nil {
		return nil, false
	}
	if Implements(obj, capability) {
		return obj, true
	}
	p, err := f.FindPath(capability, reflect.TypeOf(obj), maxDepth)
	if err != nil {
		return nil, false
	}
	v := path.Resolve(obj, p)
	if !Implements(v, capability) {
		return nil, false
	}
	return v, true
}

// FilterCandidates keeps the providers of capability among candidates,
// replacing each by the value it provides, in order.
func FilterCandidates[T any](f *Finder, candidates []T, capability reflect.Type, maxDepth int) []any {
	return sequence.Map(sequence.From(candidates), func(c T) any {
		v, _ := Lookup(f, c, capability, maxDepth)
		return v
	}).Filter(func(v any) bool { return v != nil }).Collect()
}
