package session

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ifacedeps/internal/config"
	"github.com/zeusync/ifacedeps/internal/core/editing"
	"github.com/zeusync/ifacedeps/internal/core/events/bus"
	"github.com/zeusync/ifacedeps/internal/core/fields"
	"github.com/zeusync/ifacedeps/internal/core/observability/log"
	"github.com/zeusync/ifacedeps/internal/core/provider"
	"github.com/zeusync/ifacedeps/internal/core/schema/registry"
	"github.com/zeusync/ifacedeps/internal/core/snapshot"
	"github.com/zeusync/ifacedeps/pkg/object"
)

type engine interface {
	object.Object
	Start() string
}

type motor struct {
	object.Base
	name string
}

func (m *motor) Start() string { return m.name }

type car struct {
	object.Base
	Engine engine
	Spares []engine
	deps   *snapshot.Snapshot
}

type garage struct {
	object.Base
	cars []car
}

type workshop struct {
	spare *motor
}

func (*workshop) ProvidedCapabilities() []provider.Marker {
	return []provider.Marker{provider.Provides[engine]()}
}

type emptyShed struct {
	name string
}

func (*emptyShed) ProvidedCapabilities() []provider.Marker {
	return []provider.Marker{provider.Provides[engine]()}
}

func newMotor(name string) *motor {
	return &motor{Base: object.NewBase(), name: name}
}

func newSession(t *testing.T, cfg *config.Config) *Session {
	t.Helper()
	finder, err := ProvideFinder(cfg, log.NewNop())
	require.NoError(t, err)
	return New(cfg, log.NewNop(), registry.New(), fields.NewTable(), finder, bus.New())
}

func TestSession_Accessors(t *testing.T) {
	cfg := config.Default()
	s := newSession(t, cfg)

	assert.Same(t, cfg, s.Config())
	assert.NotNil(t, s.Logger())
	assert.NotNil(t, s.Registry())
	assert.NotNil(t, s.Table())
	assert.NotNil(t, s.Finder())
	assert.NotNil(t, s.Events())
}

func TestSession_TrackRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.ValidationLevel = 2
	s := newSession(t, cfg)

	a, b := newMotor("a"), newMotor("b")
	root := &garage{Base: object.NewBase(), cars: []car{{Engine: a, Spares: []engine{b}}}}

	snap := s.Track(root, "cars.[0].deps")
	assert.Equal(t, "cars.[0]", snap.HolderPath())
	assert.Equal(t, snapshot.Bound, snap.State())

	snap.Serialize()
	assert.Equal(t, []object.Object{a, b}, snap.Values())

	root.cars[0].Engine = nil
	root.cars[0].Spares = nil
	snap.Deserialize()

	assert.Equal(t, snapshot.Deserialized, snap.State())
	assert.Same(t, a, root.cars[0].Engine)
	require.Len(t, root.cars[0].Spares, 1)
	assert.Same(t, b, root.cars[0].Spares[0])

	tokens := s.Registry().Tokens()
	assert.Contains(t, tokens, registry.TokenOf(reflect.TypeFor[engine]()))
}

func TestSession_NewSnapshotIsUnbound(t *testing.T) {
	s := newSession(t, config.Default())

	snap := s.NewSnapshot(snapshot.WithValidationLevel(snapshot.ValidationQuick))
	assert.Equal(t, snapshot.Unbound, snap.State())
}

func TestSession_Bind(t *testing.T) {
	s := newSession(t, config.Default())
	var assigned []string
	s.Events().Subscribe(bus.FieldAssigned, func(e bus.Event) error {
		assigned = append(assigned, e.Field)
		return nil
	})

	holder := &car{Base: object.NewBase()}
	b, err := s.Bind(holder, "", editing.Options{})
	require.NoError(t, err)

	m := newMotor("v8")
	require.NoError(t, b.SetValue("Engine", m))
	assert.Same(t, m, holder.Engine)
	assert.Equal(t, []string{"Engine"}, assigned)
	assert.Equal(t, []string{"Spares"}, b.Unresolved())

	_, err = s.Bind(holder, "missing", editing.Options{})
	assert.ErrorIs(t, err, editing.ErrHolderUnreachable)
}

func TestSession_FindProvider(t *testing.T) {
	s := newSession(t, config.Default())
	capability := reflect.TypeFor[engine]()

	got, err := s.FindProvider(capability, reflect.TypeFor[workshop]())
	require.NoError(t, err)
	assert.Equal(t, "spare", got)

	cfg := config.Default()
	cfg.ProviderMaxDepth = 0
	shallow := newSession(t, cfg)
	_, err = shallow.FindProvider(capability, reflect.TypeFor[workshop]())
	assert.ErrorIs(t, err, provider.ErrNotAProvider)
}

func TestSession_Validate(t *testing.T) {
	s := newSession(t, config.Default())

	assert.NoError(t, s.Validate(&workshop{}))

	err := s.Validate(&workshop{}, &emptyShed{})
	assert.ErrorIs(t, err, provider.ErrNotAProvider)
	assert.Contains(t, err.Error(), "emptyShed")
}
