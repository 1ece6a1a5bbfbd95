// Package ifacedeps is the public entry point for hosts that keep interface
// typed fields on their objects and need them to survive a save/load cycle.
//
// A host builds one Session, gives each holder a Snapshot through
// Session.Track and calls Serialize before saving and Deserialize after
// loading. Editors use Session.Bind to read and assign the fields.
package ifacedeps

import (
	"github.com/zeusync/ifacedeps/internal/config"
	"github.com/zeusync/ifacedeps/internal/core/editing"
	"github.com/zeusync/ifacedeps/internal/core/events/bus"
	"github.com/zeusync/ifacedeps/internal/core/fields"
	"github.com/zeusync/ifacedeps/internal/core/provider"
	"github.com/zeusync/ifacedeps/internal/core/snapshot"
	"github.com/zeusync/ifacedeps/internal/injector"
	"github.com/zeusync/ifacedeps/internal/session"
	"github.com/zeusync/ifacedeps/pkg/collections"
	"github.com/zeusync/ifacedeps/pkg/encoding"
	"github.com/zeusync/ifacedeps/pkg/object"
)

type (
	Config  = config.Config
	Session = session.Session

	Object   = object.Object
	Base     = object.Base
	ID       = object.ID
	Missing  = object.Missing
	Resolver = object.Resolver
	Objects  = object.Table

	List[T any] = collections.List[T]

	Category          = fields.Category
	CollectionWrapper = fields.CollectionWrapper

	Snapshot        = snapshot.Snapshot
	SnapshotOption  = snapshot.Option
	State           = snapshot.State
	ValidationLevel = snapshot.ValidationLevel
	Record          = snapshot.Record

	Marker   = provider.Marker
	Declarer = provider.Declarer

	Binding        = editing.Binding
	EditOptions    = editing.Options
	UndoRecorder   = editing.UndoRecorder
	SearchProvider = editing.SearchProvider
	Picker         = editing.Picker

	Event     = bus.Event
	EventKind = bus.Kind

	Codec = encoding.Codec
)

const (
	Unsupported = fields.Unsupported
	Singular    = fields.Singular
	Array       = fields.Array
	ListField   = fields.List

	ValidationNone  = snapshot.ValidationNone
	ValidationQuick = snapshot.ValidationQuick
	ValidationFull  = snapshot.ValidationFull

	FieldAssigned    = bus.FieldAssigned
	CollectionEdited = bus.CollectionEdited
)

var (
	JSON = encoding.JSON
	YAML = encoding.YAML

	ErrNotACollectionField = fields.ErrNotACollectionField
	ErrIndexOutOfRange     = fields.ErrIndexOutOfRange
	ErrNotAProvider        = provider.ErrNotAProvider
	ErrInvalidRecord       = snapshot.ErrInvalidRecord
	ErrUnresolvedRoot      = snapshot.ErrUnresolvedRoot
)

// NewSession builds a session from cfg, or from the environment when cfg is
// nil.
func NewSession(cfg *Config) (*Session, error) {
	if cfg == nil {
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return injector.InitializeSession(cfg)
}

func DefaultConfig() *Config { return config.Default() }

func NewBase() Base { return object.NewBase() }

func NewList[T any](items ...T) *List[T] { return collections.NewList(items...) }

func NewObjects(objects ...Object) *Objects { return object.NewTable(objects...) }

// Provides declares that a holder provides capability C within maxDepth
// levels (one by default).
func Provides[C any](maxDepth ...int) Marker { return provider.Provides[C](maxDepth...) }
