// Package session bundles the long-lived pieces a host keeps while it edits
// and saves holders: configuration, logger, type registry, layout table,
// provider finder and change bus.
package session

import (
	"reflect"

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

type Session struct {
	cfg      *config.Config
	logger   log.Log
	registry *registry.TypeRegistry
	table    *fields.Table
	finder   *provider.Finder
	events   *bus.Bus
}

func New(
	cfg *config.Config,
	logger log.Log,
	reg *registry.TypeRegistry,
	table *fields.Table,
	finder *provider.Finder,
	events *bus.Bus,
) *Session {
	return &Session{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		table:    table,
		finder:   finder,
		events:   events,
	}
}

func (s *Session) Config() *config.Config { return s.cfg }

func (s *Session) Logger() log.Log { return s.logger }

func (s *Session) Registry() *registry.TypeRegistry { return s.registry }

func (s *Session) Table() *fields.Table { return s.table }

func (s *Session) Finder() *provider.Finder { return s.finder }

func (s *Session) Events() *bus.Bus { return s.events }

// NewSnapshot returns a snapshot sharing the session's registry, table and
// logger at the configured validation level. opts are applied after those.
func (s *Session) NewSnapshot(opts ...snapshot.Option) *snapshot.Snapshot {
	base := []snapshot.Option{
		snapshot.WithLogger(s.logger),
		snapshot.WithRegistry(s.registry),
		snapshot.WithTable(s.table),
		snapshot.WithValidationLevel(snapshot.ValidationLevel(s.cfg.ValidationLevel)),
	}
	return snapshot.New(append(base, opts...)...)
}

// Track creates a snapshot already bound to root. snapshotFieldPath is the
// path of the Snapshot field inside root.
func (s *Session) Track(root object.Object, snapshotFieldPath string, opts ...snapshot.Option) *snapshot.Snapshot {
	snap := s.NewSnapshot(opts...)
	snap.Bind(root, snapshotFieldPath)
	return snap
}

// Bind opens an editing binding on the holder at holderPath. Fields of opts
// left empty are filled from the session.
func (s *Session) Bind(root any, holderPath string, opts editing.Options) (*editing.Binding, error) {
	if opts.Table == nil {
		opts.Table = s.table
	}
	if opts.Finder == nil {
		opts.Finder = s.finder
	}
	if opts.Events == nil {
		opts.Events = s.events
	}
	if opts.Logger == nil {
		opts.Logger = s.logger
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = s.cfg.ProviderMaxDepth
	}
	return editing.BindHolder(root, holderPath, opts)
}

// FindProvider searches holder for capability at the configured depth.
func (s *Session) FindProvider(capability, holder reflect.Type) (string, error) {
	return s.finder.FindPath(capability, holder, s.cfg.ProviderMaxDepth)
}

// Validate resolves the provider markers of every declarer and joins the
// failures.
func (s *Session) Validate(declarers ...provider.Declarer) error {
	err := provider.ValidateAll(s.finder, 0, declarers...)
	if err != nil {
		s.logger.Warn("provider validation failed", log.Error(err))
	}
	return err
}
