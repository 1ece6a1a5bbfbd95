package snapshot

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/ifacedeps/internal/core/observability/log"
	"github.com/zeusync/ifacedeps/pkg/collections"
	"github.com/zeusync/ifacedeps/pkg/object"
)

type engine interface {
	object.Object
	Start() string
}

type wheel interface {
	object.Object
	Spin() int
}

type handle interface {
	object.Object
}

type doer interface{ Do() }

type part struct {
	object.Base
	name string
}

func newPart(name string) *part {
	return &part{Base: object.NewBase(), name: name}
}

func (p *part) Start() string { return p.name }

func (p *part) Spin() int { return len(p.name) }

// starter is an engine but not a wheel.
type starter struct {
	object.Base
}

func (s *starter) Start() string { return "starter" }

type task struct{}

func (task) Do() {}

type pair struct {
	object.Base
	first engine
	items []wheel
}

type car struct {
	object.Base
	Engine engine
	Wheels []wheel
	Spare  *collections.List[wheel]
	Label  string
	Task   doer
	deps   *Snapshot
}

type garage struct {
	object.Base
	cars []car
}

type driftV1 struct {
	object.Base
	first  engine
	second engine
}

type driftV2 struct {
	object.Base
	first engine
}

type driftV3 struct {
	object.Base
	second engine
}

type retyped struct {
	object.Base
	first wheel
}

type recategorized struct {
	object.Base
	first []engine
}

type handles struct {
	object.Base
	one  handle
	many []handle
}

func observed(t *testing.T) (log.Log, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return log.NewWithCore(core, log.LevelDebug), logs
}
