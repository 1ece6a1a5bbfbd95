package session

import (
	"github.com/google/wire"
	"github.com/zeusync/ifacedeps/internal/config"
	"github.com/zeusync/ifacedeps/internal/core/events/bus"
	"github.com/zeusync/ifacedeps/internal/core/fields"
	"github.com/zeusync/ifacedeps/internal/core/observability/log"
	"github.com/zeusync/ifacedeps/internal/core/provider"
	"github.com/zeusync/ifacedeps/internal/core/schema/registry"
)

// ProviderSet builds a Session from a *config.Config.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	registry.New,
	fields.NewTable,
	ProvideFinder,
	bus.New,
	New,
)

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(cfg.Level())
}

func ProvideFinder(cfg *config.Config, logger log.Log) (*provider.Finder, error) {
	return provider.NewFinder(
		provider.WithCacheSize(cfg.ProviderCacheSize),
		provider.WithLogger(logger),
	)
}
