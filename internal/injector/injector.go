//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/ifacedeps/internal/config"
	"github.com/zeusync/ifacedeps/internal/session"
)

func InitializeSession(cfg *config.Config) (*session.Session, error) {
	wire.Build(session.ProviderSet)
	return nil, nil
}
