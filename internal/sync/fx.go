package sync

import (
	"github.com/adlenslabs/adlens/internal/sync/provider"
	"github.com/adlenslabs/adlens/internal/sync/provider/affiliatenet"
	"github.com/adlenslabs/adlens/internal/sync/provider/googleads"
	"github.com/adlenslabs/adlens/internal/sync/repository"
	"github.com/adlenslabs/adlens/internal/sync/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("sync",
	fx.Provide(
		repository.Provide,
		NewRegistry,
		service.NewService,
	),
)

func NewRegistry(log *zap.Logger) *provider.Registry {
	return provider.NewRegistry(
		googleads.New(log),
		affiliatenet.New(log, "linkbux", "https://api.linkbux.com/v1"),
		affiliatenet.New(log, "collabglow", "https://api.collabglow.com/v1"),
	)
}
