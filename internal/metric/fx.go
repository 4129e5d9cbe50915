package metric

import (
	"github.com/adlenslabs/adlens/internal/metric/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("metric",
	fx.Provide(repository.Provide),
)
