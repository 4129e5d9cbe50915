package matchrule

import (
	"github.com/adlenslabs/adlens/internal/matchrule/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("matchrule",
	fx.Provide(repository.Provide),
)
