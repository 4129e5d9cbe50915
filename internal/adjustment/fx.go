package adjustment

import (
	"github.com/adlenslabs/adlens/internal/adjustment/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("adjustment",
	fx.Provide(repository.Provide),
)
