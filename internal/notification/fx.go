package notification

import (
	"github.com/adlenslabs/adlens/internal/notification/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("notification",
	fx.Provide(repository.Provide),
)
