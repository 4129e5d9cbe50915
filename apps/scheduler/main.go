// The scheduler binary runs only the background jobs: platform sync, the
// rejected-commission watcher and sync-run retention. No HTTP server.
package main

import (
	"context"

	"github.com/adlenslabs/adlens/internal/adjustment"
	"github.com/adlenslabs/adlens/internal/bootstrap"
	"github.com/adlenslabs/adlens/internal/clock"
	"github.com/adlenslabs/adlens/internal/config"
	"github.com/adlenslabs/adlens/internal/identity"
	"github.com/adlenslabs/adlens/internal/matchrule"
	"github.com/adlenslabs/adlens/internal/metric"
	"github.com/adlenslabs/adlens/internal/notification"
	"github.com/adlenslabs/adlens/internal/observability"
	"github.com/adlenslabs/adlens/internal/platform"
	"github.com/adlenslabs/adlens/internal/redis"
	"github.com/adlenslabs/adlens/internal/report"
	"github.com/adlenslabs/adlens/internal/scheduler"
	"github.com/adlenslabs/adlens/internal/sync"
	"github.com/adlenslabs/adlens/internal/transaction"
	"github.com/adlenslabs/adlens/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		bootstrap.Module,
		fx.Invoke(bootstrap.EnforceSchemaGate),

		identity.Module,
		platform.Module,
		metric.Module,
		transaction.Module,
		adjustment.Module,
		matchrule.Module,
		notification.Module,
		report.Module,
		sync.Module,

		scheduler.Module,
		fx.Invoke(startScheduler),
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.RunForever(context.Background())
			return nil
		},
	})
}
