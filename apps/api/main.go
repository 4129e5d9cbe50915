// The api binary serves only the dashboard REST API. Deployments that split
// serving from syncing pair it with the scheduler binary.
package main

import (
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
	"github.com/adlenslabs/adlens/internal/server"
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
		fx.Invoke(bootstrap.EnsureDefaultOwner),

		identity.Module,
		platform.Module,
		metric.Module,
		transaction.Module,
		adjustment.Module,
		matchrule.Module,
		notification.Module,
		report.Module,
		sync.Module,

		server.Module,
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
