// Package server exposes the dashboard's REST API: report queries, manual
// data ingest, adjustments, match rules and notifications. Every route is
// API-key authenticated; the key resolves the owner whose data is served.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	adjustmentdomain "github.com/adlenslabs/adlens/internal/adjustment/domain"
	"github.com/adlenslabs/adlens/internal/config"
	matchruledomain "github.com/adlenslabs/adlens/internal/matchrule/domain"
	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	notificationdomain "github.com/adlenslabs/adlens/internal/notification/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	syncdomain "github.com/adlenslabs/adlens/internal/sync/domain"
	syncservice "github.com/adlenslabs/adlens/internal/sync/service"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(Run),
)

type Server struct {
	db    *gorm.DB
	log   *zap.Logger
	cfg   config.Config
	genID *snowflake.Node

	reportSvc reportdomain.Service
	syncSvc   *syncservice.Service
	limiter   *ingestLimiter

	platformRepo   platformdomain.Repository
	metricRepo     metricdomain.Repository
	txnRepo        txndomain.Repository
	adjustmentRepo adjustmentdomain.Repository
	matchRuleRepo  matchruledomain.Repository
	notifRepo      notificationdomain.Repository
	runRepo        syncdomain.Repository
}

type Param struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Config         config.Config
	GenID          *snowflake.Node
	Redis          *redis.Client `optional:"true"`
	ReportSvc      reportdomain.Service
	SyncSvc        *syncservice.Service
	PlatformRepo   platformdomain.Repository
	MetricRepo     metricdomain.Repository
	TxnRepo        txndomain.Repository
	AdjustmentRepo adjustmentdomain.Repository
	MatchRuleRepo  matchruledomain.Repository
	NotifRepo      notificationdomain.Repository
	RunRepo        syncdomain.Repository
}

func NewServer(p Param) *Server {
	return &Server{
		db:             p.DB,
		log:            p.Log.Named("server"),
		cfg:            p.Config,
		genID:          p.GenID,
		reportSvc:      p.ReportSvc,
		syncSvc:        p.SyncSvc,
		limiter:        newIngestLimiter(p.Redis, p.Config.RateLimit.IngestPerMinute),
		platformRepo:   p.PlatformRepo,
		metricRepo:     p.MetricRepo,
		txnRepo:        p.TxnRepo,
		adjustmentRepo: p.AdjustmentRepo,
		matchRuleRepo:  p.MatchRuleRepo,
		notifRepo:      p.NotifRepo,
		runRepo:        p.RunRepo,
	}
}

func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1", s.APIKeyRequired())
	{
		reports := v1.Group("", s.RequireScope(scopeReports))
		{
			reports.GET("/reports/daily", s.DailyReport)
			reports.GET("/reports/range", s.RangeReport)
			reports.GET("/reports/l7d", s.L7DReport)
			reports.GET("/reports/reconciliation", s.ReconciliationReport)
			reports.GET("/reports/team", s.TeamReport)
			reports.GET("/transactions", s.ListTransactions)
			reports.GET("/notifications", s.ListNotifications)
			reports.POST("/notifications/:id/read", s.MarkNotificationRead)
			reports.GET("/sync/runs", s.ListSyncRuns)
			reports.GET("/match-rules", s.ListMatchRules)
		}

		ingest := v1.Group("", s.RequireScope(scopeIngest), s.IngestRateLimit())
		{
			ingest.POST("/metrics", s.IngestMetrics)
			ingest.POST("/transactions", s.IngestTransactions)
			ingest.PUT("/adjustments", s.UpsertAdjustment)
			ingest.POST("/sync", s.TriggerSync)
			ingest.POST("/match-rules", s.CreateMatchRule)
			ingest.PUT("/match-rules/:id", s.UpdateMatchRule)
			ingest.DELETE("/match-rules/:id", s.DeleteMatchRule)
		}
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run wires the HTTP server into the fx lifecycle.
func Run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server exited", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
