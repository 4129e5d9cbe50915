package service

import (
	"context"
	"time"

	adjustmentdomain "github.com/adlenslabs/adlens/internal/adjustment/domain"
	"github.com/adlenslabs/adlens/internal/clock"
	"github.com/adlenslabs/adlens/internal/config"
	identitydomain "github.com/adlenslabs/adlens/internal/identity/domain"
	matchruledomain "github.com/adlenslabs/adlens/internal/matchrule/domain"
	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock

	cnyRate   float64
	extractor MIDExtractor
	cache     *summaryCache

	platformRepo   platformdomain.Repository
	metricRepo     metricdomain.Repository
	txnRepo        txndomain.Repository
	adjustmentRepo adjustmentdomain.Repository
	matchRuleRepo  matchruledomain.Repository
	identityRepo   identitydomain.Repository
}

type ServiceParam struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Clock          clock.Clock
	Config         config.Config
	Redis          *redis.Client `optional:"true"`
	PlatformRepo   platformdomain.Repository
	MetricRepo     metricdomain.Repository
	TxnRepo        txndomain.Repository
	AdjustmentRepo adjustmentdomain.Repository
	MatchRuleRepo  matchruledomain.Repository
	IdentityRepo   identitydomain.Repository
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("report.service"),
		clock: p.Clock,

		cnyRate:   p.Config.Currency.CNYRate,
		extractor: SeparatorMIDExtractor{Separator: p.Config.Report.MIDSeparator},
		cache:     newSummaryCache(p.Redis, p.Config.Report.CacheTTL),

		platformRepo:   p.PlatformRepo,
		metricRepo:     p.MetricRepo,
		txnRepo:        p.TxnRepo,
		adjustmentRepo: p.AdjustmentRepo,
		matchRuleRepo:  p.MatchRuleRepo,
		identityRepo:   p.IdentityRepo,
	}
}

// extractRange fetches the owner's rows for [begin, end] and normalizes them.
// Missing source data comes back as zero-valued dense rows, not an error.
func (s *Service) extractRange(ctx context.Context, ownerID snowflake.ID, begin, end time.Time) (*Extracted, []platformdomain.Platform, error) {
	begin = reportdomain.DateOnly(begin)
	end = reportdomain.DateOnly(end)
	if end.Before(begin) {
		return nil, nil, reportdomain.NewValidationError("date_range", "end before begin")
	}

	platforms, err := s.platformRepo.ListByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, nil, err
	}
	metrics, err := s.metricRepo.ListByRange(ctx, s.db, ownerID, 0, begin, end)
	if err != nil {
		return nil, nil, err
	}
	txns, err := s.txnRepo.ListByRange(ctx, s.db, ownerID, begin, end, "")
	if err != nil {
		return nil, nil, err
	}
	adjustments, err := s.adjustmentRepo.ListByRange(ctx, s.db, ownerID, 0, begin, end)
	if err != nil {
		return nil, nil, err
	}

	extracted, err := Extract(begin, end, platforms, metrics, txns, adjustments, s.cnyRate)
	if err != nil {
		return nil, nil, err
	}
	return extracted, platforms, nil
}

func (s *Service) Daily(ctx context.Context, ownerID snowflake.ID, begin, end time.Time, platformCode string) ([]reportdomain.DailySummary, error) {
	extracted, _, err := s.extractRange(ctx, ownerID, begin, end)
	if err != nil {
		return nil, err
	}

	rows := extracted.Days
	if platformCode != "" {
		filtered := rows[:0:0]
		for _, row := range rows {
			if row.PlatformCode == platformCode {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	return SummarizeDaily(rows), nil
}

func (s *Service) Range(ctx context.Context, ownerID snowflake.ID, begin, end time.Time) (*reportdomain.RangeSummary, error) {
	begin = reportdomain.DateOnly(begin)
	end = reportdomain.DateOnly(end)
	if end.Before(begin) {
		return nil, reportdomain.NewValidationError("date_range", "end before begin")
	}

	if cached, ok := s.cache.getRange(ctx, ownerID, begin, end); ok {
		return cached, nil
	}

	extracted, _, err := s.extractRange(ctx, ownerID, begin, end)
	if err != nil {
		return nil, err
	}
	summary, err := SummarizeRange(extracted.Days, begin, end)
	if err != nil {
		return nil, err
	}

	s.cache.putRange(ctx, ownerID, begin, end, summary)
	return summary, nil
}

func (s *Service) L7D(ctx context.Context, ownerID snowflake.ID) (*reportdomain.RangeSummary, error) {
	begin, end := L7DWindow(s.clock.Now())
	return s.Range(ctx, ownerID, begin, end)
}

func (s *Service) Reconciliation(ctx context.Context, ownerID snowflake.ID, date time.Time) (*reportdomain.ReconciliationResult, error) {
	date = reportdomain.DateOnly(date)

	extracted, _, err := s.extractRange(ctx, ownerID, date, date)
	if err != nil {
		return nil, err
	}

	rules, err := s.matchRuleRepo.ListByOwner(ctx, s.db, ownerID)
	if err != nil {
		return nil, err
	}

	return Reconcile(date, extracted.CostRows, extracted.CommissionRows, rules, s.extractor), nil
}

func (s *Service) Team(ctx context.Context, requesterID snowflake.ID, begin, end time.Time) (*reportdomain.TeamReport, error) {
	begin = reportdomain.DateOnly(begin)
	end = reportdomain.DateOnly(end)
	if end.Before(begin) {
		return nil, reportdomain.NewValidationError("date_range", "end before begin")
	}

	requester, err := s.identityRepo.FindUserByID(ctx, s.db, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, reportdomain.ErrUserNotFound
	}
	if !requester.IsManager() {
		return nil, reportdomain.ErrManagerOnly
	}

	teams, err := s.identityRepo.ListTeams(ctx, s.db)
	if err != nil {
		return nil, err
	}
	users, err := s.identityRepo.ListActiveUsers(ctx, s.db)
	if err != nil {
		return nil, err
	}

	perUser := make(map[snowflake.ID][]reportdomain.DailyPlatformRow, len(users))
	userInfos := make([]userInfo, 0, len(users))
	for _, u := range users {
		if u.TeamID == nil {
			continue
		}
		extracted, _, err := s.extractRange(ctx, u.ID, begin, end)
		if err != nil {
			return nil, err
		}
		perUser[u.ID] = extracted.Days
		userInfos = append(userInfos, userInfo{ID: u.ID, TeamID: *u.TeamID, DisplayName: u.DisplayName})
	}

	teamInfos := make([]teamInfo, 0, len(teams))
	for _, t := range teams {
		teamInfos = append(teamInfos, teamInfo{ID: t.ID, Name: t.Name})
	}

	return RollupUsers(perUser, userInfos, teamInfos, begin, end)
}

func (s *Service) InvalidateCache(ctx context.Context, ownerID snowflake.ID) error {
	return s.cache.invalidate(ctx, ownerID)
}
