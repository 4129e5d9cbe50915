package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	adjustmentdomain "github.com/adlenslabs/adlens/internal/adjustment/domain"
	adjustmentrepo "github.com/adlenslabs/adlens/internal/adjustment/repository"
	apikeydomain "github.com/adlenslabs/adlens/internal/apikey/domain"
	"github.com/adlenslabs/adlens/internal/config"
	matchruledomain "github.com/adlenslabs/adlens/internal/matchrule/domain"
	matchrulerepo "github.com/adlenslabs/adlens/internal/matchrule/repository"
	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	metricrepo "github.com/adlenslabs/adlens/internal/metric/repository"
	notificationdomain "github.com/adlenslabs/adlens/internal/notification/domain"
	notificationrepo "github.com/adlenslabs/adlens/internal/notification/repository"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	platformrepo "github.com/adlenslabs/adlens/internal/platform/repository"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/adlenslabs/adlens/internal/server"
	syncdomain "github.com/adlenslabs/adlens/internal/sync/domain"
	syncrepo "github.com/adlenslabs/adlens/internal/sync/repository"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	txnrepo "github.com/adlenslabs/adlens/internal/transaction/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// reportStub lets handler tests run without the full pipeline behind them.
type reportStub struct {
	daily       []reportdomain.DailySummary
	rangeResult *reportdomain.RangeSummary
	teamErr     error
	invalidated int
}

func (r *reportStub) Daily(context.Context, snowflake.ID, time.Time, time.Time, string) ([]reportdomain.DailySummary, error) {
	return r.daily, nil
}
func (r *reportStub) Range(_ context.Context, _ snowflake.ID, begin, end time.Time) (*reportdomain.RangeSummary, error) {
	if end.Before(begin) {
		return nil, reportdomain.NewValidationError("range", "end_before_begin")
	}
	return r.rangeResult, nil
}
func (r *reportStub) L7D(context.Context, snowflake.ID) (*reportdomain.RangeSummary, error) {
	return r.rangeResult, nil
}
func (r *reportStub) Reconciliation(context.Context, snowflake.ID, time.Time) (*reportdomain.ReconciliationResult, error) {
	return &reportdomain.ReconciliationResult{}, nil
}
func (r *reportStub) Team(context.Context, snowflake.ID, time.Time, time.Time) (*reportdomain.TeamReport, error) {
	if r.teamErr != nil {
		return nil, r.teamErr
	}
	return &reportdomain.TeamReport{}, nil
}
func (r *reportStub) InvalidateCache(context.Context, snowflake.ID) error {
	r.invalidated++
	return nil
}

type serverFixture struct {
	db      *gorm.DB
	router  *gin.Engine
	report  *reportStub
	node    *snowflake.Node
	ownerID snowflake.ID
	apiKey  string
}

func newServerFixture(t *testing.T, scopes []string) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&apikeydomain.APIKey{},
		&platformdomain.Platform{},
		&platformdomain.AffiliateAccount{},
		&metricdomain.DailyMetric{},
		&txndomain.AffiliateTransaction{},
		&adjustmentdomain.ExpenseAdjustment{},
		&matchruledomain.MatchRule{},
		&notificationdomain.Notification{},
		&syncdomain.SyncRun{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	ownerID := node.Generate()

	rawKey := "adlens_test_key"
	require.NoError(t, db.Create(&apikeydomain.APIKey{
		ID:       node.Generate(),
		OwnerID:  ownerID,
		Label:    "test",
		KeyHash:  apikeydomain.HashAPIKey(rawKey),
		Scopes:   pq.StringArray(scopes),
		IsActive: true,
	}).Error)

	report := &reportStub{rangeResult: &reportdomain.RangeSummary{}}

	cfg := config.Config{}
	cfg.Server.Addr = ":0"
	cfg.Server.ShutdownTimeout = time.Second

	srv := server.NewServer(server.Param{
		DB:             db,
		Log:            zap.NewNop(),
		Config:         cfg,
		GenID:          node,
		ReportSvc:      report,
		PlatformRepo:   platformrepo.Provide(),
		MetricRepo:     metricrepo.Provide(),
		TxnRepo:        txnrepo.Provide(),
		AdjustmentRepo: adjustmentrepo.Provide(),
		MatchRuleRepo:  matchrulerepo.Provide(),
		NotifRepo:      notificationrepo.Provide(),
		RunRepo:        syncrepo.Provide(),
	})

	return &serverFixture{
		db:      db,
		router:  srv.Router(),
		report:  report,
		node:    node,
		ownerID: ownerID,
		apiKey:  rawKey,
	}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestAPIKeyRequired(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeReports})

	rec := f.do(t, http.MethodGet, "/v1/reports/l7d", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/reports/l7d", nil)
	req.Header.Set("Authorization", "Bearer wrong_key")
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/reports/l7d", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScopeEnforcement(t *testing.T) {
	// Reports-only key must not reach ingest routes.
	f := newServerFixture(t, []string{apikeydomain.ScopeReports})

	rec := f.do(t, http.MethodPost, "/v1/metrics", gin.H{}, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminScopeImpliesAll(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeAdmin})

	rec := f.do(t, http.MethodGet, "/v1/reports/l7d", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDailyReportValidatesDates(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeReports})

	rec := f.do(t, http.MethodGet, "/v1/reports/daily?begin=2026-02-14", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/reports/daily?begin=14-02-2026&end=2026-02-15", nil, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/reports/daily?begin=2026-02-14&end=2026-02-15", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTeamReportManagerOnly(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeReports})
	f.report.teamErr = reportdomain.ErrManagerOnly

	rec := f.do(t, http.MethodGet, "/v1/reports/team?begin=2026-02-01&end=2026-02-15", nil, true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIngestMetricsReplacesDay(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeIngest})

	platform := platformdomain.Platform{
		ID: f.node.Generate(), OwnerID: f.ownerID,
		Code: platformdomain.SourceGoogleAds, Name: "Google Ads",
		Slug: "google-ads", Kind: platformdomain.KindAds,
		Currency: "USD", Active: true,
	}
	require.NoError(t, platformrepo.Provide().Insert(context.Background(), f.db, &platform))

	body := gin.H{
		"platform": platformdomain.SourceGoogleAds,
		"date":     "2026-02-14",
		"rows": []gin.H{
			{"campaign_key": "shop_electronics_10423", "cost": 120.5, "clicks": 300, "impressions": 9000},
		},
	}
	rec := f.do(t, http.MethodPost, "/v1/metrics", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, f.report.invalidated, "an ingest drops cached summaries")

	rows, err := metricrepo.Provide().ListByRange(context.Background(), f.db, f.ownerID, 0,
		time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 120.5, rows[0].Cost)

	// Re-posting the day replaces, never appends.
	body["rows"] = []gin.H{
		{"campaign_key": "shop_electronics_10423", "cost": 99.0, "clicks": 250, "impressions": 8000},
	}
	rec = f.do(t, http.MethodPost, "/v1/metrics", body, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rows, err = metricrepo.Provide().ListByRange(context.Background(), f.db, f.ownerID, 0,
		time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 99.0, rows[0].Cost)
}

func TestIngestMetricsRejectsNegativeValues(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeIngest})

	platform := platformdomain.Platform{
		ID: f.node.Generate(), OwnerID: f.ownerID,
		Code: platformdomain.SourceGoogleAds, Name: "Google Ads",
		Slug: "google-ads", Kind: platformdomain.KindAds,
		Currency: "USD", Active: true,
	}
	require.NoError(t, platformrepo.Provide().Insert(context.Background(), f.db, &platform))

	body := gin.H{
		"platform": platformdomain.SourceGoogleAds,
		"date":     "2026-02-14",
		"rows":     []gin.H{{"campaign_key": "c", "cost": -5.0}},
	}
	rec := f.do(t, http.MethodPost, "/v1/metrics", body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestMetricsUnknownPlatform(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeIngest})

	body := gin.H{"platform": "nope", "date": "2026-02-14", "rows": []gin.H{}}
	rec := f.do(t, http.MethodPost, "/v1/metrics", body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestTransactionsUnknownPlatform(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeIngest})

	body := gin.H{"platform": "nope", "rows": []gin.H{{
		"external_id": "t-1", "merchant_id": "10423", "commission": 1.0,
		"transacted_at": "2026-02-14T10:00:00Z",
	}}}
	rec := f.do(t, http.MethodPost, "/v1/transactions", body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestUpsertAdjustmentUnknownPlatform(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeIngest})

	body := gin.H{"platform": "nope", "date": "2026-02-14", "extra_cost": 10.0}
	rec := f.do(t, http.MethodPut, "/v1/adjustments", body, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestUpdateMatchRuleNotFound(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeIngest})

	update := gin.H{
		"affiliate_account_id": f.node.Generate().String(),
		"kind":                 "prefix",
		"pattern":              "shop_",
		"merchant_id":          "10423",
	}
	rec := f.do(t, http.MethodPut, "/v1/match-rules/"+f.node.Generate().String(), update, true)
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
}

func TestUpsertAdjustmentLastWriteWins(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeIngest})

	platform := platformdomain.Platform{
		ID: f.node.Generate(), OwnerID: f.ownerID,
		Code: "linkbux", Name: "Linkbux", Slug: "linkbux",
		Kind: platformdomain.KindAffiliate, Currency: "USD", Active: true,
	}
	require.NoError(t, platformrepo.Provide().Insert(context.Background(), f.db, &platform))

	first := gin.H{"platform": "linkbux", "date": "2026-02-14", "extra_cost": 10.0}
	rec := f.do(t, http.MethodPut, "/v1/adjustments", first, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	second := gin.H{"platform": "linkbux", "date": "2026-02-14", "extra_cost": 25.0, "rejected_commission": 3.5}
	rec = f.do(t, http.MethodPut, "/v1/adjustments", second, true)
	require.Equal(t, http.StatusOK, rec.Code)

	rows, err := adjustmentrepo.Provide().ListByRange(context.Background(), f.db, f.ownerID, platform.ID,
		time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 1, "same platform-day upserts in place")
	assert.Equal(t, 25.0, rows[0].ExtraCost)
	require.NotNil(t, rows[0].RejectedCommission)
	assert.Equal(t, 3.5, *rows[0].RejectedCommission)
}

func TestMatchRuleCRUD(t *testing.T) {
	f := newServerFixture(t, []string{apikeydomain.ScopeIngest, apikeydomain.ScopeReports})

	accountID := f.node.Generate()
	create := gin.H{
		"affiliate_account_id": accountID.String(),
		"kind":                 "prefix",
		"pattern":              "shop_",
		"merchant_id":          "10423",
		"priority":             5,
	}
	rec := f.do(t, http.MethodPost, "/v1/match-rules", create, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Data matchruledomain.MatchRule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = f.do(t, http.MethodGet, "/v1/match-rules", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	update := gin.H{
		"affiliate_account_id": accountID.String(),
		"kind":                 "regex",
		"pattern":              "(", // does not compile
		"merchant_id":          "10423",
	}
	rec = f.do(t, http.MethodPut, "/v1/match-rules/"+created.Data.ID.String(), update, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "invalid regex is rejected")

	rec = f.do(t, http.MethodDelete, "/v1/match-rules/"+created.Data.ID.String(), nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	f := newServerFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/healthz", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}
