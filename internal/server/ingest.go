package server

import (
	"encoding/json"
	"strings"
	"time"

	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ingestMetricRow struct {
	CampaignKey string  `json:"campaign_key"`
	Cost        float64 `json:"cost"`
	Currency    string  `json:"currency"`
	Clicks      int64   `json:"clicks"`
	Impressions int64   `json:"impressions"`
	Budget      float64 `json:"budget"`
	CPC         float64 `json:"cpc"`
}

type ingestMetricsRequest struct {
	Platform string            `json:"platform"`
	Date     string            `json:"date"`
	Rows     []ingestMetricRow `json:"rows"`
}

// IngestMetrics replaces one platform-day of metrics with the posted rows.
// It is the manual alternative to the scheduled provider pull and follows the
// same replace-wholesale semantics.
func (s *Server) IngestMetrics(c *gin.Context) {
	var req ingestMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.Date), time.UTC)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "expected YYYY-MM-DD"))
		return
	}

	ownerID := ownerIDFromContext(c)
	ctx := c.Request.Context()

	platform, err := s.platformRepo.FindByCode(ctx, s.db, ownerID, strings.TrimSpace(req.Platform))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if platform == nil {
		AbortWithError(c, reportdomain.ErrUnknownSource)
		return
	}

	rows := make([]metricdomain.DailyMetric, 0, len(req.Rows))
	for _, in := range req.Rows {
		if in.Cost < 0 || in.Clicks < 0 || in.Impressions < 0 || in.CPC < 0 {
			AbortWithError(c, reportdomain.NewValidationError("rows", "negative_metric"))
			return
		}
		currency := strings.ToUpper(strings.TrimSpace(in.Currency))
		if currency == "" {
			currency = platform.Currency
		}
		rows = append(rows, metricdomain.DailyMetric{
			ID:          s.genID.Generate(),
			OwnerID:     ownerID,
			PlatformID:  platform.ID,
			MetricDate:  day,
			CampaignKey: strings.TrimSpace(in.CampaignKey),
			Cost:        in.Cost,
			Currency:    currency,
			Clicks:      in.Clicks,
			Impressions: in.Impressions,
			Budget:      in.Budget,
			CPC:         in.CPC,
		})
	}

	if err := s.metricRepo.ReplaceDay(ctx, s.db, ownerID, platform.ID, day, rows); err != nil {
		AbortWithError(c, err)
		return
	}
	s.invalidateOwner(c, ownerID)
	respondData(c, gin.H{"replaced": len(rows)})
}

type ingestTransactionRow struct {
	ExternalID   string         `json:"external_id"`
	MerchantID   string         `json:"merchant_id"`
	Commission   float64        `json:"commission"`
	Currency     string         `json:"currency"`
	Orders       int64          `json:"orders"`
	Status       string         `json:"status"`
	TransactedAt time.Time      `json:"transacted_at"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type ingestTransactionsRequest struct {
	Platform string                 `json:"platform"`
	Rows     []ingestTransactionRow `json:"rows"`
}

// IngestTransactions upserts commission events by external id. Re-posting a
// transaction updates its status and amount; it never duplicates.
func (s *Server) IngestTransactions(c *gin.Context) {
	var req ingestTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.Rows) == 0 {
		AbortWithError(c, reportdomain.NewValidationError("rows", "empty"))
		return
	}

	ownerID := ownerIDFromContext(c)
	ctx := c.Request.Context()

	platform, err := s.platformRepo.FindByCode(ctx, s.db, ownerID, strings.TrimSpace(req.Platform))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if platform == nil {
		AbortWithError(c, reportdomain.ErrUnknownSource)
		return
	}

	rows := make([]txndomain.AffiliateTransaction, 0, len(req.Rows))
	for _, in := range req.Rows {
		externalID := strings.TrimSpace(in.ExternalID)
		if externalID == "" {
			AbortWithError(c, reportdomain.NewValidationError("external_id", "empty"))
			return
		}
		if in.Commission < 0 {
			AbortWithError(c, reportdomain.NewValidationError("commission", "negative_metric"))
			return
		}
		status := txndomain.Status(in.Status)
		if in.Status == "" {
			status = txndomain.StatusPending
		}
		if !status.Valid() {
			AbortWithError(c, reportdomain.NewValidationError("status", "invalid_status"))
			return
		}
		currency := strings.ToUpper(strings.TrimSpace(in.Currency))
		if currency == "" {
			currency = platform.Currency
		}
		orders := in.Orders
		if orders <= 0 {
			orders = 1
		}
		metadata, err := marshalMetadata(in.Metadata)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		rows = append(rows, txndomain.AffiliateTransaction{
			ID:           s.genID.Generate(),
			OwnerID:      ownerID,
			PlatformID:   platform.ID,
			ExternalID:   externalID,
			MerchantID:   strings.TrimSpace(in.MerchantID),
			Commission:   in.Commission,
			Currency:     currency,
			Orders:       orders,
			Status:       status,
			TransactedAt: in.TransactedAt.UTC(),
			Metadata:     metadata,
		})
	}

	if err := s.txnRepo.UpsertBatch(ctx, s.db, rows); err != nil {
		AbortWithError(c, err)
		return
	}
	s.invalidateOwner(c, ownerID)
	respondData(c, gin.H{"upserted": len(rows)})
}

func marshalMetadata(m map[string]any) (datatypes.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *Server) invalidateOwner(c *gin.Context, ownerID snowflake.ID) {
	if err := s.reportSvc.InvalidateCache(c.Request.Context(), ownerID); err != nil {
		s.log.Warn("cache invalidation failed", zap.Int64("owner_id", int64(ownerID)), zap.Error(err))
	}
}
