package server

import (
	"strings"
	"time"

	adjustmentdomain "github.com/adlenslabs/adlens/internal/adjustment/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/gin-gonic/gin"
)

type upsertAdjustmentRequest struct {
	Platform           string   `json:"platform"`
	Date               string   `json:"date"`
	ExtraCost          float64  `json:"extra_cost"`
	RejectedCommission *float64 `json:"rejected_commission,omitempty"`
	Note               string   `json:"note"`
}

// UpsertAdjustment writes the manual expense override for one platform-day.
// Last write wins; a null rejected_commission leaves the synced total alone.
func (s *Server) UpsertAdjustment(c *gin.Context) {
	var req upsertAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(req.Date), time.UTC)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "expected YYYY-MM-DD"))
		return
	}
	if req.ExtraCost < 0 {
		AbortWithError(c, reportdomain.NewValidationError("extra_cost", "negative_metric"))
		return
	}
	if req.RejectedCommission != nil && *req.RejectedCommission < 0 {
		AbortWithError(c, reportdomain.NewValidationError("rejected_commission", "negative_metric"))
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

	row := &adjustmentdomain.ExpenseAdjustment{
		ID:                 s.genID.Generate(),
		OwnerID:            ownerID,
		PlatformID:         platform.ID,
		AdjustDate:         day,
		ExtraCost:          req.ExtraCost,
		RejectedCommission: req.RejectedCommission,
		Note:               strings.TrimSpace(req.Note),
	}
	if err := s.adjustmentRepo.Upsert(ctx, s.db, row); err != nil {
		AbortWithError(c, err)
		return
	}
	s.invalidateOwner(c, ownerID)
	respondData(c, row)
}
