package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func parseDateParam(c *gin.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, newValidationError(name, "missing_param", "required date parameter")
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, newValidationError(name, "invalid_date", "expected YYYY-MM-DD")
	}
	return t, nil
}

func (s *Server) DailyReport(c *gin.Context) {
	begin, err := parseDateParam(c, "begin")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.reportSvc.Daily(c.Request.Context(), ownerIDFromContext(c), begin, end, strings.TrimSpace(c.Query("platform")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, rows)
}

func (s *Server) RangeReport(c *gin.Context) {
	begin, err := parseDateParam(c, "begin")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.reportSvc.Range(c.Request.Context(), ownerIDFromContext(c), begin, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}

func (s *Server) L7DReport(c *gin.Context) {
	summary, err := s.reportSvc.L7D(c.Request.Context(), ownerIDFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}

func (s *Server) ReconciliationReport(c *gin.Context) {
	date, err := parseDateParam(c, "date")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.reportSvc.Reconciliation(c.Request.Context(), ownerIDFromContext(c), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, result)
}

// TeamReport rolls the range up per user and team. The report service
// enforces the manager role; members get a 403.
func (s *Server) TeamReport(c *gin.Context) {
	begin, err := parseDateParam(c, "begin")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	end, err := parseDateParam(c, "end")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	report, err := s.reportSvc.Team(c.Request.Context(), ownerIDFromContext(c), begin, end)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, report)
}
