package server

import (
	"strings"

	matchruledomain "github.com/adlenslabs/adlens/internal/matchrule/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type matchRuleRequest struct {
	AffiliateAccountID string `json:"affiliate_account_id"`
	Kind               string `json:"kind"`
	Pattern            string `json:"pattern"`
	MerchantID         string `json:"merchant_id"`
	Priority           int    `json:"priority"`
}

func (s *Server) CreateMatchRule(c *gin.Context) {
	var req matchRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	accountID, err := snowflake.ParseString(strings.TrimSpace(req.AffiliateAccountID))
	if err != nil {
		AbortWithError(c, reportdomain.NewValidationError("affiliate_account_id", "invalid_id"))
		return
	}

	rule := &matchruledomain.MatchRule{
		ID:                 s.genID.Generate(),
		OwnerID:            ownerIDFromContext(c),
		AffiliateAccountID: accountID,
		Kind:               matchruledomain.Kind(strings.TrimSpace(req.Kind)),
		Pattern:            req.Pattern,
		MerchantID:         strings.TrimSpace(req.MerchantID),
		Priority:           req.Priority,
	}
	if err := rule.Validate(); err != nil {
		AbortWithError(c, reportdomain.NewValidationError("pattern", err.Error()))
		return
	}

	if err := s.matchRuleRepo.Insert(c.Request.Context(), s.db, rule); err != nil {
		AbortWithError(c, err)
		return
	}
	s.invalidateOwner(c, rule.OwnerID)
	respondData(c, rule)
}

func (s *Server) UpdateMatchRule(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, reportdomain.NewValidationError("id", "invalid_id"))
		return
	}

	var req matchRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ownerID := ownerIDFromContext(c)
	ctx := c.Request.Context()

	rule, err := s.matchRuleRepo.FindByID(ctx, s.db, ownerID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if rule == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	rule.Kind = matchruledomain.Kind(strings.TrimSpace(req.Kind))
	rule.Pattern = req.Pattern
	rule.MerchantID = strings.TrimSpace(req.MerchantID)
	rule.Priority = req.Priority
	if err := rule.Validate(); err != nil {
		AbortWithError(c, reportdomain.NewValidationError("pattern", err.Error()))
		return
	}

	if err := s.matchRuleRepo.Update(ctx, s.db, rule); err != nil {
		AbortWithError(c, err)
		return
	}
	s.invalidateOwner(c, ownerID)
	respondData(c, rule)
}

func (s *Server) DeleteMatchRule(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, reportdomain.NewValidationError("id", "invalid_id"))
		return
	}

	ownerID := ownerIDFromContext(c)
	if err := s.matchRuleRepo.Delete(c.Request.Context(), s.db, ownerID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	s.invalidateOwner(c, ownerID)
	respondData(c, gin.H{"deleted": id.String()})
}

func (s *Server) ListMatchRules(c *gin.Context) {
	rules, err := s.matchRuleRepo.ListByOwner(c.Request.Context(), s.db, ownerIDFromContext(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, rules, nil)
}
