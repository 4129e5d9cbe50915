// Package domain holds campaign match rules: the fallback used when a
// transaction carries no merchant id and the joiner must resolve one from the
// campaign name. Rules are evaluated in descending priority, first match wins.
package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Kind string

const (
	KindExact    Kind = "exact"
	KindContains Kind = "contains"
	KindPrefix   Kind = "prefix"
	KindSuffix   Kind = "suffix"
	KindRegex    Kind = "regex"
)

var ErrInvalidKind = errors.New("invalid_match_rule_kind")
var ErrInvalidPattern = errors.New("invalid_match_rule_pattern")

type MatchRule struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID            snowflake.ID `gorm:"not null;index" json:"owner_id"`
	AffiliateAccountID snowflake.ID `gorm:"not null;index" json:"affiliate_account_id"`
	Kind               Kind         `gorm:"type:text;not null" json:"kind"`
	Pattern            string       `gorm:"type:text;not null" json:"pattern"`
	MerchantID         string       `gorm:"type:text;not null" json:"merchant_id"`
	Priority           int          `gorm:"not null;default:0" json:"priority"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (MatchRule) TableName() string { return "match_rules" }

// Validate checks kind and, for regex rules, that the pattern compiles.
func (m *MatchRule) Validate() error {
	switch m.Kind {
	case KindExact, KindContains, KindPrefix, KindSuffix:
	case KindRegex:
		if _, err := regexp.Compile(m.Pattern); err != nil {
			return ErrInvalidPattern
		}
	default:
		return ErrInvalidKind
	}
	if strings.TrimSpace(m.Pattern) == "" {
		return ErrInvalidPattern
	}
	return nil
}

// Matches reports whether the rule applies to the campaign name. A regex rule
// with a pattern that no longer compiles matches nothing.
func (m *MatchRule) Matches(campaign string) bool {
	switch m.Kind {
	case KindExact:
		return campaign == m.Pattern
	case KindContains:
		return strings.Contains(campaign, m.Pattern)
	case KindPrefix:
		return strings.HasPrefix(campaign, m.Pattern)
	case KindSuffix:
		return strings.HasSuffix(campaign, m.Pattern)
	case KindRegex:
		re, err := regexp.Compile(m.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(campaign)
	}
	return false
}
