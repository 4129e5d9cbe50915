// Package domain describes the ad and affiliate platforms a user tracks.
// A Platform is the source of daily metrics or commission transactions; an
// AffiliateAccount is the per-user credentialed account on that platform the
// sync scheduler pulls from.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
)

type Kind string

const (
	KindAds       Kind = "ads"
	KindAffiliate Kind = "affiliate"
)

// SourceGoogleAds is the reserved platform code for the cost side of
// reconciliation.
const SourceGoogleAds = "google_ads"

type Platform struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID   snowflake.ID `gorm:"not null;index;uniqueIndex:ux_platforms_owner_code,priority:1" json:"owner_id"`
	Code      string       `gorm:"type:text;not null;uniqueIndex:ux_platforms_owner_code,priority:2" json:"code"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Slug      string       `gorm:"type:text;not null" json:"slug"`
	Kind      Kind         `gorm:"type:text;not null" json:"kind"`
	Currency  string       `gorm:"type:text;not null;default:USD" json:"currency"`
	Active    bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Platform) TableName() string { return "platforms" }

// NewSlug derives the URL slug from a display name.
func NewSlug(name string) string { return slug.Make(name) }

type AffiliateAccount struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID    snowflake.ID `gorm:"not null;index" json:"owner_id"`
	PlatformID snowflake.ID `gorm:"not null;index" json:"platform_id"`
	Label      string       `gorm:"type:text;not null" json:"label"`
	// APIToken is assumed valid; refresh flows live outside this service.
	APIToken  string    `gorm:"type:text;not null" json:"-"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (AffiliateAccount) TableName() string { return "affiliate_accounts" }
