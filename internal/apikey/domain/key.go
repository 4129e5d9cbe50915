// Package domain holds API keys used by the dashboard frontend and external
// callers. Keys are stored hashed; each key belongs to one owner.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
)

type APIKey struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	OwnerID   snowflake.ID   `gorm:"not null;index" json:"owner_id"`
	Label     string         `gorm:"type:text;not null" json:"label"`
	KeyHash   string         `gorm:"type:text;not null;uniqueIndex" json:"-"`
	Scopes    pq.StringArray `gorm:"type:text[]" json:"scopes"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (APIKey) TableName() string { return "api_keys" }

const (
	ScopeReports string = "reports:read"
	ScopeIngest  string = "data:write"
	ScopeAdmin   string = "admin"
)

func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func (k *APIKey) HasScope(scope string) bool {
	for _, s := range k.Scopes {
		if s == scope || s == ScopeAdmin {
			return true
		}
	}
	return false
}
