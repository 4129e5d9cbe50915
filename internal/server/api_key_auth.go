package server

import (
	"crypto/subtle"
	"strings"
	"time"

	apikeydomain "github.com/adlenslabs/adlens/internal/apikey/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
)

const (
	contextOwnerIDKey  = "owner_id"
	contextAPIKeyIDKey = "api_key_id"
	contextScopesKey   = "api_key_scopes"

	scopeReports = apikeydomain.ScopeReports
	scopeIngest  = apikeydomain.ScopeIngest
	scopeAdmin   = apikeydomain.ScopeAdmin
)

// APIKeyRequired authenticates requests with a bearer API key. The owner
// identity is derived solely from the api_keys table.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		hash := apikeydomain.HashAPIKey(parts[1])
		now := time.Now().UTC()

		var record struct {
			ID      snowflake.ID   `gorm:"column:id"`
			OwnerID snowflake.ID   `gorm:"column:owner_id"`
			KeyHash string         `gorm:"column:key_hash"`
			Scopes  pq.StringArray `gorm:"column:scopes;type:text[]"`
		}

		if err := s.db.WithContext(c.Request.Context()).Raw(
			`SELECT id, owner_id, key_hash, scopes
			 FROM api_keys
			 WHERE key_hash = ?
			   AND is_active = true
			   AND (expires_at IS NULL OR expires_at > ?)
			 LIMIT 1`,
			hash,
			now,
		).Scan(&record).Error; err != nil {
			AbortWithError(c, err)
			return
		}

		if record.ID == 0 || subtle.ConstantTimeCompare([]byte(record.KeyHash), []byte(hash)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		scopes := make([]string, 0, len(record.Scopes))
		scopes = append(scopes, record.Scopes...)
		c.Set(contextOwnerIDKey, record.OwnerID)
		c.Set(contextAPIKeyIDKey, record.ID)
		c.Set(contextScopesKey, scopes)
		c.Next()
	}
}

// RequireScope gates a route group on one scope; the admin scope implies all.
func (s *Server) RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scopes, _ := c.Get(contextScopesKey)
		granted, _ := scopes.([]string)
		for _, g := range granted {
			if g == scope || g == scopeAdmin {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

func ownerIDFromContext(c *gin.Context) snowflake.ID {
	value, _ := c.Get(contextOwnerIDKey)
	id, _ := value.(snowflake.ID)
	return id
}
