// Package seed creates the initial team, manager user and API key for fresh
// installs. Every helper is idempotent; re-running a seed never duplicates.
package seed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	apikeydomain "github.com/adlenslabs/adlens/internal/apikey/domain"
	identitydomain "github.com/adlenslabs/adlens/internal/identity/domain"
	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	defaultTeamName  = "Main"
	defaultOwnerName = "Adlens Admin"
)

type OwnerSeedOptions struct {
	TeamName   string
	OwnerEmail string
	OwnerName  string
}

// Result reports what the seed created. RawAPIKey is only set when a new key
// was minted; it is shown once and stored hashed.
type Result struct {
	OwnerID   snowflake.ID
	TeamID    snowflake.ID
	RawAPIKey string
}

// EnsureOwner creates the default team, a manager user, the google_ads
// platform and an admin API key when they do not exist yet.
func EnsureOwner(db *gorm.DB, opts OwnerSeedOptions) (*Result, error) {
	if db == nil {
		return nil, errors.New("seed database handle is required")
	}
	if strings.TrimSpace(opts.OwnerEmail) == "" {
		return nil, errors.New("seed owner email is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	teamName := opts.TeamName
	if teamName == "" {
		teamName = defaultTeamName
	}
	ownerName := opts.OwnerName
	if ownerName == "" {
		ownerName = defaultOwnerName
	}

	result := &Result{}
	ctx := context.Background()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		team, err := ensureTeam(ctx, tx, node, teamName)
		if err != nil {
			return err
		}
		result.TeamID = team.ID

		owner, err := ensureManager(ctx, tx, node, team.ID, opts.OwnerEmail, ownerName)
		if err != nil {
			return err
		}
		result.OwnerID = owner.ID

		if err := ensureAdsPlatform(ctx, tx, node, owner.ID); err != nil {
			return err
		}

		rawKey, err := ensureAdminAPIKey(ctx, tx, node, owner.ID)
		if err != nil {
			return err
		}
		result.RawAPIKey = rawKey
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func ensureTeam(ctx context.Context, tx *gorm.DB, node *snowflake.Node, name string) (*identitydomain.Team, error) {
	slugValue := platformdomain.NewSlug(name)

	var team identitydomain.Team
	err := tx.WithContext(ctx).Where("slug = ?", slugValue).First(&team).Error
	if err == nil {
		return &team, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	team = identitydomain.Team{
		ID:   node.Generate(),
		Name: name,
		Slug: slugValue,
	}
	if err := tx.WithContext(ctx).Create(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func ensureManager(ctx context.Context, tx *gorm.DB, node *snowflake.Node, teamID snowflake.ID, email, name string) (*identitydomain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user identitydomain.User
	err := tx.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = identitydomain.User{
		ID:          node.Generate(),
		TeamID:      &teamID,
		Email:       email,
		DisplayName: name,
		Role:        identitydomain.RoleManager,
		Active:      true,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func ensureAdsPlatform(ctx context.Context, tx *gorm.DB, node *snowflake.Node, ownerID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&platformdomain.Platform{}).
		Where("owner_id = ? AND code = ?", ownerID, platformdomain.SourceGoogleAds).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return tx.WithContext(ctx).Create(&platformdomain.Platform{
		ID:       node.Generate(),
		OwnerID:  ownerID,
		Code:     platformdomain.SourceGoogleAds,
		Name:     "Google Ads",
		Slug:     platformdomain.NewSlug("Google Ads"),
		Kind:     platformdomain.KindAds,
		Currency: "USD",
		Active:   true,
	}).Error
}

func ensureAdminAPIKey(ctx context.Context, tx *gorm.DB, node *snowflake.Node, ownerID snowflake.ID) (string, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&apikeydomain.APIKey{}).
		Where("owner_id = ? AND is_active = true", ownerID).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", nil
	}

	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	rawKey := fmt.Sprintf("adlens_%s", hex.EncodeToString(raw))

	err = tx.WithContext(ctx).Create(&apikeydomain.APIKey{
		ID:      node.Generate(),
		OwnerID: ownerID,
		Label:   "bootstrap admin",
		KeyHash: apikeydomain.HashAPIKey(rawKey),
		Scopes: pq.StringArray{
			apikeydomain.ScopeAdmin,
		},
		IsActive: true,
	}).Error
	if err != nil {
		return "", err
	}
	return rawKey, nil
}
