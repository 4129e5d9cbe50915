package repository

import (
	"context"
	"errors"

	platformdomain "github.com/adlenslabs/adlens/internal/platform/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() platformdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, p *platformdomain.Platform) error {
	if p.Slug == "" {
		p.Slug = platformdomain.NewSlug(p.Name)
	}
	return db.WithContext(ctx).Create(p).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*platformdomain.Platform, error) {
	var p platformdomain.Platform
	err := db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, code string) (*platformdomain.Platform, error) {
	var p platformdomain.Platform
	err := db.WithContext(ctx).Where("owner_id = ? AND code = ?", ownerID, code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]platformdomain.Platform, error) {
	var items []platformdomain.Platform
	err := db.WithContext(ctx).
		Where("owner_id = ? AND active = ?", ownerID, true).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *repo) InsertAccount(ctx context.Context, db *gorm.DB, a *platformdomain.AffiliateAccount) error {
	return db.WithContext(ctx).Create(a).Error
}

func (r *repo) ListAccountsByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]platformdomain.AffiliateAccount, error) {
	var items []platformdomain.AffiliateAccount
	err := db.WithContext(ctx).
		Where("owner_id = ? AND active = ?", ownerID, true).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
