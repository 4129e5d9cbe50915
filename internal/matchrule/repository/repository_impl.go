package repository

import (
	"context"
	"errors"

	matchruledomain "github.com/adlenslabs/adlens/internal/matchrule/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() matchruledomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rule *matchruledomain.MatchRule) error {
	return db.WithContext(ctx).Create(rule).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, rule *matchruledomain.MatchRule) error {
	return db.WithContext(ctx).
		Model(&matchruledomain.MatchRule{}).
		Where("owner_id = ? AND id = ?", rule.OwnerID, rule.ID).
		Updates(map[string]any{
			"kind":        rule.Kind,
			"pattern":     rule.Pattern,
			"merchant_id": rule.MerchantID,
			"priority":    rule.Priority,
			"updated_at":  rule.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Delete(&matchruledomain.MatchRule{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*matchruledomain.MatchRule, error) {
	var rule matchruledomain.MatchRule
	err := db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).First(&rule).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repo) ListByAccount(ctx context.Context, db *gorm.DB, ownerID, accountID snowflake.ID) ([]matchruledomain.MatchRule, error) {
	var rules []matchruledomain.MatchRule
	err := db.WithContext(ctx).
		Where("owner_id = ? AND affiliate_account_id = ?", ownerID, accountID).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error
	return rules, err
}

func (r *repo) ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]matchruledomain.MatchRule, error) {
	var rules []matchruledomain.MatchRule
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error
	return rules, err
}
