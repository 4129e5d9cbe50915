package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rule *MatchRule) error
	Update(ctx context.Context, db *gorm.DB, rule *MatchRule) error
	Delete(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*MatchRule, error)
	// ListByAccount returns rules ordered by priority descending; ties break
	// on creation order so evaluation stays deterministic.
	ListByAccount(ctx context.Context, db *gorm.DB, ownerID, accountID snowflake.ID) ([]MatchRule, error)
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]MatchRule, error)
}
