package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, p *Platform) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (*Platform, error)
	FindByCode(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, code string) (*Platform, error)
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]Platform, error)
	InsertAccount(ctx context.Context, db *gorm.DB, a *AffiliateAccount) error
	ListAccountsByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID) ([]AffiliateAccount, error)
}
