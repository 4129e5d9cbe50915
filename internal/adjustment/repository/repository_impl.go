package repository

import (
	"context"
	"time"

	adjustmentdomain "github.com/adlenslabs/adlens/internal/adjustment/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() adjustmentdomain.Repository {
	return &repo{}
}

func (r *repo) ListByRange(ctx context.Context, db *gorm.DB, ownerID, platformID snowflake.ID, begin, end time.Time) ([]adjustmentdomain.ExpenseAdjustment, error) {
	query := db.WithContext(ctx).
		Where("owner_id = ? AND adjust_date >= ? AND adjust_date <= ?", ownerID, begin, end)
	if platformID != 0 {
		query = query.Where("platform_id = ?", platformID)
	}

	var rows []adjustmentdomain.ExpenseAdjustment
	err := query.Order("adjust_date ASC").Find(&rows).Error
	return rows, err
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, row *adjustmentdomain.ExpenseAdjustment) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_id"},
			{Name: "platform_id"},
			{Name: "adjust_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"extra_cost", "rejected_commission", "note", "updated_at",
		}),
	}).Create(row).Error
}
