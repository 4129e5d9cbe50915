package repository

import (
	"context"
	"time"

	metricdomain "github.com/adlenslabs/adlens/internal/metric/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() metricdomain.Repository {
	return &repo{}
}

func (r *repo) ListByRange(ctx context.Context, db *gorm.DB, ownerID, platformID snowflake.ID, begin, end time.Time) ([]metricdomain.DailyMetric, error) {
	query := db.WithContext(ctx).
		Where("owner_id = ? AND metric_date >= ? AND metric_date <= ?", ownerID, begin, end)
	if platformID != 0 {
		query = query.Where("platform_id = ?", platformID)
	}

	var rows []metricdomain.DailyMetric
	err := query.Order("metric_date ASC, campaign_key ASC").Find(&rows).Error
	return rows, err
}

func (r *repo) ReplaceDay(ctx context.Context, db *gorm.DB, ownerID, platformID snowflake.ID, day time.Time, rows []metricdomain.DailyMetric) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("owner_id = ? AND platform_id = ? AND metric_date = ?", ownerID, platformID, day).
			Delete(&metricdomain.DailyMetric{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}
