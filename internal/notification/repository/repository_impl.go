package repository

import (
	"context"
	"time"

	notificationdomain "github.com/adlenslabs/adlens/internal/notification/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() notificationdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, n *notificationdomain.Notification) error {
	return db.WithContext(ctx).Create(n).Error
}

func (r *repo) ListByOwner(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, unreadOnly bool, limit int) ([]notificationdomain.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := db.WithContext(ctx).Where("owner_id = ?", ownerID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var rows []notificationdomain.Notification
	err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *repo) MarkRead(ctx context.Context, db *gorm.DB, ownerID, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).
		Model(&notificationdomain.Notification{}).
		Where("owner_id = ? AND id = ?", ownerID, id).
		Update("read", true)
	return result.RowsAffected > 0, result.Error
}

func (r *repo) ListSnapshots(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, begin, end time.Time) ([]notificationdomain.RejectedSnapshot, error) {
	var rows []notificationdomain.RejectedSnapshot
	err := db.WithContext(ctx).
		Where("owner_id = ? AND day >= ? AND day <= ?", ownerID, begin, end).
		Order("day ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repo) UpsertSnapshot(ctx context.Context, db *gorm.DB, snap *notificationdomain.RejectedSnapshot) error {
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_id"},
			{Name: "platform_id"},
			{Name: "day"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"rejected", "updated_at"}),
	}).Create(snap).Error
}
