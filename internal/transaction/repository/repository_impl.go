package repository

import (
	"context"
	"fmt"
	"time"

	txndomain "github.com/adlenslabs/adlens/internal/transaction/domain"
	"github.com/adlenslabs/adlens/pkg/db/option"
	"github.com/adlenslabs/adlens/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() txndomain.Repository {
	return &repo{}
}

func (r *repo) ListByRange(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, begin, end time.Time, merchantID string) ([]txndomain.AffiliateTransaction, error) {
	// end is a date; include the whole final day.
	endExclusive := end.AddDate(0, 0, 1)

	query := db.WithContext(ctx).
		Where("owner_id = ? AND transacted_at >= ? AND transacted_at < ?", ownerID, begin, endExclusive)
	if merchantID != "" {
		query = query.Where("merchant_id = ?", merchantID)
	}

	var rows []txndomain.AffiliateTransaction
	err := query.Order("transacted_at ASC, external_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repo) ListPage(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, begin, end time.Time, merchantID string, page pagination.Pagination) ([]txndomain.AffiliateTransaction, error) {
	endExclusive := end.AddDate(0, 0, 1)

	query := db.WithContext(ctx).
		Where("owner_id = ? AND transacted_at >= ? AND transacted_at < ?", ownerID, begin, endExclusive)
	if merchantID != "" {
		query = query.Where("merchant_id = ?", merchantID)
	}
	query = option.ApplyPagination(page).Apply(query)

	var rows []txndomain.AffiliateTransaction
	err := query.Order("transacted_at ASC, external_id ASC").Find(&rows).Error
	return rows, err
}

func (r *repo) UpsertBatch(ctx context.Context, db *gorm.DB, rows []txndomain.AffiliateTransaction) error {
	// Postgres rejects an upsert touching the same conflict key twice in one
	// statement, so a batch repeating an external id keeps only its last row.
	type txnKey struct {
		owner      snowflake.ID
		platform   snowflake.ID
		externalID string
	}
	seen := make(map[txnKey]int, len(rows))
	deduped := rows[:0:0]
	for _, row := range rows {
		key := txnKey{owner: row.OwnerID, platform: row.PlatformID, externalID: row.ExternalID}
		if idx, ok := seen[key]; ok {
			deduped[idx] = row
			continue
		}
		seen[key] = len(deduped)
		deduped = append(deduped, row)
	}
	rows = deduped

	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "owner_id"},
			{Name: "platform_id"},
			{Name: "external_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"merchant_id", "commission", "currency", "orders", "status",
			"transacted_at", "metadata", "updated_at",
		}),
	}).Create(&rows).Error
}

func (r *repo) RejectedTotalsByDay(ctx context.Context, db *gorm.DB, ownerID snowflake.ID, begin, end time.Time) ([]txndomain.RejectedDayTotal, error) {
	endExclusive := end.AddDate(0, 0, 1)

	// DATE() yields a string on sqlite and a date on postgres; scan as text
	// and parse so both dialects land on a UTC midnight time.Time.
	type rejectedDayRow struct {
		OwnerID    snowflake.ID
		PlatformID snowflake.ID
		Day        string
		Rejected   float64
	}
	var raw []rejectedDayRow
	err := db.WithContext(ctx).Raw(
		`SELECT owner_id, platform_id, DATE(transacted_at) AS day, SUM(commission) AS rejected
		 FROM affiliate_transactions
		 WHERE owner_id = ? AND status = ? AND transacted_at >= ? AND transacted_at < ?
		 GROUP BY owner_id, platform_id, DATE(transacted_at)
		 ORDER BY day ASC`,
		ownerID, txndomain.StatusRejected, begin, endExclusive,
	).Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	totals := make([]txndomain.RejectedDayTotal, 0, len(raw))
	for _, row := range raw {
		value := row.Day
		if len(value) > 10 {
			value = value[:10]
		}
		day, err := time.ParseInLocation("2006-01-02", value, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse rejected day %q: %w", row.Day, err)
		}
		totals = append(totals, txndomain.RejectedDayTotal{
			OwnerID:    row.OwnerID,
			PlatformID: row.PlatformID,
			Day:        day,
			Rejected:   row.Rejected,
		})
	}
	return totals, nil
}
