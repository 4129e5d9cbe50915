package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	notificationdomain "github.com/adlenslabs/adlens/internal/notification/domain"
	reportdomain "github.com/adlenslabs/adlens/internal/report/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// RejectedWatchJob compares the current rejected-commission totals against
// the last snapshot per (owner, platform, day) and emits a notification for
// every increase. A commission flipping to rejected days after the fact is
// the event dashboard users most want surfaced.
func (s *Scheduler) RejectedWatchJob(ctx context.Context) error {
	users, err := s.identityRepo.ListActiveUsers(ctx, s.db)
	if err != nil {
		return err
	}

	end := reportdomain.DateOnly(s.clock.Now()).AddDate(0, 0, -1)
	begin := end.AddDate(0, 0, -(s.cfg.SyncLookbackDays - 1))

	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.watchOwner(ctx, u.ID, begin, end); err != nil {
			s.log.Error("rejected watch failed for owner",
				zap.Int64("owner_id", int64(u.ID)),
				zap.Error(err))
		}
	}
	return nil
}

func (s *Scheduler) watchOwner(ctx context.Context, ownerID snowflake.ID, begin, end time.Time) error {
	totals, err := s.txnRepo.RejectedTotalsByDay(ctx, s.db, ownerID, begin, end)
	if err != nil {
		return err
	}
	snapshots, err := s.notifRepo.ListSnapshots(ctx, s.db, ownerID, begin, end)
	if err != nil {
		return err
	}

	previous := make(map[string]float64, len(snapshots))
	for _, snap := range snapshots {
		previous[snapshotKey(snap.PlatformID, snap.Day)] = snap.Rejected
	}

	for _, total := range totals {
		day := reportdomain.DateOnly(total.Day)
		prev := previous[snapshotKey(total.PlatformID, day)]
		if total.Rejected > prev {
			if err := s.notifyRejectedDelta(ctx, ownerID, total.PlatformID, day, prev, total.Rejected); err != nil {
				return err
			}
		}
		if total.Rejected != prev {
			err := s.notifRepo.UpsertSnapshot(ctx, s.db, &notificationdomain.RejectedSnapshot{
				ID:         s.genID.Generate(),
				OwnerID:    ownerID,
				PlatformID: total.PlatformID,
				Day:        day,
				Rejected:   total.Rejected,
				UpdatedAt:  s.clock.Now(),
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scheduler) notifyRejectedDelta(ctx context.Context, ownerID, platformID snowflake.ID, day time.Time, prev, current float64) error {
	payload, err := json.Marshal(notificationdomain.RejectedDeltaPayload{
		PlatformID: platformID,
		Day:        day.Format("2006-01-02"),
		Previous:   prev,
		Current:    current,
	})
	if err != nil {
		return err
	}
	rejectedDeltas.Inc()
	return s.notifRepo.Insert(ctx, s.db, &notificationdomain.Notification{
		ID:      s.genID.Generate(),
		OwnerID: ownerID,
		Kind:    notificationdomain.KindRejectedCommissionDelta,
		Payload: datatypes.JSON(payload),
	})
}

func snapshotKey(platformID snowflake.ID, day time.Time) string {
	return fmt.Sprintf("%d/%s", platformID, day.Format("2006-01-02"))
}
