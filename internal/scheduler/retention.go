package scheduler

import (
	"context"

	"go.uber.org/zap"
)

// RetentionJob prunes finished sync runs older than the configured window.
// Runs still marked running are kept so a crashed pull stays visible.
func (s *Scheduler) RetentionJob(ctx context.Context) error {
	retentionDays := s.cfg.SyncRunRetentionDays
	if retentionDays <= 0 {
		s.log.Info("sync run retention disabled", zap.Int("days", retentionDays))
		return nil
	}

	cutoff := s.clock.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.runRepo.DeleteFinishedBefore(ctx, s.db, cutoff)
	if err != nil {
		return err
	}

	syncRunsPruned.Add(float64(deleted))
	s.log.Info("pruned sync runs", zap.Time("cutoff", cutoff), zap.Int64("deleted", deleted))
	return nil
}
