package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/fitpro-backend/internal/models"
	"gorm.io/gorm"
)

// PruneSystemLogs deletes system_logs written before cutoff.
func PruneSystemLogs(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff.UTC()).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup prunes system logs older than retentionDays once at start and
// then daily until done is closed.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	if retentionDays <= 0 {
		return
	}
	run := func() {
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		deleted, err := PruneSystemLogs(db, cutoff)
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
		} else if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted, "retention_days", retentionDays)
		}
	}

	go func() {
		run()
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				run()
			case <-done:
				return
			}
		}
	}()
}
