package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/users/auth/model"
)

const (
	DefaultCleanupSpec      = "30 2 * * *" // tiap hari 02:30 WIB
	DefaultSessionRetention = 7 * 24 * time.Hour
	cleanupBatch            = 500
	cleanupTimeout          = 4 * time.Minute
)

// purgeCutoff: sesi yang kedaluwarsa/dicabut sebelum titik ini boleh dihapus.
func purgeCutoff(now time.Time, retention time.Duration) time.Time {
	if retention < 0 {
		retention = 0
	}
	return now.Add(-retention)
}

// PurgeSessions menghapus user_sessions mati per batch supaya lock tidak lama.
func PurgeSessions(ctx context.Context, db *gorm.DB, now time.Time, retention time.Duration) (int64, error) {
	cutoff := purgeCutoff(now, retention)
	var total int64
	for {
		sub := db.Model(&model.UserSessionModel{}).
			Select("user_session_id").
			Where("user_session_expires_at < ? OR user_session_revoked_at < ?", cutoff, cutoff).
			Limit(cleanupBatch)

		res := db.WithContext(ctx).
			Where("user_session_id IN (?)", sub).
			Delete(&model.UserSessionModel{})
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
		if res.RowsAffected < cleanupBatch {
			return total, nil
		}
	}
}

// RegisterSessionCleanup mendaftarkan pembersihan user_sessions ke cron bersama.
func RegisterSessionCleanup(c *cron.Cron, spec string, db *gorm.DB, retention time.Duration) (cron.EntryID, error) {
	if spec == "" {
		spec = DefaultCleanupSpec
	}
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		log.Println("[CLEANUP] Menjalankan pembersihan user_sessions...")
		n, err := PurgeSessions(ctx, db, time.Now(), retention)
		if err != nil {
			log.Printf("[CLEANUP ERROR] Gagal hapus sesi: %v", err)
			return
		}
		log.Printf("[CLEANUP] %d sesi kedaluwarsa dihapus", n)
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[CLEANUP] scheduled spec=%q retention=%s", spec, retention)
	return id, nil
}
