package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"sekolahku_backend/internals/helpers/dbtime"
)

const (
	DefaultOverdueSpec = "5 0 * * *" // tiap hari 00:05 WIB
	overdueJobTimeout  = 2 * time.Minute
)

// OverdueMarker: store.Store (bills) memenuhi ini.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, before time.Time) (int64, error)
}

// RunOverdue: tagihan pending yang bulannya sudah lewat → overdue.
// Batasnya tanggal 1 bulan berjalan menurut kalender sekolah (WIB).
func RunOverdue(ctx context.Context, s OverdueMarker, now time.Time) (int64, error) {
	cutoff := dbtime.MonthStart(now.In(dbtime.SchoolLocation()))
	n, err := s.MarkOverdue(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[OVERDUE] %d tagihan sebelum %s ditandai overdue", n, dbtime.MonthKey(cutoff))
	}
	return n, nil
}

// RegisterOverdueJob mendaftarkan job harian ke cron bersama.
func RegisterOverdueJob(c *cron.Cron, spec string, s OverdueMarker) (cron.EntryID, error) {
	if spec == "" {
		spec = DefaultOverdueSpec
	}
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), overdueJobTimeout)
		defer cancel()
		if _, err := RunOverdue(ctx, s, time.Now()); err != nil {
			log.Printf("[OVERDUE] gagal: %v", err)
		}
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[OVERDUE] scheduled spec=%q", spec)
	return id, nil
}
