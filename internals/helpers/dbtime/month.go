package dbtime

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// MonthStart: tanggal 1 dari bulan t (kalender t sendiri), disimpan sebagai UTC midnight
// supaya cocok dengan kolom DATE.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DateOf: tanggal kalender t (zona t sendiri) sebagai UTC midnight, untuk kolom DATE.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfDay: 00:00 tanggal d (kalender) di zona loc.
func StartOfDay(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// AddMonths tanpa overflow hari (selalu dari tanggal 1).
func AddMonths(t time.Time, n int) time.Time {
	m := MonthStart(t)
	return time.Date(m.Year(), m.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsFrom: n bulan berurutan mulai bulan start, masing-masing tanggal 1.
func MonthsFrom(start time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, AddMonths(start, i))
	}
	return out
}

// MonthsBetween: semua bulan (tanggal 1) dari bulan from s/d bulan to, inklusif.
func MonthsBetween(from, to time.Time) []time.Time {
	first, last := MonthStart(from), MonthStart(to)
	if last.Before(first) {
		return nil
	}
	var out []time.Time
	for m := first; !m.After(last); m = AddMonths(m, 1) {
		out = append(out, m)
	}
	return out
}

// MonthEnd: hari terakhir bulan t.
func MonthEnd(t time.Time) time.Time {
	return AddMonths(t, 1).AddDate(0, 0, -1)
}

// MonthKey "YYYY-MM"
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("tanggal %q harus format YYYY-MM-DD", s)
	}
	return t, nil
}

// ParseMonth terima "YYYY-MM" atau "YYYY-MM-DD" → tanggal 1.
func ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(MonthLayout, s); err == nil {
		return MonthStart(t), nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bulan %q harus format YYYY-MM", s)
	}
	return MonthStart(t), nil
}
