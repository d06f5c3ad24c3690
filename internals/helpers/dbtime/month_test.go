package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthStart(t *testing.T) {
	jkt := time.FixedZone("WIB", 7*3600)
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{name: "mid month", in: date(2024, time.January, 15), want: date(2024, time.January, 1)},
		{name: "already first", in: date(2024, time.March, 1), want: date(2024, time.March, 1)},
		{name: "end of month", in: date(2024, time.February, 29), want: date(2024, time.February, 1)},
		{name: "local calendar wins", in: time.Date(2024, time.May, 1, 2, 0, 0, 0, jkt), want: date(2024, time.May, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(MonthStart(tt.in)), "got %s", MonthStart(tt.in))
		})
	}
}

func TestMonthsFrom(t *testing.T) {
	got := MonthsFrom(date(2024, time.November, 30), 4)
	want := []time.Time{
		date(2024, time.November, 1),
		date(2024, time.December, 1),
		date(2025, time.January, 1),
		date(2025, time.February, 1),
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "index %d got %s", i, got[i])
	}
	assert.Nil(t, MonthsFrom(date(2024, time.January, 1), 0))
}

func TestMonthsBetween(t *testing.T) {
	got := MonthsBetween(date(2024, time.July, 15), date(2025, time.June, 30))
	require.Len(t, got, 12)
	assert.Equal(t, "2024-07", MonthKey(got[0]))
	assert.Equal(t, "2025-06", MonthKey(got[11]))
	assert.Nil(t, MonthsBetween(date(2025, time.January, 1), date(2024, time.January, 1)))
}

func TestMonthEnd(t *testing.T) {
	assert.Equal(t, date(2024, time.February, 29), MonthEnd(date(2024, time.February, 10)))
	assert.Equal(t, date(2023, time.December, 31), MonthEnd(date(2023, time.December, 1)))
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 1), m)

	m, err = ParseMonth("2024-03-17")
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 1), m)

	_, err = ParseMonth("maret")
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	jkt := time.FixedZone("WIB", 7*3600)
	in := time.Date(2024, time.August, 17, 23, 30, 0, 0, jkt)
	assert.Equal(t, date(2024, time.August, 17), DateOf(in))
	assert.Equal(t, date(2024, time.August, 17), DateOf(in.In(jkt)))
}

func TestStartOfDay(t *testing.T) {
	jkt := time.FixedZone("WIB", 7*3600)
	got := StartOfDay(date(2024, time.June, 3), jkt)
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, time.Date(2024, time.June, 2, 17, 0, 0, 0, time.UTC), got.UTC())
}
