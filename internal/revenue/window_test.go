package revenue

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DayWindows(t *testing.T) {
	loc := time.FixedZone("CLT", -4*60*60)
	now := time.Date(2024, time.April, 10, 15, 20, 0, 0, loc)

	today, yesterday := DayWindows(now, loc)

	assert.Equal(t, time.Date(2024, time.April, 10, 0, 0, 0, 0, loc), today.Start)
	assert.Equal(t, time.Date(2024, time.April, 11, 0, 0, 0, 0, loc), today.End)
	assert.Equal(t, time.Date(2024, time.April, 9, 0, 0, 0, 0, loc), yesterday.Start)
	assert.Equal(t, today.Start, yesterday.End)

	// midnight boundaries
	assert.True(t, yesterday.Contains(yesterday.Start), "yesterday's midnight belongs to yesterday")
	assert.False(t, today.Contains(yesterday.Start))
	assert.True(t, today.Contains(today.Start), "today's midnight belongs to today")
	assert.False(t, yesterday.Contains(today.Start))
	assert.True(t, yesterday.Contains(today.Start.Add(-time.Nanosecond)))
}

func Test_DayWindows_UsesLocation(t *testing.T) {
	loc := time.FixedZone("CLT", -4*60*60)
	// 02:00 UTC on the 10th is 22:00 on the 9th in loc
	now := time.Date(2024, time.April, 10, 2, 0, 0, 0, time.UTC)

	today, _ := DayWindows(now, loc)

	assert.True(t, today.Start.Equal(time.Date(2024, time.April, 9, 0, 0, 0, 0, loc)))
}

func santiago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	return loc
}

// Chile moved clocks from 00:00 -04 to 01:00 -03 on 2024-09-08, so that day has no local midnight.
func Test_DayWindows_SpringForwardDay(t *testing.T) {
	// given
	loc := santiago(t)
	now := time.Date(2024, time.September, 8, 15, 0, 0, 0, loc)
	lateSaturday := time.Date(2024, time.September, 7, 23, 30, 0, 0, loc)

	// when
	today, yesterday := DayWindows(now, loc)

	// then
	assert.True(t, today.Start.Equal(time.Date(2024, time.September, 8, 4, 0, 0, 0, time.UTC)), "today starts at the transition, got %s", today.Start)
	assert.Equal(t, 8, today.Start.Day())
	assert.Equal(t, 1, today.Start.Hour())
	assert.True(t, today.End.Equal(time.Date(2024, time.September, 9, 0, 0, 0, 0, loc)))
	assert.True(t, yesterday.Start.Equal(time.Date(2024, time.September, 7, 0, 0, 0, 0, loc)))
	assert.True(t, yesterday.End.Equal(today.Start))

	assert.True(t, yesterday.Contains(lateSaturday), "23:30 on Sep 7 belongs to Sep 7")
	assert.False(t, today.Contains(lateSaturday))
	assert.True(t, today.Contains(today.Start))
}

func Test_DayWindows_DayAfterSpringForward(t *testing.T) {
	// given
	loc := santiago(t)
	now := time.Date(2024, time.September, 9, 10, 0, 0, 0, loc)

	// when
	today, yesterday := DayWindows(now, loc)

	// then
	assert.True(t, today.Start.Equal(time.Date(2024, time.September, 9, 0, 0, 0, 0, loc)))
	assert.True(t, yesterday.Start.Equal(time.Date(2024, time.September, 8, 4, 0, 0, 0, time.UTC)), "yesterday starts at the transition, got %s", yesterday.Start)
	assert.False(t, yesterday.Contains(time.Date(2024, time.September, 7, 23, 30, 0, 0, loc)))
}

func Test_dayStart(t *testing.T) {
	loc := santiago(t)
	testCases := []struct {
		name     string
		year     int
		month    time.Month
		day      int
		expected time.Time
	}{
		{"regular day", 2024, time.March, 15, time.Date(2024, time.March, 15, 0, 0, 0, 0, loc)},
		{"missing midnight", 2024, time.September, 8, time.Date(2024, time.September, 8, 4, 0, 0, 0, time.UTC)},
		{"month underflow", 2024, time.January - 2, 1, time.Date(2023, time.November, 1, 0, 0, 0, 0, loc)},
		{"day overflow", 2024, time.August, 39, time.Date(2024, time.September, 8, 4, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := dayStart(tc.year, tc.month, tc.day, loc)

			assert.True(t, got.Equal(tc.expected), "expected %s, got %s", tc.expected, got)
			assert.Equal(t, loc, got.Location())
		})
	}
}

func Test_MonthOverMonthWindows(t *testing.T) {
	testCases := []struct {
		name         string
		now          time.Time
		currentStart time.Time
		priorStart   time.Time
	}{
		{
			name:         "mid year",
			now:          time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC),
			currentStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			priorStart:   time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "january wraps to previous year",
			now:          time.Date(2024, time.January, 10, 8, 0, 0, 0, time.UTC),
			currentStart: time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
			priorStart:   time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:         "february wraps prior window",
			now:          time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC),
			currentStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			priorStart:   time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			current, prior := MonthOverMonthWindows(tc.now, time.UTC)

			assert.Equal(t, tc.currentStart, current.Start)
			assert.Equal(t, tc.now, current.End)
			assert.Equal(t, tc.priorStart, prior.Start)
			assert.Equal(t, tc.currentStart, prior.End)
		})
	}
}

func Test_NewProductsSince(t *testing.T) {
	now := time.Date(2024, time.May, 20, 12, 0, 0, 0, time.UTC)

	since := NewProductsSince(now, time.UTC)

	assert.Equal(t, time.Date(2024, time.May, 13, 12, 0, 0, 0, time.UTC), since)
	recent := now.Add(-(6*24 + 23) * time.Hour)
	old := now.Add(-(7*24 + 1) * time.Hour)
	assert.False(t, recent.Before(since), "6 days 23 hours ago is new")
	assert.True(t, old.Before(since), "7 days 1 hour ago is not new")
}
