package revenue

import "time"

// NewProductDays is the look-back used to count recently added products.
const NewProductDays = 7

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// dayStart returns the first instant of the calendar day year-month-day in loc, normalizing
// out-of-range values like time.Date does. When a DST transition skips midnight, time.Date
// resolves it to the previous day; the result is then moved forward to the transition.
func dayStart(year int, month time.Month, day int, loc *time.Location) time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	wantY, wantM, wantD := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	if y, m, d := t.Date(); y == wantY && m == wantM && d == wantD {
		return t
	}
	if _, end := t.ZoneBounds(); !end.IsZero() {
		return end.In(loc)
	}
	return t
}

// DayWindows returns the windows covering today and yesterday, midnight to midnight in loc.
// Each boundary is built from its own calendar date.
func DayWindows(now time.Time, loc *time.Location) (today, yesterday Window) {
	local := now.In(loc)
	y, m, d := local.Date()
	todayStart := dayStart(y, m, d, loc)
	today = Window{Start: todayStart, End: dayStart(y, m, d+1, loc)}
	yesterday = Window{Start: dayStart(y, m, d-1, loc), End: todayStart}
	return today, yesterday
}

// MonthOverMonthWindows returns the windows compared by the revenue comparator.
//
// current runs from the first day of the previous calendar month up to now; prior is
// the calendar month before that. current is therefore a rolling window of one to two
// months, not the calendar month to date.
func MonthOverMonthWindows(now time.Time, loc *time.Location) (current, prior Window) {
	local := now.In(loc)
	lastMonthStart := dayStart(local.Year(), local.Month()-1, 1, loc)
	priorStart := dayStart(local.Year(), local.Month()-2, 1, loc)
	current = Window{Start: lastMonthStart, End: now}
	prior = Window{Start: priorStart, End: lastMonthStart}
	return current, prior
}

// NewProductsSince returns the instant from which a product counts as newly added.
// The subtraction is by calendar days, keeping the wall-clock time of now.
func NewProductsSince(now time.Time, loc *time.Location) time.Time {
	return now.In(loc).AddDate(0, 0, -NewProductDays)
}
