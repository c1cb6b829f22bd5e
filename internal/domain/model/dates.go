package model

import "time"

// DateOf strips the clock from t, keeping t's calendar day in its own location,
// and returns that day at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar day of now as observed in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// nextMonthClamped moves d one calendar month forward. When d's day does not
// exist in the target month it clamps to that month's last day.
func nextMonthClamped(d time.Time) time.Time {
	y, m, day := d.Date()
	m++
	if m > time.December {
		m = time.January
		y++
	}
	if last := daysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
