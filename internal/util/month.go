package util

import "time"

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// IsPastMonth returns true if the given year/month is before the month of asOf
func IsPastMonth(year, month int, asOf time.Time) bool {
	if year < asOf.Year() {
		return true
	}
	if year == asOf.Year() && month < int(asOf.Month()) {
		return true
	}
	return false
}

// MonthBoundaries returns the first and last day of a month, both inclusive
func MonthBoundaries(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// WeekStart returns the Monday of the week containing t, truncated to midnight UTC.
// Weeks run Monday through Sunday.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := int(day.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return day.AddDate(0, 0, -offset)
}

// ISOWeekday returns the ISO-8601 weekday for t: 1=Monday .. 7=Sunday
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
