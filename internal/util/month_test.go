package util

import (
	"testing"
	"time"
)

func TestPreviousMonth(t *testing.T) {
	year, month := PreviousMonth(2026, 6)
	if year != 2026 || month != 5 {
		t.Errorf("Expected 2026-05, got %d-%02d", year, month)
	}

	year, month = PreviousMonth(2026, 1)
	if year != 2025 || month != 12 {
		t.Errorf("Expected 2025-12, got %d-%02d", year, month)
	}
}

func TestIsPastMonth(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	if !IsPastMonth(2026, 5, asOf) {
		t.Error("Expected previous month to be past")
	}
	if !IsPastMonth(2025, 12, asOf) {
		t.Error("Expected previous year to be past")
	}
	if IsPastMonth(2026, 6, asOf) {
		t.Error("Expected current month not to be past")
	}
	if IsPastMonth(2026, 7, asOf) {
		t.Error("Expected future month not to be past")
	}
	if IsPastMonth(2027, 1, asOf) {
		t.Error("Expected next year not to be past")
	}
}

func TestMonthBoundaries(t *testing.T) {
	start, end := MonthBoundaries(2026, 6)
	if !start.Equal(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected start 2026-06-01, got %s", start)
	}
	if !end.Equal(time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected end 2026-06-30, got %s", end)
	}
}

func TestMonthBoundaries_February(t *testing.T) {
	_, end := MonthBoundaries(2026, 2)
	if end.Day() != 28 {
		t.Errorf("Expected February 2026 to end on the 28th, got %d", end.Day())
	}

	_, end = MonthBoundaries(2028, 2)
	if end.Day() != 29 {
		t.Errorf("Expected February 2028 to end on the 29th, got %d", end.Day())
	}
}

func TestWeekStart(t *testing.T) {
	monday := time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)

	// Wednesday falls back to its Monday
	wednesday := time.Date(2026, 6, 10, 15, 30, 0, 0, time.UTC)
	if got := WeekStart(wednesday); !got.Equal(monday) {
		t.Errorf("Expected Monday the 8th, got %s", got)
	}

	// Sunday belongs to the week that started six days earlier
	sunday := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(sunday); !got.Equal(monday) {
		t.Errorf("Expected Monday the 8th for Sunday, got %s", got)
	}

	// Monday maps to itself
	if got := WeekStart(monday); !got.Equal(monday) {
		t.Errorf("Expected Monday to map to itself, got %s", got)
	}
}

func TestISOWeekday(t *testing.T) {
	// 2026-06-08 is a Monday
	if got := ISOWeekday(time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)); got != 1 {
		t.Errorf("Expected Monday to be 1, got %d", got)
	}
	// 2026-06-14 is a Sunday
	if got := ISOWeekday(time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)); got != 7 {
		t.Errorf("Expected Sunday to be 7, got %d", got)
	}
	// 2026-06-13 is a Saturday
	if got := ISOWeekday(time.Date(2026, 6, 13, 0, 0, 0, 0, time.UTC)); got != 6 {
		t.Errorf("Expected Saturday to be 6, got %d", got)
	}
}
