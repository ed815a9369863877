package services

import (
	"fmt"
	"time"

	"github.com/ashmitsharp/cashlens-reports/internal/models"
)

// EpochYear is the first year covered by the ALL period
const EpochYear = 2010

// ResolvePeriod turns a reference instant and a period code into a concrete
// date range. Week windows start at midnight on the Monday at or before ref.
// In clipped mode they end at ref; in full span mode they run through the
// whole of Sunday (start + 6 days), which may lie after ref.
func ResolvePeriod(ref time.Time, code string, mode models.WeekEndMode) (models.Period, error) {
	loc := ref.Location()

	switch code {
	case models.PeriodWeek:
		start := startOfDay(ref).AddDate(0, 0, -weekdayOffset(ref))
		end := ref
		if mode == models.WeekEndFullSpan {
			end = endOfDay(start.AddDate(0, 0, 6))
		} else if mode != models.WeekEndClipped {
			return models.Period{}, fmt.Errorf("%w: unknown week end mode %q", ErrInvalidPeriod, mode)
		}
		return models.Period{Start: start, End: end}, nil

	case models.PeriodMonth:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		return models.Period{Start: start, End: ref}, nil

	case models.PeriodYear:
		start := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return models.Period{Start: start, End: ref}, nil

	case models.PeriodAll:
		start := time.Date(EpochYear, time.January, 1, 0, 0, 0, 0, loc)
		if ref.Before(start) {
			start = startOfDay(ref)
		}
		return models.Period{Start: start, End: ref}, nil
	}

	return models.Period{}, invalidPeriodError(code)
}

// TrailingMonths returns the window of n calendar months ending with the day
// of ref, inclusive. The window works on whole days; the day of month is
// clamped when the target month is shorter.
func TrailingMonths(ref time.Time, n int) models.Period {
	day := startOfDay(ref)
	return models.Period{Start: subtractMonths(day, n), End: endOfDay(ref)}
}

// MonthPeriod returns the whole calendar month year/month in loc
func MonthPeriod(year int, month time.Month, loc *time.Location) models.Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return models.Period{Start: start, End: start.AddDate(0, 1, 0).Add(-time.Nanosecond)}
}

// weekdayOffset is the zero-based weekday with Monday as 0
func weekdayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay is the last instant of t's calendar day
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func subtractMonths(t time.Time, n int) time.Time {
	year, month := t.Year(), int(t.Month())-n
	for month < 1 {
		month += 12
		year--
	}

	day := t.Day()
	if last := daysIn(year, time.Month(month)); day > last {
		day = last
	}

	return time.Date(year, time.Month(month), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
