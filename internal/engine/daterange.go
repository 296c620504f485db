package engine

import (
	"strings"
	"time"
)

// DateRange bounds an aggregation window, inclusive of From, exclusive of To.
type DateRange struct {
	From time.Time
	To   time.Time
}

// currentMonth is the default window when a query names no period.
func currentMonth(now time.Time) DateRange {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return DateRange{From: from, To: from.AddDate(0, 1, 0)}
}

// trailingMonths returns a window covering the n calendar months ending
// with the current one.
func trailingMonths(now time.Time, n int) DateRange {
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	return DateRange{From: to.AddDate(0, -n, 0), To: to}
}

// ParseDateRange picks an explicit window out of the query text, or nil
// when the text names none and the intent default should apply.
func ParseDateRange(text string, now time.Time) *DateRange {
	normalized := normalizeQuery(text)
	switch {
	case strings.Contains(normalized, "last month"):
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		return &DateRange{From: from, To: from.AddDate(0, 1, 0)}
	case strings.Contains(normalized, "this year"):
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &DateRange{From: from, To: from.AddDate(1, 0, 0)}
	case strings.Contains(normalized, "last year"):
		from := time.Date(now.Year()-1, 1, 1, 0, 0, 0, 0, now.Location())
		return &DateRange{From: from, To: from.AddDate(1, 0, 0)}
	case strings.Contains(normalized, "this week"):
		weekday := int(now.Weekday())
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -weekday)
		return &DateRange{From: from, To: from.AddDate(0, 0, 7)}
	case strings.Contains(normalized, "this month"):
		r := currentMonth(now)
		return &r
	}
	return nil
}
