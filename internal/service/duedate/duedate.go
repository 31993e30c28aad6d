// Package duedate resolves the fixed catalog of Japanese relative-date
// expressions the inquiry form accepts (「１月中」「来月末」「３日後」など) into
// YYYY-MM-DD dates. Anything outside the catalog passes through unchanged so a
// human can still read it on the sheet.
package duedate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

var (
	canonicalPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	monthPattern     = regexp.MustCompile(`([０-９0-9]+)月(中|末|まで)`)
	thisMonthPattern = regexp.MustCompile(`今月(末|中|まで)`)
	nextMonthPattern = regexp.MustCompile(`来月(末|中|まで)?`)
	nextWeekPattern  = regexp.MustCompile(`来週(末|まで)?`)
	thisWeekPattern  = regexp.MustCompile(`今週(末|まで)`)
	daysPattern      = regexp.MustCompile(`([０-９0-9]+)日(後|以内|まで)`)
)

// Normalize converts a due-date expression into a canonical YYYY-MM-DD string
// relative to now. It returns "" for absent values ("", "null", "none"), the
// input unchanged when it is already canonical, and otherwise tries the
// pattern catalog in fixed priority order. The second return value is false
// only when no pattern matched and the input was passed through as-is;
// normalization itself never fails.
func Normalize(raw string, now time.Time) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "", "null", "none":
		return "", true
	}

	if canonicalPattern.MatchString(trimmed) {
		return trimmed, true
	}

	// 「○月中」「○月末」「○月まで」: all three mean "by the end of month N in
	// the current year". A month outside 1..12 falls through to the remaining
	// patterns rather than erroring.
	if m := monthPattern.FindStringSubmatch(trimmed); m != nil {
		if month, err := parseNumber(m[1]); err == nil && month >= 1 && month <= 12 {
			return formatDate(now.Year(), month, lastDay(now.Year(), month)), true
		}
	}

	// 「今月末」「今月中」「今月まで」
	if thisMonthPattern.MatchString(trimmed) {
		y, m := now.Year(), int(now.Month())
		return formatDate(y, m, lastDay(y, m)), true
	}

	// 「来月」「来月末」「来月中」: rolls into January of the next year.
	if nextMonthPattern.MatchString(trimmed) {
		y, m := now.Year(), int(now.Month())+1
		if m > 12 {
			m = 1
			y++
		}
		return formatDate(y, m, lastDay(y, m)), true
	}

	// 「来週」「来週末」: days until next Monday, then forward to that Sunday.
	if nextWeekPattern.MatchString(trimmed) {
		untilNextMonday := 7 - mondayWeekday(now)
		return now.AddDate(0, 0, untilNextMonday+6).Format("2006-01-02"), true
	}

	// 「今週末」「今週まで」: the Sunday closing out the current week.
	if thisWeekPattern.MatchString(trimmed) {
		untilSunday := 6 - mondayWeekday(now)
		return now.AddDate(0, 0, untilSunday).Format("2006-01-02"), true
	}

	// 「○日後」「○日以内」「○日まで」
	if m := daysPattern.FindStringSubmatch(trimmed); m != nil {
		if days, err := parseNumber(m[1]); err == nil {
			return now.AddDate(0, 0, days).Format("2006-01-02"), true
		}
	}

	// Not in the catalog: hand the expression back untouched for human review.
	return raw, false
}

// parseNumber folds full-width digits (０-９) to ASCII before parsing.
func parseNumber(s string) (int, error) {
	return strconv.Atoi(width.Narrow.String(s))
}

// mondayWeekday maps time.Weekday (Sunday=0) onto Monday=0..Sunday=6.
func mondayWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// lastDay returns the last calendar day of the given month, leap years
// included: day zero of the following month.
func lastDay(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
