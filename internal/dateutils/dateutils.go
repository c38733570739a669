// Package dateutils provides date parsing for bank exports and receipts.
// Bank statements in this domain are day-first (11/07/2025 is 11 July), so
// day-first layouts are tried before month-first ones.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutISOSlash = "2006/01/02"
)

// CommonFormats lists the layouts tried when parsing mixed-format dates.
// Order matters: day-first layouts come first.
var CommonFormats = []string{
	DateLayoutISO,
	"02/01/2006",
	"02-01-2006",
	DateLayoutEuropean,
	"2/1/2006",
	"02/01/06",
	DateLayoutISOSlash,
	"2-Jan-2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-06",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var spaceRun = regexp.MustCompile(`\s+`)

// CleanDateString trims a date string and collapses internal whitespace.
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	return spaceRun.ReplaceAllString(dateStr, " ")
}

// ParseDate attempts to parse a date string using the common layouts.
// Returns the parsed time and the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseDateSafe parses a date cell from a bank export or receipt. Empty and
// placeholder values ("nan", "none") and unparseable strings yield nil rather
// than an error; per-row date failures never abort a run.
func ParseDateSafe(val string) *time.Time {
	s := CleanDateString(val)
	if s == "" {
		return nil
	}
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return nil
	}

	t, _, err := ParseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

// WithinDays reports whether two dates fall within the given symmetric,
// inclusive calendar-day window. Time-of-day is ignored.
func WithinDays(d1, d2 time.Time, days int) bool {
	a := time.Date(d1.Year(), d1.Month(), d1.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(d2.Year(), d2.Month(), d2.Day(), 0, 0, 0, 0, time.UTC)
	diff := a.Sub(b) / (24 * time.Hour)
	if diff < 0 {
		diff = -diff
	}
	return int(diff) <= days
}

// ToISODate formats a time as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// FormatDate formats a time with the given layout, defaulting to ISO.
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}
