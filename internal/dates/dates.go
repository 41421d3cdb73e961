// Package dates parses the date arguments used to name journal entries.
//
// Entry dates are plain strings in the journal. Commands that create entries
// accept "today", "yesterday", "tomorrow" or YYYY-MM-DD and store the
// canonical YYYY-MM-DD form; dates already in a journal are never rewritten.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layout is the canonical entry date format.
const Layout = "2006-01-02"

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(Layout, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse(Layout, s)
}

// ParseDateArg parses a CLI date argument which can be:
// - "today", "yesterday", "tomorrow" (relative dates)
// - "YYYY-MM-DD" format (absolute date)
// - Empty string defaults to today
func ParseDateArg(arg string, now time.Time) (time.Time, error) {
	dateArg := strings.ToLower(strings.TrimSpace(arg))
	switch dateArg {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	default:
		parsed, err := ParseDate(dateArg)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date format '%s', use YYYY-MM-DD or today/yesterday/tomorrow", arg)
		}
		return parsed, nil
	}
}

// EntryDate resolves a CLI date argument to the string stored on an entry.
func EntryDate(arg string, now time.Time) (string, error) {
	t, err := ParseDateArg(arg, now)
	if err != nil {
		return "", err
	}
	return t.Format(Layout), nil
}

// Compare orders entry dates. Canonical dates compare chronologically and sort
// before free-form dates, which compare as strings.
func Compare(a, b string) int {
	ta, errA := ParseDate(a)
	tb, errB := ParseDate(b)
	switch {
	case errA == nil && errB == nil:
		return ta.Compare(tb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
