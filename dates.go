package openmensa

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The three date grammars, tried in order; the first one that finds a
// substring match wins. Input is lowercased before matching.
var (
	isoDateRe    = regexp.MustCompile(`(\d{2}(?:\d{2})?)-([01]?\d)-([0-3]?\d)`)
	dottedDateRe = regexp.MustCompile(`([0-3]?\d)\.([01]?\d)\.(\d{2}(?:\d{2})?)`)
	namedDateRe  = regexp.MustCompile(`([0-3]?\d)\.? ?(\S+) ?(\d{2}(?:\d{2})?)`)
)

var monthNames = map[string]time.Month{
	"januar":    time.January,
	"january":   time.January,
	"februar":   time.February,
	"february":  time.February,
	"märz":      time.March,
	"maerz":     time.March,
	"march":     time.March,
	"april":     time.April,
	"mai":       time.May,
	"may":       time.May,
	"juni":      time.June,
	"june":      time.June,
	"juli":      time.July,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"oktober":   time.October,
	"october":   time.October,
	"november":  time.November,
	"dezember":  time.December,
	"december":  time.December,
}

// ExtractDate converts free text into a calendar date. A time.Time is
// passed through without modification, strings are matched against an
// ISO-like, a dotted and a named-month grammar (English and German month
// names, including ASCII umlaut spellings). Two-digit years are mapped
// into 2000-2099; older dates need four digits.
func ExtractDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseDate(strings.ToLower(v))
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrDateFormat, value)
	}
}

func parseDate(text string) (time.Time, error) {
	if m := isoDateRe.FindStringSubmatch(text); m != nil {
		return calendarDate(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := dottedDateRe.FindStringSubmatch(text); m != nil {
		return calendarDate(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := namedDateRe.FindStringSubmatch(text); m != nil {
		month, ok := monthNames[m[2]]
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownMonth, m[2])
		}
		return calendarDate(atoi(m[3]), int(month), atoi(m[1]))
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, text)
}

// atoi is only applied to digit-only submatches.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func calendarDate(year, month, day int) (time.Time, error) {
	if year < 2000 {
		year += 2000
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range values; a changed component means
	// the matched text was no real calendar day.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, fmt.Errorf("%w: no such date %d-%d-%d", ErrDateFormat, year, month, day)
	}
	return d, nil
}

var weekdayOffsets = map[string]int{
	"Mon": 0, "Tue": 1, "Wed": 2, "Thu": 3, "Fri": 4, "Sat": 5, "Sun": 6,
	"Montag":     0,
	"Dienstag":   1,
	"Mittwoch":   2,
	"Donnerstag": 3,
	"Freitag":    4,
	"Samstag":    5,
	"Sonntag":    6,
}

// WeekDays maps weekday keys onto the dates of one week. The anchor date
// is taken as Monday verbatim; no check is done that it actually is one.
type WeekDays struct {
	monday time.Time
}

// NewWeekDays resolves the anchor via ExtractDate and stores it as Monday.
func NewWeekDays(start any) (*WeekDays, error) {
	monday, err := ExtractDate(start)
	if err != nil {
		return nil, err
	}
	return &WeekDays{monday: monday}, nil
}

// Day returns the date for an offset 0-6 or a weekday name (English short
// form or full German name, case-sensitive).
func (w *WeekDays) Day(key any) (time.Time, error) {
	switch k := key.(type) {
	case int:
		if k < 0 || k > 6 {
			return time.Time{}, fmt.Errorf("%w: offset %d", ErrWeekday, k)
		}
		return w.monday.AddDate(0, 0, k), nil
	case string:
		offset, ok := weekdayOffsets[k]
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %q", ErrWeekday, k)
		}
		return w.monday.AddDate(0, 0, offset), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrWeekday, key)
	}
}

// Dates returns the seven dates Monday to Sunday. The slice is recomputed
// from the anchor on every call.
func (w *WeekDays) Dates() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = w.monday.AddDate(0, 0, i)
	}
	return days
}
