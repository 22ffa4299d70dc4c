package filter

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// rocOffset converts a Republic of China (Minguo) year to a Gregorian year.
const rocOffset = 1911

var rocDateRegex = regexp.MustCompile(`^(\d{2,3})/(\d{1,2})/(\d{1,2})$`)

// ParseROCDate parses "113/12/31" as 2024-12-31 in loc.
func ParseROCDate(s string, loc *time.Location) (time.Time, bool) {
	m := rocDateRegex.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year+rocOffset, time.Month(month), day, 0, 0, 0, 0, loc)
	//reject normalized overflow such as 02/31
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// ValidityRange splits a validity period "113/01/01~113/12/31" into its two dates.
func ValidityRange(period string, loc *time.Location) (from, to time.Time, ok bool) {
	parts := strings.Split(period, "~")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}
	from, ok1 := ParseROCDate(parts[0], loc)
	to, ok2 := ParseROCDate(parts[1], loc)
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
