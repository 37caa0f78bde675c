package bibutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-bibfmt/pkg/entry"
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// PublicationDate returns "yyyy-mm" when the record has a year and a
// recognisable month, "yyyy" when it only has a year, and false otherwise.
func PublicationDate(rec entry.Record, db entry.Lookup) (string, bool) {
	return publicationDate(rec, db, time.Now().Year())
}

func publicationDate(rec entry.Record, db entry.Lookup, thisYear int) (string, bool) {
	rawYear, ok := entry.ResolveField(rec, "year", db)
	if !ok {
		return "", false
	}
	year := ToFourDigitYear(ShaveString(rawYear), thisYear)
	if year == "" {
		return "", false
	}

	rawMonth, ok := entry.ResolveField(rec, "month", db)
	if !ok {
		return year, true
	}
	month, ok := ParseMonth(rawMonth)
	if !ok {
		return year, true
	}
	return fmt.Sprintf("%s-%02d", year, month), true
}

// ParseMonth understands numbers (3, 03), names and abbreviations (mar,
// March, Mar.) and string references (#mar#).
func ParseMonth(value string) (int, bool) {
	s := strings.TrimSpace(value)
	s = strings.Trim(s, "#{}\" ")
	s = strings.TrimSuffix(strings.ToLower(s), ".")
	if s == "" {
		return 0, false
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n, true
		}
		return 0, false
	}

	if len(s) < 3 {
		return 0, false
	}
	for idx, name := range monthNames {
		if strings.HasPrefix(name, s) {
			return idx + 1, true
		}
	}
	return 0, false
}

// ToFourDigitYear expands two-digit years relative to thisYear: values that
// land more than 30 years in the future are placed in the previous century.
// Anything that is not a two-digit number is returned trimmed.
func ToFourDigitYear(year string, thisYear int) string {
	year = strings.TrimSpace(year)
	if len(year) != 2 {
		return year
	}
	yy, err := strconv.Atoi(year)
	if err != nil || yy < 0 {
		return year
	}

	thisTwoDigits := thisYear % 100
	thisCentury := thisYear - thisTwoDigits
	if yy == thisTwoDigits {
		return strconv.Itoa(thisYear)
	}

	var full int
	if (yy+100-thisTwoDigits)%100 > 30 {
		if yy < thisTwoDigits {
			full = thisCentury + yy
		} else {
			full = thisCentury - 100 + yy
		}
	} else {
		if yy < thisTwoDigits {
			full = thisCentury + 100 + yy
		} else {
			full = thisCentury + yy
		}
	}
	return strconv.Itoa(full)
}
