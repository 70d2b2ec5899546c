package request

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder is shown for empty optional values.
const Placeholder = "-"

// Dutch month abbreviations, fixed so output never depends on the locale.
var monthAbbrev = [12]string{"jan", "feb", "mrt", "apr", "mei", "jun", "jul", "aug", "sep", "okt", "nov", "dec"}

// ParseDate parses the date part of an ISO date or date-time string.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	return time.Parse(time.DateOnly, s)
}

// FormatDate renders an ISO date as "D MMM YYYY" with Dutch month
// abbreviations, e.g. "2024-03-01" becomes "1 mrt 2024". Empty input renders
// as the placeholder; unparseable input is returned unchanged.
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d %s %d", t.Day(), monthAbbrev[t.Month()-1], t.Year())
}

// FormatNumericDate renders an ISO date as "D-M-YYYY".
func FormatNumericDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%d-%d-%d", t.Day(), int(t.Month()), t.Year())
}
