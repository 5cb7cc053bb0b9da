package normalize

import (
	"strconv"
	"strings"
	"time"
)

// ParseMoney parses a permissive numeric string, tolerating currency symbols
// and thousands separators. Any parse failure yields 0.
func ParseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	r := strings.NewReplacer("$", "", "€", "", "£", "", ",", "", " ", "")
	v, err := strconv.ParseFloat(r.Replace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseDate parses a YYYY-MM-DD date, tolerating a trailing T... timestamp
// suffix. Any parse failure yields the zero time, meaning "absent".
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
