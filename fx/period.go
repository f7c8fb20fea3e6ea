package fx

import (
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/fxlib/utils"
)

// Period is a nominal tenor label such as "1W", "3M" or "10Y". The empty
// period means "unspecified" (e.g. a forward rate read off a curve at a time
// rather than a quoted tenor).
type Period string

// IsZero reports whether the tenor is unspecified.
func (p Period) IsZero() bool { return strings.TrimSpace(string(p)) == "" }

func (p Period) split() (int, byte, bool) {
	s := strings.TrimSpace(strings.ToUpper(string(p)))
	if len(s) < 2 {
		return 0, 0, false
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, 0, false
	}
	switch unit {
	case 'D', 'W', 'M', 'Y':
		return n, unit, true
	}
	return 0, 0, false
}

// Years converts the tenor to a nominal year fraction ("1W" -> 7/365).
func (p Period) Years() float64 {
	n, unit, ok := p.split()
	if !ok {
		return 0
	}
	switch unit {
	case 'D':
		return float64(n) / 365.0
	case 'W':
		return float64(n) * 7.0 / 365.0
	case 'M':
		return float64(n) / 12.0
	default:
		return float64(n)
	}
}

// AddTo advances t by the tenor using calendar date arithmetic
// (months roll EDATE-style, weeks and days are exact).
func (p Period) AddTo(t time.Time) time.Time {
	n, unit, ok := p.split()
	if !ok {
		return t
	}
	switch unit {
	case 'D':
		return t.AddDate(0, 0, n)
	case 'W':
		return t.AddDate(0, 0, 7*n)
	case 'M':
		return utils.AddMonth(t, n)
	default:
		return utils.AddMonth(t, 12*n)
	}
}
