package calendar

import "time"

// CalendarID identifies a settlement calendar.
type CalendarID string

const (
	TARGET        CalendarID = "TARGET"
	US            CalendarID = "US"
	GB            CalendarID = "GB"
	JP            CalendarID = "JP"
	JointTARGETUS CalendarID = "TARGET+US"
)

// Convention selects the business-day adjustment rule for rolled dates.
type Convention string

const (
	Following         Convention = "Following"
	ModifiedFollowing Convention = "ModifiedFollowing"
	Unadjusted        Convention = "Unadjusted"
)

var targetHolidays = map[string]struct{}{}
var usHolidays = map[string]struct{}{}
var gbHolidays = map[string]struct{}{}
var jpHolidays = map[string]struct{}{}

func isHoliday(cal CalendarID, t time.Time) bool {
	key := t.Format("2006-01-02")
	switch cal {
	case TARGET:
		_, ok := targetHolidays[key]
		return ok
	case US:
		_, ok := usHolidays[key]
		return ok
	case GB:
		_, ok := gbHolidays[key]
		return ok
	case JP:
		_, ok := jpHolidays[key]
		return ok
	case JointTARGETUS:
		// A joint calendar is closed whenever either component is closed.
		return isHoliday(TARGET, t) || isHoliday(US, t)
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// Apply adjusts t per the given convention.
func Apply(conv Convention, cal CalendarID, t time.Time) time.Time {
	switch conv {
	case ModifiedFollowing:
		return Adjust(cal, t)
	case Following:
		return AdjustFollowing(cal, t)
	default:
		return t
	}
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// SpotDate returns the settlement date for an FX pair traded on tradeDate,
// i.e. tradeDate advanced by settlementDays business days on cal.
func SpotDate(cal CalendarID, tradeDate time.Time, settlementDays int) time.Time {
	return AddBusinessDays(cal, tradeDate, settlementDays)
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	nextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return AddBusinessDays(cal, nextMonth, -1)
}
