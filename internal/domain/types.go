package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for record keys.
const DateLayout = "2006-01-02"

// FormatDate renders t as a YYYY-MM-DD record key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Period is the aggregation window of a box office ranking.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Unit is one step of a date range walk.
type Unit string

const (
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
	UnitYear  Unit = "year"
)

// Unit maps a period onto the step used to walk its dates.
func (p Period) Unit() Unit {
	switch p {
	case PeriodWeekly:
		return UnitWeek
	case PeriodMonthly:
		return UnitMonth
	case PeriodYearly:
		return UnitYear
	default:
		return UnitDay
	}
}

// ParsePeriod accepts daily, weekly, monthly or yearly (case-insensitive).
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return p, nil
	case "":
		return PeriodDaily, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Advance returns t moved forward by n units. Month and year steps keep
// the day of month, clamped to the last day of the target month, so
// 01-31 advances to 02-28 and 2024-02-29 to 2025-02-28.
func (u Unit) Advance(t time.Time, n int) time.Time {
	switch u {
	case UnitWeek:
		return t.AddDate(0, 0, 7*n)
	case UnitMonth:
		return addMonths(t, n)
	case UnitYear:
		return addMonths(t, 12*n)
	default:
		return t.AddDate(0, 0, n)
	}
}

func addMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	first = first.AddDate(0, n, 0)
	day := t.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
