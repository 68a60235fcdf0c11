package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Period is the coarse time-of-day bucket of a clinic session.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

// Periods lists every period in display order.
var Periods = []Period{PeriodMorning, PeriodAfternoon, PeriodEvening}

func (p Period) IsValid() bool {
	switch p {
	case PeriodMorning, PeriodAfternoon, PeriodEvening:
		return true
	}
	return false
}

func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	if !p.IsValid() {
		return "", fmt.Errorf("unknown period %q", s)
	}
	return p, nil
}

// WeekdayKey is the lowercase English weekday name used as a shift rule key.
type WeekdayKey string

const (
	Monday    WeekdayKey = "monday"
	Tuesday   WeekdayKey = "tuesday"
	Wednesday WeekdayKey = "wednesday"
	Thursday  WeekdayKey = "thursday"
	Friday    WeekdayKey = "friday"
	Saturday  WeekdayKey = "saturday"
	Sunday    WeekdayKey = "sunday"
)

var weekdayKeys = map[time.Weekday]WeekdayKey{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

func WeekdayKeyOf(d time.Weekday) WeekdayKey {
	return weekdayKeys[d]
}

func (k WeekdayKey) IsValid() bool {
	for _, v := range weekdayKeys {
		if v == k {
			return true
		}
	}
	return false
}

// ShiftRules maps a weekday to the periods a doctor holds clinic on that day.
// Stored as JSONB in doctor_schedules.shift_rules.
type ShiftRules map[WeekdayKey][]Period

// Has reports whether the rules list period on weekday.
func (r ShiftRules) Has(day WeekdayKey, period Period) bool {
	for _, p := range r[day] {
		if p == period {
			return true
		}
	}
	return false
}

// Validate rejects unknown weekday keys, unknown periods and duplicates.
func (r ShiftRules) Validate() error {
	for day, periods := range r {
		if !day.IsValid() {
			return fmt.Errorf("unknown weekday %q", day)
		}
		seen := make(map[Period]bool, len(periods))
		for _, p := range periods {
			if !p.IsValid() {
				return fmt.Errorf("unknown period %q on %s", p, day)
			}
			if seen[p] {
				return fmt.Errorf("duplicate period %q on %s", p, day)
			}
			seen[p] = true
		}
	}
	return nil
}

func (r ShiftRules) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

func (r *ShiftRules) Scan(value interface{}) error {
	if value == nil {
		*r = ShiftRules{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal shift rules value:", value))
	}

	result := ShiftRules{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("malformed shift rules: %w", err)
	}
	*r = result
	return nil
}
