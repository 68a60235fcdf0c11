package scheduling

import (
	"cloud.google.com/go/civil"

	"outpatient-registration/internal/domain/entity"
)

// SlotStatus explains why a (date, period) cell is or is not offered.
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotUnscheduled SlotStatus = "unscheduled"
	SlotElapsed     SlotStatus = "elapsed"
	SlotOnLeave     SlotStatus = "on_leave"
)

func (s SlotStatus) Bookable() bool {
	return s == SlotAvailable
}

// LeaveSlot is one (date, period) pair a doctor is unavailable for.
type LeaveSlot struct {
	Date   civil.Date
	Period entity.Period
}

// EvaluateSlot applies, in order: the weekday shift rule (fail closed), the
// elapsed-date cutoff (date <= today, day granularity) and leave overrides.
func EvaluateSlot(rules entity.ShiftRules, leaves []LeaveSlot, today, date civil.Date, period entity.Period) SlotStatus {
	return evaluate(rules, newLeaveSet(leaves), today, date, period)
}

// IsBookable reports whether a patient may book date/period with the doctor.
func IsBookable(rules entity.ShiftRules, leaves []LeaveSlot, today, date civil.Date, period entity.Period) bool {
	return EvaluateSlot(rules, leaves, today, date, period).Bookable()
}

type leaveSet map[LeaveSlot]struct{}

func newLeaveSet(leaves []LeaveSlot) leaveSet {
	set := make(leaveSet, len(leaves))
	for _, l := range leaves {
		set[l] = struct{}{}
	}
	return set
}

func evaluate(rules entity.ShiftRules, leaves leaveSet, today, date civil.Date, period entity.Period) SlotStatus {
	if !period.IsValid() || !rules.Has(WeekdayOf(date), period) {
		return SlotUnscheduled
	}
	if !date.After(today) {
		return SlotElapsed
	}
	if _, onLeave := leaves[LeaveSlot{Date: date, Period: period}]; onLeave {
		return SlotOnLeave
	}
	return SlotAvailable
}

// PeriodSlot is the status of one period of a day.
type PeriodSlot struct {
	Period entity.Period
	Status SlotStatus
}

// DaySlots is a calendar day with the status of each period.
type DaySlots struct {
	CalendarDay
	Slots []PeriodSlot
}

// EvaluateCalendar evaluates every (day, period) cell of cal.
func EvaluateCalendar(cal Calendar, rules entity.ShiftRules, leaves []LeaveSlot, today civil.Date) [][]DaySlots {
	set := newLeaveSet(leaves)
	weeks := make([][]DaySlots, 0, len(cal.Weeks))
	for _, w := range cal.Weeks {
		days := make([]DaySlots, 0, len(w))
		for _, d := range w {
			slots := make([]PeriodSlot, 0, len(entity.Periods))
			for _, p := range entity.Periods {
				slots = append(slots, PeriodSlot{Period: p, Status: evaluate(rules, set, today, d.Date, p)})
			}
			days = append(days, DaySlots{CalendarDay: d, Slots: slots})
		}
		weeks = append(weeks, days)
	}
	return weeks
}
