// Package scheduling holds the appointment rules of the outpatient portal:
// the booking calendar window, slot eligibility, registration numbering and
// queue advancement. Every function is pure; callers pass "today" explicitly.
package scheduling

import (
	"time"

	"cloud.google.com/go/civil"

	"outpatient-registration/internal/domain/entity"
)

const (
	// PatientWindowDays is the booking horizon offered to patients.
	PatientWindowDays = 28
	// DoctorWindowDays is the horizon of the doctor schedule view.
	DoctorWindowDays = 56
)

// CalendarDay is one date of the window tagged with its weekday.
type CalendarDay struct {
	Date    civil.Date
	Weekday entity.WeekdayKey
}

// Calendar is a window of consecutive dates grouped into Monday-first weeks.
type Calendar struct {
	Weeks [][]CalendarDay
}

// Today returns the civil date of now in loc.
func Today(now time.Time, loc *time.Location) civil.Date {
	if loc != nil {
		now = now.In(loc)
	}
	return civil.DateOf(now)
}

// WeekdayOf returns the shift rule key of d.
func WeekdayOf(d civil.Date) entity.WeekdayKey {
	return entity.WeekdayKeyOf(d.In(time.UTC).Weekday())
}

// WeekStart returns the Monday on or before d.
func WeekStart(d civil.Date) civil.Date {
	offset := (int(d.In(time.UTC).Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// GenerateCalendar produces days consecutive dates starting at the Monday on or
// before today. When today is a Sunday the first six days are already elapsed.
func GenerateCalendar(today civil.Date, days int) Calendar {
	var cal Calendar
	if days <= 0 {
		return cal
	}

	start := WeekStart(today)
	week := make([]CalendarDay, 0, 7)
	for i := 0; i < days; i++ {
		d := start.AddDays(i)
		week = append(week, CalendarDay{Date: d, Weekday: WeekdayOf(d)})
		if len(week) == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = make([]CalendarDay, 0, 7)
		}
	}
	if len(week) > 0 {
		cal.Weeks = append(cal.Weeks, week)
	}
	return cal
}

// Days flattens the calendar.
func (c Calendar) Days() []CalendarDay {
	var days []CalendarDay
	for _, w := range c.Weeks {
		days = append(days, w...)
	}
	return days
}

// First returns the first date of the window.
func (c Calendar) First() civil.Date {
	if len(c.Weeks) == 0 {
		return civil.Date{}
	}
	return c.Weeks[0][0].Date
}

// Last returns the last date of the window.
func (c Calendar) Last() civil.Date {
	if len(c.Weeks) == 0 {
		return civil.Date{}
	}
	w := c.Weeks[len(c.Weeks)-1]
	return w[len(w)-1].Date
}

// Contains reports whether d falls inside the window.
func (c Calendar) Contains(d civil.Date) bool {
	if len(c.Weeks) == 0 {
		return false
	}
	return !d.Before(c.First()) && !d.After(c.Last())
}
