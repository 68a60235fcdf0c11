package converter

import (
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/scheduling"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

func ShiftRulesToMap(rules entity.ShiftRules) map[string][]string {
	out := make(map[string][]string, len(rules))
	for day, periods := range rules {
		names := make([]string, len(periods))
		for i, p := range periods {
			names[i] = string(p)
		}
		out[string(day)] = names
	}
	return out
}

// MapToShiftRules converts request input; the result still needs Validate.
func MapToShiftRules(in map[string][]string) entity.ShiftRules {
	rules := make(entity.ShiftRules, len(in))
	for day, names := range in {
		periods := make([]entity.Period, len(names))
		for i, n := range names {
			periods[i] = entity.Period(n)
		}
		rules[entity.WeekdayKey(day)] = periods
	}
	return rules
}

func ScheduleToResponse(schedule *entity.DoctorSchedule) *dto.ScheduleResponse {
	if schedule == nil {
		return nil
	}
	return &dto.ScheduleResponse{
		DoctorID:   schedule.DoctorID,
		Room:       schedule.Room,
		ShiftRules: ShiftRulesToMap(schedule.ShiftRules),
		UpdatedAt:  schedule.UpdatedAt,
	}
}

// LeaveSlotsToScheduling converts stored leave rows for the eligibility rules.
func LeaveSlotsToScheduling(slots []entity.LeaveSlot) []scheduling.LeaveSlot {
	out := make([]scheduling.LeaveSlot, len(slots))
	for i, s := range slots {
		out[i] = scheduling.LeaveSlot{Date: civil.DateOf(s.LeaveDate), Period: s.Period}
	}
	return out
}

// CalendarToResponse renders evaluated calendar weeks.
func CalendarToResponse(doctorID uuid.UUID, room string, today civil.Date, cal scheduling.Calendar, weeks [][]scheduling.DaySlots) *dto.CalendarResponse {
	response := &dto.CalendarResponse{
		DoctorID: doctorID,
		Room:     room,
		Today:    today.String(),
		From:     cal.First().String(),
		To:       cal.Last().String(),
		Weeks:    make([][]dto.CalendarDayResponse, len(weeks)),
	}
	for i, week := range weeks {
		days := make([]dto.CalendarDayResponse, len(week))
		for j, day := range week {
			slots := make([]dto.SlotResponse, len(day.Slots))
			for k, s := range day.Slots {
				slots[k] = dto.SlotResponse{
					Period:   string(s.Period),
					Status:   string(s.Status),
					Bookable: s.Status.Bookable(),
				}
			}
			days[j] = dto.CalendarDayResponse{
				Date:    day.Date.String(),
				Weekday: string(day.Weekday),
				Slots:   slots,
			}
		}
		response.Weeks[i] = days
	}
	return response
}
