package usecase

import (
	"context"
	"testing"
	"time"

	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/service"
	"outpatient-registration/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollectionCache(t *testing.T) (*service.CollectionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return service.NewCollectionCache(rdb, testLogger(), time.Minute, nil), mr
}

func slotStatus(t *testing.T, cal *dto.CalendarResponse, date, period string) string {
	t.Helper()
	for _, week := range cal.Weeks {
		for _, d := range week {
			if d.Date != date {
				continue
			}
			for _, s := range d.Slots {
				if s.Period == period {
					return s.Status
				}
			}
		}
	}
	t.Fatalf("no cell %s %s in calendar", date, period)
	return ""
}

type scheduleFixture struct {
	doctor    *entity.DoctorProfile
	schedules *fakeScheduleRepo
	leaves    *fakeLeaveRepo
	audit     *fakeAudit
	usecase   DoctorScheduleUsecase
}

func newScheduleFixture(cache *service.CollectionCache) *scheduleFixture {
	f := &scheduleFixture{
		doctor: activeDoctor(entity.ShiftRules{
			entity.Wednesday: {entity.PeriodMorning},
			entity.Thursday:  {entity.PeriodMorning, entity.PeriodAfternoon},
		}),
		schedules: &fakeScheduleRepo{},
		leaves:    &fakeLeaveRepo{},
		audit:     &fakeAudit{},
	}
	f.usecase = NewDoctorScheduleUsecase(nil, fakeTx(), testLogger(), fixedClock(), CalendarWindows{},
		f.schedules, newFakeDoctorRepo(f.doctor), f.leaves, f.audit, cache)
	return f
}

func TestPatientCalendar_Statuses(t *testing.T) {
	f := newScheduleFixture(nil)
	f.leaves.requests = append(f.leaves.requests, entity.LeaveRequest{
		DoctorID: f.doctor.UserID,
		Slots: []entity.LeaveSlot{
			{DoctorID: f.doctor.UserID, LeaveDate: day(2025, 1, 23), Period: entity.PeriodAfternoon},
		},
	})

	cal, err := f.usecase.GetPatientCalendar(context.Background(), f.doctor.UserID)
	require.NoError(t, err)

	assert.Equal(t, "2025-01-15", cal.Today)
	assert.Equal(t, "2025-01-13", cal.From)
	assert.Equal(t, "2025-02-09", cal.To)
	assert.Equal(t, "305", cal.Room)
	require.Len(t, cal.Weeks, 4)
	assert.Equal(t, "monday", cal.Weeks[0][0].Weekday)

	tests := []struct {
		date   string
		period string
		want   string
	}{
		{"2025-01-15", "morning", "elapsed"},
		{"2025-01-15", "afternoon", "unscheduled"},
		{"2025-01-16", "morning", "available"},
		{"2025-01-16", "evening", "unscheduled"},
		{"2025-01-23", "morning", "available"},
		{"2025-01-23", "afternoon", "on_leave"},
		{"2025-01-17", "morning", "unscheduled"},
	}
	for _, tt := range tests {
		t.Run(tt.date+" "+tt.period, func(t *testing.T) {
			assert.Equal(t, tt.want, slotStatus(t, cal, tt.date, tt.period))
		})
	}
}

func TestDoctorCalendar_SpansEightWeeks(t *testing.T) {
	f := newScheduleFixture(nil)

	cal, err := f.usecase.GetDoctorCalendar(context.Background(), f.doctor.UserID)
	require.NoError(t, err)
	require.Len(t, cal.Weeks, 8)
	assert.Equal(t, "2025-03-09", cal.To)
}

func TestPatientCalendar_InactiveOrUnknownDoctor(t *testing.T) {
	f := newScheduleFixture(nil)
	inactive := false
	f.doctor.User.IsActive = &inactive
	f.usecase = NewDoctorScheduleUsecase(nil, fakeTx(), testLogger(), fixedClock(), CalendarWindows{},
		f.schedules, newFakeDoctorRepo(f.doctor), f.leaves, f.audit, nil)

	_, err := f.usecase.GetPatientCalendar(context.Background(), f.doctor.UserID)
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	// The doctor still sees their own calendar.
	_, err = f.usecase.GetDoctorCalendar(context.Background(), f.doctor.UserID)
	assert.NoError(t, err)

	_, err = f.usecase.GetDoctorCalendar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPatientCalendar_CachedUntilScheduleUpdate(t *testing.T) {
	cache, mr := newTestCollectionCache(t)
	f := newScheduleFixture(cache)
	ctx := context.Background()
	key := "opd:display:calendar:" + f.doctor.UserID.String() + ":2025-01-15"

	_, err := f.usecase.GetPatientCalendar(ctx, f.doctor.UserID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key))

	resp, err := f.usecase.UpdateSchedule(ctx, uuid.New(), f.doctor.UserID, &dto.UpdateScheduleRequest{
		Room:       "410",
		ShiftRules: map[string][]string{"friday": {"evening"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "410", resp.Room)
	assert.Equal(t, map[string][]string{"friday": {"evening"}}, resp.ShiftRules)
	assert.False(t, mr.Exists(key))

	stored := f.schedules.schedules[f.doctor.UserID]
	assert.True(t, stored.ShiftRules.Has(entity.Friday, entity.PeriodEvening))
	assert.Equal(t, []string{entity.AuditActionScheduleUpdate}, f.audit.actions())
}

func TestUpdateSchedule_RejectsInvalidRules(t *testing.T) {
	f := newScheduleFixture(nil)

	tests := map[string]map[string][]string{
		"unknown weekday":  {"funday": {"morning"}},
		"unknown period":   {"monday": {"noon"}},
		"duplicate period": {"monday": {"morning", "morning"}},
	}
	for name, rules := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.usecase.UpdateSchedule(context.Background(), uuid.New(), f.doctor.UserID, &dto.UpdateScheduleRequest{
				Room:       "305",
				ShiftRules: rules,
			})
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
	assert.Empty(t, f.schedules.schedules)
}

func TestUpdateSchedule_UnknownDoctor(t *testing.T) {
	f := newScheduleFixture(nil)

	_, err := f.usecase.UpdateSchedule(context.Background(), uuid.New(), uuid.New(), &dto.UpdateScheduleRequest{
		Room:       "305",
		ShiftRules: map[string][]string{"monday": {"morning"}},
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestGetSchedule(t *testing.T) {
	f := newScheduleFixture(nil)
	_, err := f.usecase.GetSchedule(context.Background(), f.doctor.UserID)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	require.NoError(t, f.schedules.Upsert(nil, f.doctor.Schedule))
	resp, err := f.usecase.GetSchedule(context.Background(), f.doctor.UserID)
	require.NoError(t, err)
	assert.Equal(t, []string{"morning"}, resp.ShiftRules["wednesday"])
}
