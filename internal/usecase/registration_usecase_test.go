package usecase

import (
	"context"
	"testing"
	"time"

	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/service"
	"outpatient-registration/pkg/apperror"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationFixture struct {
	doctor  *entity.DoctorProfile
	regs    *fakeRegistrationRepo
	leaves  *fakeLeaveRepo
	audit   *fakeAudit
	usecase RegistrationUsecase
}

func activeDoctor(rules entity.ShiftRules) *entity.DoctorProfile {
	active := true
	id := uuid.New()
	return &entity.DoctorProfile{
		UserID:       id,
		DepartmentID: "med",
		SpecialtyID:  "cardio",
		User:         entity.User{ID: id, FullName: "Dr. Chen", IsActive: &active},
		Schedule:     &entity.DoctorSchedule{DoctorID: id, Room: "305", ShiftRules: rules},
	}
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()
	f := &registrationFixture{
		doctor: activeDoctor(entity.ShiftRules{
			entity.Monday:   {entity.PeriodMorning},
			entity.Thursday: {entity.PeriodMorning, entity.PeriodAfternoon},
		}),
		regs:   &fakeRegistrationRepo{},
		leaves: &fakeLeaveRepo{},
		audit:  &fakeAudit{},
	}
	departments := &fakeDepartmentRepo{departments: []entity.Department{{
		ID: "med",
		Specialties: []entity.Specialty{
			{ID: "cardio", DepartmentID: "med", RegistrationFee: decimal.RequireFromString("150.00")},
		},
	}}}
	allocator := service.NewRegistrationAllocator(fakeTx(), testLogger(), f.regs, nil, nil, 3, time.Millisecond)
	f.usecase = NewRegistrationUsecase(nil, fakeTx(), testLogger(), fixedClock(), 0,
		f.regs, newFakeDoctorRepo(f.doctor), departments, f.leaves, allocator, f.audit)
	return f
}

func (f *registrationFixture) booking(date, period, nationalID string) *dto.CreateRegistrationRequest {
	return &dto.CreateRegistrationRequest{
		DoctorID:    f.doctor.UserID,
		OPDDate:     date,
		Period:      period,
		NationalID:  nationalID,
		PatientName: "Wang Da-ming",
		BirthDate:   "1980-05-01",
		Phone:       "0912345678",
	}
}

func (f *registrationFixture) seed(date time.Time, period entity.Period, numbers ...int) {
	for _, n := range numbers {
		f.regs.add(entity.Registration{
			DoctorID:           f.doctor.UserID,
			OPDDate:            date,
			Period:             period,
			RegistrationNumber: n,
			NationalID:         uuid.NewString()[:10],
		})
	}
}

func TestCreateRegistration_AssignsSequentialNumbers(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	first, err := f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "morning", "A123456789"))
	require.NoError(t, err)
	second, err := f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "morning", "B123456780"))
	require.NoError(t, err)
	other, err := f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "afternoon", "A123456789"))
	require.NoError(t, err)

	assert.Equal(t, 1, first.RegistrationNumber)
	assert.Equal(t, 2, second.RegistrationNumber)
	assert.Equal(t, 1, other.RegistrationNumber)
	assert.Equal(t, "confirmed", first.Status)
	assert.Equal(t, "Dr. Chen", first.DoctorName)
	assert.True(t, decimal.RequireFromString("150").Equal(first.Fee))
	assert.Equal(t, []string{
		entity.AuditActionRegistrationCreate,
		entity.AuditActionRegistrationCreate,
		entity.AuditActionRegistrationCreate,
	}, f.audit.actions())
}

func TestCreateRegistration_RetriesAfterConcurrentBooking(t *testing.T) {
	f := newRegistrationFixture(t)
	session := day(2025, 1, 20)
	f.seed(session, entity.PeriodMorning, 1, 2, 3)

	// Another instance commits number 4 between our read and our insert.
	f.regs.beforeCreate = func(r *fakeRegistrationRepo) {
		r.add(entity.Registration{
			DoctorID: f.doctor.UserID, OPDDate: session, Period: entity.PeriodMorning,
			RegistrationNumber: 4, NationalID: "F131104093",
		})
	}

	resp, err := f.usecase.CreateRegistration(context.Background(), f.booking("2025-01-20", "morning", "A123456789"))
	require.NoError(t, err)
	assert.Equal(t, 5, resp.RegistrationNumber)
}

func TestCreateRegistration_RejectsUnbookableSlots(t *testing.T) {
	f := newRegistrationFixture(t)
	f.leaves.requests = append(f.leaves.requests, entity.LeaveRequest{
		DoctorID: f.doctor.UserID,
		Slots:    []entity.LeaveSlot{{DoctorID: f.doctor.UserID, LeaveDate: day(2025, 1, 20), Period: entity.PeriodMorning}},
	})

	tests := []struct {
		name   string
		date   string
		period string
		want   error
	}{
		{name: "today is elapsed", date: "2025-01-15", period: "morning", want: ErrSlotNotBookable},
		{name: "earlier this week", date: "2025-01-13", period: "morning", want: ErrSlotNotBookable},
		{name: "no shift", date: "2025-01-17", period: "morning", want: ErrSlotNotBookable},
		{name: "period not in rule", date: "2025-01-16", period: "evening", want: ErrSlotNotBookable},
		{name: "on leave", date: "2025-01-20", period: "morning", want: ErrSlotNotBookable},
		{name: "beyond window", date: "2025-02-10", period: "morning", want: ErrOutsideBookingWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.usecase.CreateRegistration(context.Background(), f.booking(tt.date, tt.period, "A123456789"))
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
	assert.Empty(t, f.regs.rows)
}

func TestCreateRegistration_DuplicatePatientConflicts(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "morning", "A123456789"))
	require.NoError(t, err)

	_, err = f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "morning", "A123456789"))
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Len(t, f.regs.rows, 1)
}

func TestCreateRegistration_UnknownDoctor(t *testing.T) {
	f := newRegistrationFixture(t)
	req := f.booking("2025-01-16", "morning", "A123456789")
	req.DoctorID = uuid.New()

	_, err := f.usecase.CreateRegistration(context.Background(), req)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestSearchRegistrations(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	_, err := f.usecase.SearchRegistrations(ctx, &dto.PatientIdentityRequest{NationalID: "A123456789", BirthDate: "1980-05-01"})
	assert.ErrorIs(t, err, ErrRegistrationNotFound)

	_, err = f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "morning", "A123456789"))
	require.NoError(t, err)

	list, err := f.usecase.SearchRegistrations(ctx, &dto.PatientIdentityRequest{NationalID: "A123456789", BirthDate: "1980-05-01"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "2025-01-16", list.Registrations[0].OPDDate)
}

func TestCancelRegistration(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()
	identity := &dto.PatientIdentityRequest{NationalID: "A123456789", BirthDate: "1980-05-01"}

	first, err := f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "morning", "A123456789"))
	require.NoError(t, err)
	_, err = f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "morning", "B123456780"))
	require.NoError(t, err)

	t.Run("wrong identity looks missing", func(t *testing.T) {
		_, err := f.usecase.CancelRegistration(ctx, first.ID, &dto.PatientIdentityRequest{NationalID: "A123456789", BirthDate: "1990-01-01"})
		assert.ErrorIs(t, err, ErrRegistrationNotFound)
	})

	t.Run("confirmed becomes cancelled", func(t *testing.T) {
		resp, err := f.usecase.CancelRegistration(ctx, first.ID, identity)
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, 1, resp.RegistrationNumber)
	})

	t.Run("second cancel conflicts", func(t *testing.T) {
		_, err := f.usecase.CancelRegistration(ctx, first.ID, identity)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("cancelled number is not reissued", func(t *testing.T) {
		resp, err := f.usecase.CreateRegistration(ctx, f.booking("2025-01-16", "morning", "F131104093"))
		require.NoError(t, err)
		assert.Equal(t, 3, resp.RegistrationNumber)
	})

	t.Run("elapsed registration", func(t *testing.T) {
		old := f.regs.add(entity.Registration{
			DoctorID: f.doctor.UserID, OPDDate: day(2025, 1, 13), Period: entity.PeriodMorning,
			RegistrationNumber: 1, NationalID: "A123456789", BirthDate: day(1980, 5, 1),
		})
		_, err := f.usecase.CancelRegistration(ctx, old.ID, identity)
		assert.ErrorIs(t, err, ErrCancelElapsed)
	})
}

func TestListSessionRegistrations_SortedByNumber(t *testing.T) {
	f := newRegistrationFixture(t)
	session := day(2025, 1, 20)
	f.seed(session, entity.PeriodMorning, 3, 1, 2)

	list, err := f.usecase.ListSessionRegistrations(context.Background(), f.doctor.UserID,
		civil.Date{Year: 2025, Month: 1, Day: 20}, entity.PeriodMorning)
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	for i, r := range list.Registrations {
		assert.Equal(t, i+1, r.RegistrationNumber)
	}
}
