package usecase

import (
	"context"
	"fmt"

	"outpatient-registration/internal/converter"
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/domain/repository"
	"outpatient-registration/internal/scheduling"
	"outpatient-registration/internal/service"
	"outpatient-registration/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrScheduleNotFound = fmt.Errorf("%w: schedule not found", apperror.ErrNotFound)
)

// CalendarWindows sets how many days the patient and doctor calendars span.
type CalendarWindows struct {
	PatientDays int
	DoctorDays  int
}

type DoctorScheduleUsecase interface {
	GetSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleResponse, error)
	UpdateSchedule(ctx context.Context, actorID, doctorID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	// GetPatientCalendar is the booking view: active doctors only, cached.
	GetPatientCalendar(ctx context.Context, doctorID uuid.UUID) (*dto.CalendarResponse, error)
	GetDoctorCalendar(ctx context.Context, doctorID uuid.UUID) (*dto.CalendarResponse, error)
}

type doctorScheduleUsecase struct {
	db                *gorm.DB
	tx                service.TxFunc
	log               *logrus.Logger
	clock             Clock
	windows           CalendarWindows
	scheduleRepo      repository.DoctorScheduleRepository
	doctorProfileRepo repository.DoctorProfileRepository
	leaveRepo         repository.LeaveRequestRepository
	auditService      service.AuditService
	cache             *service.CollectionCache
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	tx service.TxFunc,
	log *logrus.Logger,
	clock Clock,
	windows CalendarWindows,
	scheduleRepo repository.DoctorScheduleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	leaveRepo repository.LeaveRequestRepository,
	auditService service.AuditService,
	cache *service.CollectionCache,
) DoctorScheduleUsecase {
	if windows.PatientDays <= 0 {
		windows.PatientDays = scheduling.PatientWindowDays
	}
	if windows.DoctorDays <= 0 {
		windows.DoctorDays = scheduling.DoctorWindowDays
	}
	return &doctorScheduleUsecase{
		db:                db,
		tx:                tx,
		log:               log,
		clock:             clock,
		windows:           windows,
		scheduleRepo:      scheduleRepo,
		doctorProfileRepo: doctorProfileRepo,
		leaveRepo:         leaveRepo,
		auditService:      auditService,
		cache:             cache,
	}
}

func (u *doctorScheduleUsecase) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByDoctorID(withContext(ctx, u.db), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) UpdateSchedule(ctx context.Context, actorID, doctorID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	rules := converter.MapToShiftRules(req.ShiftRules)
	if err := rules.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(withContext(ctx, u.db), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	schedule := &entity.DoctorSchedule{DoctorID: doctorID, Room: req.Room, ShiftRules: rules}
	err = u.tx(ctx, func(tx *gorm.DB) error {
		if err := u.scheduleRepo.Upsert(tx, schedule); err != nil {
			return err
		}
		var old interface{}
		if doctor.Schedule != nil {
			old = converter.ScheduleToResponse(doctor.Schedule)
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			ActorID:  &actorID,
			Action:   entity.AuditActionScheduleUpdate,
			Entity:   "doctor_schedule",
			EntityID: doctorID.String(),
			OldValue: old,
			NewValue: req,
		})
	})
	if err != nil {
		if apperror.IsConnectionError(err) {
			return nil, apperror.Unavailable(err)
		}
		u.log.Warnf("Failed to update schedule: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, service.CollectionCalendar, doctorID.String())
	u.cache.Invalidate(ctx, service.CollectionDoctors, "")
	u.log.Infof("Schedule of doctor %s updated", doctorID)
	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) GetPatientCalendar(ctx context.Context, doctorID uuid.UUID) (*dto.CalendarResponse, error) {
	today := u.clock.Today()
	key := doctorID.String() + ":" + today.String()
	return service.Remember(ctx, u.cache, service.CollectionCalendar, key, func(ctx context.Context) (*dto.CalendarResponse, error) {
		return u.calendar(ctx, doctorID, u.windows.PatientDays, true)
	})
}

func (u *doctorScheduleUsecase) GetDoctorCalendar(ctx context.Context, doctorID uuid.UUID) (*dto.CalendarResponse, error) {
	return u.calendar(ctx, doctorID, u.windows.DoctorDays, false)
}

func (u *doctorScheduleUsecase) calendar(ctx context.Context, doctorID uuid.UUID, days int, activeOnly bool) (*dto.CalendarResponse, error) {
	db := withContext(ctx, u.db)
	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	if doctor == nil || (activeOnly && !doctor.User.Active()) {
		return nil, ErrDoctorNotFound
	}

	today := u.clock.Today()
	cal := scheduling.GenerateCalendar(today, days)

	leaves, err := u.leaveRepo.FindSlots(db, doctorID, dateColumn(cal.First()), dateColumn(cal.Last()))
	if err != nil {
		u.log.Warnf("Failed to find leave slots: %+v", err)
		return nil, apperror.Unavailable(err)
	}

	var (
		rules entity.ShiftRules
		room  string
	)
	if doctor.Schedule != nil {
		rules, room = doctor.Schedule.ShiftRules, doctor.Schedule.Room
	}

	weeks := scheduling.EvaluateCalendar(cal, rules, converter.LeaveSlotsToScheduling(leaves), today)
	return converter.CalendarToResponse(doctorID, room, today, cal, weeks), nil
}

