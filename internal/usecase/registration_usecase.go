package usecase

import (
	"context"
	"errors"
	"fmt"

	"outpatient-registration/internal/converter"
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/domain/repository"
	"outpatient-registration/internal/scheduling"
	"outpatient-registration/internal/service"
	"outpatient-registration/pkg/apperror"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRegistrationNotFound  = fmt.Errorf("%w: registration not found", apperror.ErrNotFound)
	ErrSlotNotBookable       = fmt.Errorf("%w: the selected clinic session cannot be booked", apperror.ErrValidation)
	ErrOutsideBookingWindow  = fmt.Errorf("%w: the selected date is outside the booking window", apperror.ErrValidation)
	ErrDuplicateRegistration = fmt.Errorf("%w: patient already holds a registration for this session", apperror.ErrConflict)
	ErrAlreadyCancelled      = fmt.Errorf("%w: registration is already cancelled", apperror.ErrConflict)
	ErrCancelElapsed         = fmt.Errorf("%w: past registrations cannot be cancelled", apperror.ErrValidation)
)

// Allocator assigns a registration number and persists the booking.
type Allocator interface {
	Allocate(ctx context.Context, reg *entity.Registration, hooks service.AllocationHooks) error
}

type RegistrationUsecase interface {
	CreateRegistration(ctx context.Context, req *dto.CreateRegistrationRequest) (*dto.RegistrationResponse, error)
	SearchRegistrations(ctx context.Context, req *dto.PatientIdentityRequest) (*dto.RegistrationListResponse, error)
	CancelRegistration(ctx context.Context, registrationID uuid.UUID, req *dto.PatientIdentityRequest) (*dto.RegistrationResponse, error)
	ListSessionRegistrations(ctx context.Context, doctorID uuid.UUID, date civil.Date, period entity.Period) (*dto.RegistrationListResponse, error)
}

type registrationUsecase struct {
	db                *gorm.DB
	tx                service.TxFunc
	log               *logrus.Logger
	clock             Clock
	windowDays        int
	registrationRepo  repository.RegistrationRepository
	doctorProfileRepo repository.DoctorProfileRepository
	departmentRepo    repository.DepartmentRepository
	leaveRepo         repository.LeaveRequestRepository
	allocator         Allocator
	auditService      service.AuditService
}

func NewRegistrationUsecase(
	db *gorm.DB,
	tx service.TxFunc,
	log *logrus.Logger,
	clock Clock,
	windowDays int,
	registrationRepo repository.RegistrationRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	departmentRepo repository.DepartmentRepository,
	leaveRepo repository.LeaveRequestRepository,
	allocator Allocator,
	auditService service.AuditService,
) RegistrationUsecase {
	if windowDays <= 0 {
		windowDays = scheduling.PatientWindowDays
	}
	return &registrationUsecase{
		db:                db,
		tx:                tx,
		log:               log,
		clock:             clock,
		windowDays:        windowDays,
		registrationRepo:  registrationRepo,
		doctorProfileRepo: doctorProfileRepo,
		departmentRepo:    departmentRepo,
		leaveRepo:         leaveRepo,
		allocator:         allocator,
		auditService:      auditService,
	}
}

func (u *registrationUsecase) CreateRegistration(ctx context.Context, req *dto.CreateRegistrationRequest) (*dto.RegistrationResponse, error) {
	day, err := civil.ParseDate(req.OPDDate)
	if err != nil {
		return nil, apperror.Validation("opd_date must be a date in YYYY-MM-DD format")
	}
	birthDate, err := civil.ParseDate(req.BirthDate)
	if err != nil {
		return nil, apperror.Validation("birth_date must be a date in YYYY-MM-DD format")
	}
	period, err := entity.ParsePeriod(req.Period)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	today := u.clock.Today()
	if !scheduling.GenerateCalendar(today, u.windowDays).Contains(day) {
		return nil, ErrOutsideBookingWindow
	}

	db := withContext(ctx, u.db)
	doctor, err := u.doctorProfileRepo.FindByUserID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	if doctor == nil || !doctor.User.Active() {
		return nil, ErrDoctorNotFound
	}

	leaves, err := u.leaveRepo.FindSlots(db, doctor.UserID, dateColumn(day), dateColumn(day))
	if err != nil {
		u.log.Warnf("Failed to find leave slots: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	var rules entity.ShiftRules
	if doctor.Schedule != nil {
		rules = doctor.Schedule.ShiftRules
	}
	status := scheduling.EvaluateSlot(rules, converter.LeaveSlotsToScheduling(leaves), today, day, period)
	if !status.Bookable() {
		return nil, fmt.Errorf("%w (%s)", ErrSlotNotBookable, status)
	}

	specialty, err := u.departmentRepo.FindSpecialty(db, doctor.DepartmentID, doctor.SpecialtyID)
	if err != nil {
		u.log.Warnf("Failed to find specialty: %+v", err)
		return nil, apperror.Unavailable(err)
	}

	registration := &entity.Registration{
		DoctorID:     doctor.UserID,
		DepartmentID: doctor.DepartmentID,
		SpecialtyID:  doctor.SpecialtyID,
		OPDDate:      dateColumn(day),
		Period:       period,
		NationalID:   req.NationalID,
		PatientName:  req.PatientName,
		BirthDate:    dateColumn(birthDate),
		Phone:        req.Phone,
	}
	if specialty != nil {
		registration.Fee = specialty.RegistrationFee
	}

	err = u.allocator.Allocate(ctx, registration, service.AllocationHooks{
		Before: func(_ *gorm.DB, existing []entity.Registration) error {
			for _, r := range existing {
				if r.IsConfirmed() && r.NationalID == req.NationalID {
					return ErrDuplicateRegistration
				}
			}
			return nil
		},
		After: func(tx *gorm.DB, reg *entity.Registration) error {
			return u.auditService.Record(ctx, tx, service.AuditEntry{
				Action:   entity.AuditActionRegistrationCreate,
				Entity:   "registration",
				EntityID: reg.ID.String(),
				NewValue: map[string]interface{}{
					"doctor_id":           reg.DoctorID,
					"opd_date":            day.String(),
					"period":              reg.Period,
					"registration_number": reg.RegistrationNumber,
				},
			})
		},
	})
	if err != nil {
		if !errors.Is(err, apperror.ErrConflict) && !errors.Is(err, apperror.ErrUnavailable) {
			u.log.Warnf("Failed to create registration: %+v", err)
		}
		return nil, err
	}

	u.log.Infof("Registration %s booked number %d for doctor %s on %s %s",
		registration.ID, registration.RegistrationNumber, doctor.UserID, day, period)

	registration.Doctor = *doctor
	return converter.RegistrationToResponse(registration), nil
}

func (u *registrationUsecase) SearchRegistrations(ctx context.Context, req *dto.PatientIdentityRequest) (*dto.RegistrationListResponse, error) {
	birthDate, err := civil.ParseDate(req.BirthDate)
	if err != nil {
		return nil, apperror.Validation("birth_date must be a date in YYYY-MM-DD format")
	}

	regs, err := u.registrationRepo.FindConfirmedByPatient(withContext(ctx, u.db), req.NationalID, dateColumn(birthDate), dateColumn(u.clock.Today()))
	if err != nil {
		u.log.Warnf("Failed to find registrations: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	if len(regs) == 0 {
		return nil, ErrRegistrationNotFound
	}

	return &dto.RegistrationListResponse{
		Registrations: converter.RegistrationsToResponses(regs),
		Total:         len(regs),
	}, nil
}

// CancelRegistration flips a confirmed registration to cancelled. The number
// stays with the row and is never handed out again.
func (u *registrationUsecase) CancelRegistration(ctx context.Context, registrationID uuid.UUID, req *dto.PatientIdentityRequest) (*dto.RegistrationResponse, error) {
	birthDate, err := civil.ParseDate(req.BirthDate)
	if err != nil {
		return nil, apperror.Validation("birth_date must be a date in YYYY-MM-DD format")
	}

	registration, err := u.registrationRepo.FindByID(withContext(ctx, u.db), registrationID)
	if err != nil {
		u.log.Warnf("Failed to find registration: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	// A wrong identity looks exactly like a missing registration.
	if registration == nil || registration.NationalID != req.NationalID || civil.DateOf(registration.BirthDate) != birthDate {
		return nil, ErrRegistrationNotFound
	}
	if registration.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}
	if civil.DateOf(registration.OPDDate).Before(u.clock.Today()) {
		return nil, ErrCancelElapsed
	}

	err = u.tx(ctx, func(tx *gorm.DB) error {
		affected, err := u.registrationRepo.Cancel(tx, registration.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrAlreadyCancelled
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			Action:   entity.AuditActionRegistrationCancel,
			Entity:   "registration",
			EntityID: registration.ID.String(),
			OldValue: map[string]interface{}{"status": entity.RegistrationStatusConfirmed},
			NewValue: map[string]interface{}{"status": entity.RegistrationStatusCancelled},
		})
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCancelled) {
			return nil, err
		}
		if apperror.IsConnectionError(err) {
			return nil, apperror.Unavailable(err)
		}
		u.log.Warnf("Failed to cancel registration: %+v", err)
		return nil, err
	}

	registration.Cancel()
	u.log.Infof("Registration %s (number %d) cancelled", registration.ID, registration.RegistrationNumber)
	return converter.RegistrationToResponse(registration), nil
}

func (u *registrationUsecase) ListSessionRegistrations(ctx context.Context, doctorID uuid.UUID, date civil.Date, period entity.Period) (*dto.RegistrationListResponse, error) {
	regs, err := u.registrationRepo.FindBySlot(withContext(ctx, u.db), doctorID, dateColumn(date), period)
	if err != nil {
		u.log.Warnf("Failed to find session registrations: %+v", err)
		return nil, apperror.Unavailable(err)
	}

	return &dto.RegistrationListResponse{
		Registrations: converter.RegistrationsToResponses(regs),
		Total:         len(regs),
	}, nil
}
