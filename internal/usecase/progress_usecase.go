package usecase

import (
	"context"
	"errors"

	"outpatient-registration/internal/converter"
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/domain/repository"
	"outpatient-registration/internal/observability/metrics"
	"outpatient-registration/internal/scheduling"
	"outpatient-registration/internal/service"
	"outpatient-registration/pkg/apperror"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ProgressUsecase drives a doctor's clinic session: open, choose the period,
// call patients in registration number order, close.
type ProgressUsecase interface {
	OpenClinic(ctx context.Context, doctorID uuid.UUID, period *entity.Period) (*dto.ProgressResponse, error)
	SelectPeriod(ctx context.Context, doctorID uuid.UUID, period entity.Period) (*dto.ProgressResponse, error)
	CallNext(ctx context.Context, doctorID uuid.UUID) (*dto.ProgressResponse, error)
	CloseClinic(ctx context.Context, doctorID uuid.UUID) error
	GetProgress(ctx context.Context, doctorID uuid.UUID) (*dto.ProgressResponse, error)
}

type progressUsecase struct {
	db               *gorm.DB
	tx               service.TxFunc
	log              *logrus.Logger
	clock            Clock
	progressRepo     repository.ProgressMarkerRepository
	registrationRepo repository.RegistrationRepository
	auditService     service.AuditService
	metrics          *metrics.RegistrationMetrics
}

func NewProgressUsecase(
	db *gorm.DB,
	tx service.TxFunc,
	log *logrus.Logger,
	clock Clock,
	progressRepo repository.ProgressMarkerRepository,
	registrationRepo repository.RegistrationRepository,
	auditService service.AuditService,
	m *metrics.RegistrationMetrics,
) ProgressUsecase {
	return &progressUsecase{
		db:               db,
		tx:               tx,
		log:              log,
		clock:            clock,
		progressRepo:     progressRepo,
		registrationRepo: registrationRepo,
		auditService:     auditService,
		metrics:          m,
	}
}

func (u *progressUsecase) OpenClinic(ctx context.Context, doctorID uuid.UUID, period *entity.Period) (*dto.ProgressResponse, error) {
	today := u.clock.Today()

	var marker *entity.ProgressMarker
	err := u.tx(ctx, func(tx *gorm.DB) error {
		existing, err := u.progressRepo.FindByDoctorIDForUpdate(tx, doctorID)
		if err != nil {
			return err
		}
		// A session left open on an earlier day is discarded.
		if existing != nil && civil.DateOf(existing.OpenedOn).Before(today) {
			if _, err := u.progressRepo.Delete(tx, doctorID); err != nil {
				return err
			}
			existing = nil
		}

		marker, err = scheduling.OpenClinic(existing, doctorID, today, period)
		if err != nil {
			return err
		}
		if err := u.progressRepo.Create(tx, marker); err != nil {
			if apperror.IsUniqueViolation(err, "") {
				return scheduling.ErrClinicAlreadyOpen
			}
			return err
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			ActorID:  &doctorID,
			Action:   entity.AuditActionClinicOpen,
			Entity:   "progress_marker",
			EntityID: doctorID.String(),
			NewValue: map[string]interface{}{"opened_on": today.String(), "period": period},
		})
	})
	if err != nil {
		return nil, u.writeError("open clinic", err)
	}

	u.log.Infof("Doctor %s opened clinic on %s", doctorID, today)
	return u.respond(ctx, doctorID, marker)
}

func (u *progressUsecase) SelectPeriod(ctx context.Context, doctorID uuid.UUID, period entity.Period) (*dto.ProgressResponse, error) {
	var marker *entity.ProgressMarker
	err := u.tx(ctx, func(tx *gorm.DB) error {
		var err error
		marker, err = u.lockCurrent(tx, doctorID)
		if err != nil {
			return err
		}
		if err := scheduling.SelectPeriod(marker, period); err != nil {
			return err
		}
		return u.progressRepo.Save(tx, marker)
	})
	if err != nil {
		return nil, u.writeError("select period", err)
	}

	u.log.Infof("Doctor %s serves the %s session", doctorID, period)
	return u.respond(ctx, doctorID, marker)
}

// CallNext advances to the smallest confirmed number above the current one.
// With nobody waiting the marker is left unchanged.
func (u *progressUsecase) CallNext(ctx context.Context, doctorID uuid.UUID) (*dto.ProgressResponse, error) {
	today := u.clock.Today()

	var (
		marker   *entity.ProgressMarker
		session  []entity.Registration
		advanced bool
	)
	err := u.tx(ctx, func(tx *gorm.DB) error {
		var err error
		marker, err = u.lockCurrent(tx, doctorID)
		if err != nil {
			return err
		}
		if err := scheduling.ReadyToCall(marker); err != nil {
			return err
		}

		session, err = u.registrationRepo.FindConfirmedBySlot(tx, doctorID, dateColumn(today), *marker.Period)
		if err != nil {
			return err
		}

		next, ok := scheduling.AdvanceQueue(marker.Number, scheduling.EntriesOf(session), doctorID, today, *marker.Period)
		if !ok {
			return nil
		}
		marker.Number = &next
		advanced = true
		return u.progressRepo.Save(tx, marker)
	})
	if err != nil {
		return nil, u.writeError("call next patient", err)
	}

	if advanced {
		u.metrics.ObserveQueueAdvance(metrics.QueueCalled)
		u.log.Infof("Doctor %s called number %d", doctorID, *marker.Number)
	} else {
		u.metrics.ObserveQueueAdvance(metrics.QueueEmpty)
	}

	response := converter.ProgressToResponse(doctorID, marker, scheduling.Waiting(marker.Number, scheduling.EntriesOf(session), doctorID, today, *marker.Period))
	response.Advanced = &advanced
	return response, nil
}

func (u *progressUsecase) CloseClinic(ctx context.Context, doctorID uuid.UUID) error {
	err := u.tx(ctx, func(tx *gorm.DB) error {
		affected, err := u.progressRepo.Delete(tx, doctorID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return scheduling.ErrClinicClosed
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			ActorID:  &doctorID,
			Action:   entity.AuditActionClinicClose,
			Entity:   "progress_marker",
			EntityID: doctorID.String(),
		})
	})
	if err != nil {
		return u.writeError("close clinic", err)
	}

	u.log.Infof("Doctor %s closed clinic", doctorID)
	return nil
}

func (u *progressUsecase) GetProgress(ctx context.Context, doctorID uuid.UUID) (*dto.ProgressResponse, error) {
	marker, err := u.progressRepo.FindByDoctorID(withContext(ctx, u.db), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find progress marker: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	if marker != nil && civil.DateOf(marker.OpenedOn).Before(u.clock.Today()) {
		marker = nil
	}
	return u.respond(ctx, doctorID, marker)
}

// lockCurrent row-locks the doctor's marker; a stale marker counts as closed.
func (u *progressUsecase) lockCurrent(tx *gorm.DB, doctorID uuid.UUID) (*entity.ProgressMarker, error) {
	marker, err := u.progressRepo.FindByDoctorIDForUpdate(tx, doctorID)
	if err != nil {
		return nil, err
	}
	if marker == nil || civil.DateOf(marker.OpenedOn).Before(u.clock.Today()) {
		return nil, scheduling.ErrClinicClosed
	}
	return marker, nil
}

// respond renders marker with the count of patients still waiting.
func (u *progressUsecase) respond(ctx context.Context, doctorID uuid.UUID, marker *entity.ProgressMarker) (*dto.ProgressResponse, error) {
	if marker == nil || marker.Period == nil {
		return converter.ProgressToResponse(doctorID, marker, 0), nil
	}

	session, err := u.registrationRepo.FindConfirmedBySlot(withContext(ctx, u.db), doctorID, marker.OpenedOn, *marker.Period)
	if err != nil {
		u.log.Warnf("Failed to find session registrations: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	waiting := scheduling.Waiting(marker.Number, scheduling.EntriesOf(session), doctorID, civil.DateOf(marker.OpenedOn), *marker.Period)
	return converter.ProgressToResponse(doctorID, marker, waiting), nil
}

func (u *progressUsecase) writeError(op string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrConflict), errors.Is(err, apperror.ErrValidation):
		return err
	case apperror.IsConnectionError(err):
		return apperror.Unavailable(err)
	}
	u.log.Warnf("Failed to %s: %+v", op, err)
	return err
}
