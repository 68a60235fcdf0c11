package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/domain/repository"
	"outpatient-registration/internal/observability/metrics"
	"outpatient-registration/internal/scheduling"
	"outpatient-registration/pkg/apperror"

	"cloud.google.com/go/civil"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const registrationNumberConstraint = "uq_registration_number"

var (
	// ErrNumberTaken is returned when a concurrent booking committed the same number first.
	ErrNumberTaken = fmt.Errorf("%w: registration number already taken", apperror.ErrConflict)
	// ErrAllocationExhausted is returned after every retry lost the race.
	ErrAllocationExhausted = fmt.Errorf("%w: the clinic is busy, please try again", apperror.ErrUnavailable)
)

// AllocationHooks run inside the allocation transaction. Before sees the
// session's registrations and may veto the booking; After runs once the row
// is inserted (audit trail).
type AllocationHooks struct {
	Before func(tx *gorm.DB, existing []entity.Registration) error
	After  func(tx *gorm.DB, reg *entity.Registration) error
}

// RegistrationAllocator assigns registration numbers and persists bookings.
// Writers of one session are serialized by a keyed mutex in this process and
// by the uq_registration_number index across processes; a unique violation is
// retried with a fresh read.
type RegistrationAllocator struct {
	tx               TxFunc
	log              *logrus.Logger
	registrationRepo repository.RegistrationRepository
	locks            *KeyedMutex
	metrics          *metrics.RegistrationMetrics
	attempts         int
	backoff          time.Duration
}

func NewRegistrationAllocator(
	tx TxFunc,
	log *logrus.Logger,
	registrationRepo repository.RegistrationRepository,
	locks *KeyedMutex,
	m *metrics.RegistrationMetrics,
	attempts int,
	backoff time.Duration,
) *RegistrationAllocator {
	if attempts < 1 {
		attempts = 1
	}
	return &RegistrationAllocator{
		tx:               tx,
		log:              log,
		registrationRepo: registrationRepo,
		locks:            locks,
		metrics:          m,
		attempts:         attempts,
		backoff:          backoff,
	}
}

// Allocate sets reg.RegistrationNumber to the next number of its session and
// inserts it. The session is reg.DoctorID, reg.OPDDate and reg.Period.
func (a *RegistrationAllocator) Allocate(ctx context.Context, reg *entity.Registration, hooks AllocationHooks) error {
	started := time.Now()
	defer func() { a.metrics.ObserveAllocationLatency(time.Since(started).Seconds()) }()

	day := civil.DateOf(reg.OPDDate)
	key := fmt.Sprintf("%s:%s:%s", reg.DoctorID, day, reg.Period)
	if a.locks != nil {
		unlock := a.locks.Lock(key)
		defer unlock()
	}

	for attempt := 1; attempt <= a.attempts; attempt++ {
		err := a.tx(ctx, func(tx *gorm.DB) error {
			return a.insertNext(tx, reg, day, hooks)
		})
		switch {
		case err == nil:
			a.metrics.ObserveAllocation(metrics.AllocationOK)
			return nil
		case errors.Is(err, ErrNumberTaken):
			a.metrics.ObserveAllocation(metrics.AllocationConflict)
			a.log.Debugf("Registration number %d of %s taken, attempt %d/%d", reg.RegistrationNumber, key, attempt, a.attempts)
		default:
			a.metrics.ObserveAllocation(metrics.AllocationError)
			if apperror.IsConnectionError(err) {
				return apperror.Unavailable(err)
			}
			return err
		}

		if attempt < a.attempts {
			if err := a.wait(ctx, attempt); err != nil {
				return apperror.Unavailable(err)
			}
		}
	}

	a.metrics.ObserveAllocation(metrics.AllocationExhausted)
	a.log.Warnf("Registration allocation for %s exhausted after %d attempts", key, a.attempts)
	return ErrAllocationExhausted
}

func (a *RegistrationAllocator) insertNext(tx *gorm.DB, reg *entity.Registration, day civil.Date, hooks AllocationHooks) error {
	existing, err := a.registrationRepo.FindBySlot(tx, reg.DoctorID, reg.OPDDate, reg.Period)
	if err != nil {
		return err
	}
	if hooks.Before != nil {
		if err := hooks.Before(tx, existing); err != nil {
			return err
		}
	}

	reg.RegistrationNumber = scheduling.NextRegistrationNumber(scheduling.EntriesOf(existing), reg.DoctorID, day, reg.Period)
	reg.Status = entity.RegistrationStatusConfirmed
	if err := a.registrationRepo.Create(tx, reg); err != nil {
		if apperror.IsUniqueViolation(err, registrationNumberConstraint) {
			return fmt.Errorf("%w: %v", ErrNumberTaken, err)
		}
		return err
	}

	if hooks.After != nil {
		return hooks.After(tx, reg)
	}
	return nil
}

func (a *RegistrationAllocator) wait(ctx context.Context, attempt int) error {
	if a.backoff <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(a.backoff * time.Duration(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
