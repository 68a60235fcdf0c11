package scheduling

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/pkg/apperror"
)

var (
	ErrClinicClosed       = fmt.Errorf("%w: clinic is not open", apperror.ErrConflict)
	ErrClinicAlreadyOpen  = fmt.Errorf("%w: clinic is already open", apperror.ErrConflict)
	ErrPeriodNotSelected  = fmt.Errorf("%w: select a period before calling patients", apperror.ErrConflict)
	ErrPeriodLocked       = fmt.Errorf("%w: period cannot change while clinic is open", apperror.ErrConflict)
	ErrInvalidQueuePeriod = fmt.Errorf("%w: invalid period", apperror.ErrValidation)
)

// QueueState is the lifecycle of a doctor's clinic session.
type QueueState string

const (
	QueueClosed      QueueState = "closed"
	QueueAwaitPeriod QueueState = "awaiting_period"
	QueueReady       QueueState = "ready"
	QueueServing     QueueState = "serving"
)

// StateOf derives the session state from the progress marker (nil = closed).
func StateOf(m *entity.ProgressMarker) QueueState {
	switch {
	case m == nil:
		return QueueClosed
	case m.Period == nil:
		return QueueAwaitPeriod
	case m.Number == nil:
		return QueueReady
	default:
		return QueueServing
	}
}

// OpenClinic builds the marker for a newly opened session.
func OpenClinic(existing *entity.ProgressMarker, doctorID uuid.UUID, today civil.Date, period *entity.Period) (*entity.ProgressMarker, error) {
	if existing != nil {
		return nil, ErrClinicAlreadyOpen
	}
	if period != nil && !period.IsValid() {
		return nil, ErrInvalidQueuePeriod
	}
	return &entity.ProgressMarker{
		DoctorID: doctorID,
		OpenedOn: today.In(time.UTC),
		Period:   period,
	}, nil
}

// SelectPeriod fixes the period of an open session. Once set it is locked.
func SelectPeriod(m *entity.ProgressMarker, period entity.Period) error {
	if !period.IsValid() {
		return ErrInvalidQueuePeriod
	}
	switch StateOf(m) {
	case QueueClosed:
		return ErrClinicClosed
	case QueueAwaitPeriod:
		m.Period = &period
		return nil
	default:
		return ErrPeriodLocked
	}
}

// AdvanceQueue returns the smallest confirmed number of the session strictly
// greater than current, or the smallest overall when current is nil. ok is
// false when nobody is waiting.
func AdvanceQueue(current *int, entries []Entry, doctorID uuid.UUID, date civil.Date, period entity.Period) (next int, ok bool) {
	for _, n := range ConfirmedNumbers(entries, doctorID, date, period) {
		if current == nil || n > *current {
			return n, true
		}
	}
	return 0, false
}

// Waiting counts confirmed numbers of the session not yet called.
func Waiting(current *int, entries []Entry, doctorID uuid.UUID, date civil.Date, period entity.Period) int {
	count := 0
	for _, n := range ConfirmedNumbers(entries, doctorID, date, period) {
		if current == nil || n > *current {
			count++
		}
	}
	return count
}

// ReadyToCall checks that the session is open with a period chosen.
func ReadyToCall(m *entity.ProgressMarker) error {
	switch StateOf(m) {
	case QueueClosed:
		return ErrClinicClosed
	case QueueAwaitPeriod:
		return ErrPeriodNotSelected
	}
	return nil
}
