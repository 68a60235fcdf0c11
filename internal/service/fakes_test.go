package service

import (
	"context"
	"sync"
	"time"

	"outpatient-registration/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func fakeTx() TxFunc {
	return func(_ context.Context, fn func(tx *gorm.DB) error) error {
		return fn(nil)
	}
}

// fakeRegistrationRepo keeps registrations in memory and enforces the
// registration number index like Postgres would.
type fakeRegistrationRepo struct {
	mu   sync.Mutex
	rows []entity.Registration

	// beforeCreate runs before the uniqueness check, e.g. to let a competing
	// booking commit first.
	beforeCreate func(r *fakeRegistrationRepo)
	createCalls  int
}

func sameSession(r entity.Registration, doctorID uuid.UUID, date time.Time, period entity.Period) bool {
	return r.DoctorID == doctorID && r.OPDDate.Equal(date) && r.Period == period
}

func (f *fakeRegistrationRepo) insert(reg entity.Registration) {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	f.rows = append(f.rows, reg)
}

func (f *fakeRegistrationRepo) Create(_ *gorm.DB, reg *entity.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.beforeCreate != nil {
		hook := f.beforeCreate
		f.beforeCreate = nil
		hook(f)
	}
	for _, r := range f.rows {
		if sameSession(r, reg.DoctorID, reg.OPDDate, reg.Period) && r.RegistrationNumber == reg.RegistrationNumber {
			return &pgconn.PgError{Code: "23505", ConstraintName: registrationNumberConstraint}
		}
	}
	reg.ID = uuid.New()
	f.rows = append(f.rows, *reg)
	return nil
}

func (f *fakeRegistrationRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeRegistrationRepo) FindBySlot(_ *gorm.DB, doctorID uuid.UUID, date time.Time, period entity.Period) ([]entity.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Registration
	for _, r := range f.rows {
		if sameSession(r, doctorID, date, period) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) FindConfirmedBySlot(db *gorm.DB, doctorID uuid.UUID, date time.Time, period entity.Period) ([]entity.Registration, error) {
	all, _ := f.FindBySlot(db, doctorID, date, period)
	var out []entity.Registration
	for _, r := range all {
		if r.IsConfirmed() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) FindConfirmedByPatient(_ *gorm.DB, nationalID string, birthDate time.Time, from time.Time) ([]entity.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Registration
	for _, r := range f.rows {
		if r.NationalID == nationalID && r.BirthDate.Equal(birthDate) && r.IsConfirmed() && !r.OPDDate.Before(from) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) Cancel(_ *gorm.DB, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].IsConfirmed() {
			f.rows[i].Cancel()
			return 1, nil
		}
	}
	return 0, nil
}
