package repository

import (
	"testing"
	"time"

	"outpatient-registration/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestRegistrationRepository_FindBySlot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository()

	doctorID := uuid.New()
	day := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "doctor_id", "opd_date", "period", "registration_number", "status"}).
		AddRow(uuid.New().String(), doctorID.String(), day, "morning", 1, "confirmed").
		AddRow(uuid.New().String(), doctorID.String(), day, "morning", 2, "cancelled")

	mock.ExpectQuery(`SELECT \* FROM "registrations" WHERE doctor_id = \$1 AND opd_date = \$2 AND period = \$3 ORDER BY registration_number ASC`).
		WillReturnRows(rows)

	registrations, err := repo.FindBySlot(db, doctorID, day, entity.PeriodMorning)
	require.NoError(t, err)
	require.Len(t, registrations, 2)
	assert.Equal(t, doctorID, registrations[0].DoctorID)
	assert.Equal(t, 2, registrations[1].RegistrationNumber)
	assert.True(t, registrations[1].IsCancelled())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_CancelOnlyConfirmed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository()
	id := uuid.New()

	mock.ExpectExec(`UPDATE "registrations" SET "status".* WHERE id = .* AND status = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "registrations" SET "status"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Cancel(db, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Cancel(db, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressMarkerRepository_FindForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProgressMarkerRepository()
	doctorID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "progress_markers" WHERE doctor_id = \$1 .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"doctor_id", "opened_on", "period", "number"}).
			AddRow(doctorID.String(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "morning", 5))
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"doctor_id"}))

	marker, err := repo.FindByDoctorIDForUpdate(db, doctorID)
	require.NoError(t, err)
	require.NotNil(t, marker)
	require.NotNil(t, marker.Period)
	require.NotNil(t, marker.Number)
	assert.Equal(t, entity.PeriodMorning, *marker.Period)
	assert.Equal(t, 5, *marker.Number)

	missing, err := repo.FindByDoctorIDForUpdate(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRequestRepository_FindSlots(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewLeaveRequestRepository()
	doctorID := uuid.New()
	from := time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 27)

	mock.ExpectQuery(`SELECT \* FROM "leave_slots" WHERE doctor_id = \$1 AND leave_date BETWEEN \$2 AND \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "doctor_id", "leave_date", "period"}).
			AddRow(1, doctorID.String(), from.AddDate(0, 0, 7), "evening"))

	slots, err := repo.FindSlots(db, doctorID, from, to)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, entity.PeriodEvening, slots[0].Period)
	assert.NoError(t, mock.ExpectationsWereMet())
}
