package service

import (
	"context"
	"errors"
	"testing"

	"outpatient-registration/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingAuditRepo struct {
	logs []entity.AuditLog
	err  error
}

func (r *recordingAuditRepo) Create(_ *gorm.DB, log *entity.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *recordingAuditRepo) FindAll(_ *gorm.DB) ([]entity.AuditLog, error) { return r.logs, nil }

func (r *recordingAuditRepo) FindByID(_ *gorm.DB, _ int64) (*entity.AuditLog, error) {
	return nil, nil
}

func TestAuditService_Record(t *testing.T) {
	repo := &recordingAuditRepo{}
	svc := NewAuditService(logrus.New(), repo)
	actor := uuid.New()

	err := svc.Record(context.Background(), nil, AuditEntry{
		ActorID:  &actor,
		Action:   entity.AuditActionScheduleUpdate,
		Entity:   "doctor_schedule",
		EntityID: actor.String(),
		OldValue: map[string]string{"room": "101"},
		NewValue: map[string]string{"room": "202"},
	})
	require.NoError(t, err)
	require.Len(t, repo.logs, 1)

	got := repo.logs[0]
	assert.Equal(t, &actor, got.UserID)
	assert.Equal(t, entity.AuditActionScheduleUpdate, got.Action)
	assert.Equal(t, "doctor_schedule", got.Metadata["entity"])
	assert.Equal(t, map[string]string{"room": "202"}, got.Metadata["new_value"])
}

func TestAuditService_RecordPropagatesError(t *testing.T) {
	boom := errors.New("insert failed")
	svc := NewAuditService(logrus.New(), &recordingAuditRepo{err: boom})

	err := svc.Record(context.Background(), nil, AuditEntry{Action: entity.AuditActionRegistrationCreate})
	assert.ErrorIs(t, err, boom)
}
