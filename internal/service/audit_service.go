package service

import (
	"context"

	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry describes one change written to the audit trail. ActorID is nil
// for anonymous patient actions.
type AuditEntry struct {
	ActorID  *uuid.UUID
	Action   string
	Entity   string
	EntityID string
	OldValue interface{}
	NewValue interface{}
}

type AuditService interface {
	// Record writes entry using tx so it commits or rolls back with the change.
	Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, entry AuditEntry) error {
	auditLog := &entity.AuditLog{
		UserID: entry.ActorID,
		Action: entry.Action,
		Metadata: entity.JSON{
			"entity":    entry.Entity,
			"entity_id": entry.EntityID,
			"old_value": entry.OldValue,
			"new_value": entry.NewValue,
		},
	}

	if err := s.auditRepo.Create(tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log %s: %+v", entry.Action, err)
		return err
	}

	return nil
}
