package usecase

import (
	"context"
	"fmt"

	"outpatient-registration/internal/converter"
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/domain/repository"
	"outpatient-registration/internal/service"
	"outpatient-registration/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDepartmentExists = fmt.Errorf("%w: department already exists", apperror.ErrConflict)
)

type DepartmentUsecase interface {
	ListDepartments(ctx context.Context) (*dto.DepartmentListResponse, error)
	CreateDepartment(ctx context.Context, actorID uuid.UUID, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
}

type departmentUsecase struct {
	db             *gorm.DB
	tx             service.TxFunc
	log            *logrus.Logger
	departmentRepo repository.DepartmentRepository
	auditService   service.AuditService
	cache          *service.CollectionCache
}

func NewDepartmentUsecase(
	db *gorm.DB,
	tx service.TxFunc,
	log *logrus.Logger,
	departmentRepo repository.DepartmentRepository,
	auditService service.AuditService,
	cache *service.CollectionCache,
) DepartmentUsecase {
	return &departmentUsecase{
		db:             db,
		tx:             tx,
		log:            log,
		departmentRepo: departmentRepo,
		auditService:   auditService,
		cache:          cache,
	}
}

func (u *departmentUsecase) ListDepartments(ctx context.Context) (*dto.DepartmentListResponse, error) {
	return service.Remember(ctx, u.cache, service.CollectionDepartments, "all", func(ctx context.Context) (*dto.DepartmentListResponse, error) {
		departments, err := u.departmentRepo.FindAll(withContext(ctx, u.db))
		if err != nil {
			u.log.Warnf("Failed to find departments: %+v", err)
			return nil, apperror.Unavailable(err)
		}
		return &dto.DepartmentListResponse{
			Departments: converter.DepartmentsToResponses(departments),
			Total:       len(departments),
		}, nil
	})
}

func (u *departmentUsecase) CreateDepartment(ctx context.Context, actorID uuid.UUID, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	department := converter.CreateDepartmentRequestToEntity(req)

	err := u.tx(ctx, func(tx *gorm.DB) error {
		if err := u.departmentRepo.Create(tx, department); err != nil {
			if apperror.IsUniqueViolation(err, "") {
				return ErrDepartmentExists
			}
			return err
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			ActorID:  &actorID,
			Action:   entity.AuditActionDepartmentCreate,
			Entity:   "department",
			EntityID: department.ID,
			NewValue: req,
		})
	})
	if err != nil {
		if apperror.IsConnectionError(err) {
			return nil, apperror.Unavailable(err)
		}
		u.log.Warnf("Failed to create department: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, service.CollectionDepartments, "")
	u.log.Infof("Department %s created", department.ID)

	response := converter.DepartmentToResponse(department)
	return &response, nil
}
