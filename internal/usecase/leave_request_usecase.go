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

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrLeaveInPast = fmt.Errorf("%w: leave can only be requested for future dates", apperror.ErrValidation)
)

type LeaveRequestUsecase interface {
	CreateLeaveRequest(ctx context.Context, doctorID uuid.UUID, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error)
	ListLeaveRequests(ctx context.Context, doctorID uuid.UUID) (*dto.LeaveRequestListResponse, error)
}

type leaveRequestUsecase struct {
	db           *gorm.DB
	tx           service.TxFunc
	log          *logrus.Logger
	clock        Clock
	leaveRepo    repository.LeaveRequestRepository
	auditService service.AuditService
	cache        *service.CollectionCache
}

func NewLeaveRequestUsecase(
	db *gorm.DB,
	tx service.TxFunc,
	log *logrus.Logger,
	clock Clock,
	leaveRepo repository.LeaveRequestRepository,
	auditService service.AuditService,
	cache *service.CollectionCache,
) LeaveRequestUsecase {
	return &leaveRequestUsecase{
		db:           db,
		tx:           tx,
		log:          log,
		clock:        clock,
		leaveRepo:    leaveRepo,
		auditService: auditService,
		cache:        cache,
	}
}

func (u *leaveRequestUsecase) CreateLeaveRequest(ctx context.Context, doctorID uuid.UUID, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error) {
	today := u.clock.Today()

	request := &entity.LeaveRequest{DoctorID: doctorID, Reason: req.Reason}
	seen := make(map[string]bool, len(req.Slots))
	for _, s := range req.Slots {
		day, err := civil.ParseDate(s.Date)
		if err != nil {
			return nil, apperror.Validation("invalid leave date " + s.Date)
		}
		period, err := entity.ParsePeriod(s.Period)
		if err != nil {
			return nil, apperror.Validation(err.Error())
		}
		if !day.After(today) {
			return nil, ErrLeaveInPast
		}

		key := s.Date + ":" + s.Period
		if seen[key] {
			continue
		}
		seen[key] = true
		request.Slots = append(request.Slots, entity.LeaveSlot{
			DoctorID:  doctorID,
			LeaveDate: dateColumn(day),
			Period:    period,
		})
	}

	err := u.tx(ctx, func(tx *gorm.DB) error {
		if err := u.leaveRepo.Create(tx, request); err != nil {
			return err
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			ActorID:  &doctorID,
			Action:   entity.AuditActionLeaveCreate,
			Entity:   "leave_request",
			EntityID: request.ID.String(),
			NewValue: req,
		})
	})
	if err != nil {
		if apperror.IsConnectionError(err) {
			return nil, apperror.Unavailable(err)
		}
		u.log.Warnf("Failed to create leave request: %+v", err)
		return nil, err
	}

	u.cache.Invalidate(ctx, service.CollectionCalendar, doctorID.String())
	u.log.Infof("Doctor %s requested leave for %d slots", doctorID, len(request.Slots))

	response := converter.LeaveRequestToResponse(request)
	return &response, nil
}

func (u *leaveRequestUsecase) ListLeaveRequests(ctx context.Context, doctorID uuid.UUID) (*dto.LeaveRequestListResponse, error) {
	requests, err := u.leaveRepo.FindByDoctorID(withContext(ctx, u.db), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find leave requests: %+v", err)
		return nil, apperror.Unavailable(err)
	}

	return &dto.LeaveRequestListResponse{
		LeaveRequests: converter.LeaveRequestsToResponses(requests),
		Total:         len(requests),
	}, nil
}
