package usecase

import (
	"context"
	"errors"
	"fmt"

	"outpatient-registration/internal/converter"
	"outpatient-registration/internal/delivery/dto"
	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/domain/repository"
	"outpatient-registration/internal/service"
	"outpatient-registration/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound       = fmt.Errorf("%w: doctor not found", apperror.ErrNotFound)
	ErrEmailAlreadyExists   = fmt.Errorf("%w: email already exists", apperror.ErrConflict)
	ErrLicenseAlreadyExists = fmt.Errorf("%w: license number already exists", apperror.ErrConflict)
	ErrDivisionNotFound     = fmt.Errorf("%w: department or specialty does not exist", apperror.ErrValidation)
	ErrRoleNotSeeded        = errors.New("doctor role is missing, run migrations")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, actorID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	GetPublicDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error)
	ListDivisionDoctors(ctx context.Context, departmentID, specialtyID string) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, actorID, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, actorID, doctorID uuid.UUID) error
}

type doctorUsecase struct {
	db                *gorm.DB
	tx                service.TxFunc
	log               *logrus.Logger
	userRepo          repository.UserRepository
	roleRepo          repository.RoleRepository
	doctorProfileRepo repository.DoctorProfileRepository
	scheduleRepo      repository.DoctorScheduleRepository
	departmentRepo    repository.DepartmentRepository
	auditService      service.AuditService
	cache             *service.CollectionCache
}

func NewDoctorUsecase(
	db *gorm.DB,
	tx service.TxFunc,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	departmentRepo repository.DepartmentRepository,
	auditService service.AuditService,
	cache *service.CollectionCache,
) DoctorUsecase {
	return &doctorUsecase{
		db:                db,
		tx:                tx,
		log:               log,
		userRepo:          userRepo,
		roleRepo:          roleRepo,
		doctorProfileRepo: doctorProfileRepo,
		scheduleRepo:      scheduleRepo,
		departmentRepo:    departmentRepo,
		auditService:      auditService,
		cache:             cache,
	}
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, actorID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if err := u.checkDivision(ctx, req.DepartmentID, req.SpecialtyID); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	active := true
	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		IsActive: &active,
	}
	profile := &entity.DoctorProfile{
		LicenseNo:    req.LicenseNo,
		Gender:       entity.Gender(req.Gender),
		DepartmentID: req.DepartmentID,
		SpecialtyID:  req.SpecialtyID,
		Title:        req.Title,
		Education:    req.Education,
		Experience:   req.Experience,
		Expertise:    req.Expertise,
	}

	err = u.tx(ctx, func(tx *gorm.DB) error {
		role, err := u.roleRepo.FindByName(tx, entity.RoleDoctor)
		if err != nil {
			return err
		}
		if role == nil {
			return ErrRoleNotSeeded
		}
		user.RoleID = role.ID

		if err := u.userRepo.Create(tx, user); err != nil {
			if apperror.IsUniqueViolation(err, "email") {
				return ErrEmailAlreadyExists
			}
			return err
		}

		profile.UserID = user.ID
		if err := u.doctorProfileRepo.Create(tx, profile); err != nil {
			if apperror.IsUniqueViolation(err, "license_no") {
				return ErrLicenseAlreadyExists
			}
			return err
		}

		// Every doctor starts with an empty weekly schedule.
		schedule := &entity.DoctorSchedule{DoctorID: user.ID, Room: req.Room, ShiftRules: entity.ShiftRules{}}
		if err := u.scheduleRepo.Upsert(tx, schedule); err != nil {
			return err
		}
		profile.Schedule = schedule

		return u.auditService.Record(ctx, tx, service.AuditEntry{
			ActorID:  &actorID,
			Action:   entity.AuditActionDoctorCreate,
			Entity:   "doctor",
			EntityID: user.ID.String(),
			NewValue: map[string]interface{}{"email": req.Email, "license_no": req.LicenseNo, "department_id": req.DepartmentID, "specialty_id": req.SpecialtyID},
		})
	})
	if err != nil {
		return nil, u.writeError("create doctor", err)
	}

	u.cache.Invalidate(ctx, service.CollectionDoctors, "")
	u.log.Infof("Doctor %s created in %s/%s", user.ID, req.DepartmentID, req.SpecialtyID)

	profile.User = *user
	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.find(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorUsecase) GetPublicDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.find(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !profile.User.Active() {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorProfileToPublicResponse(profile), nil
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, filter *entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(withContext(ctx, u.db), filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, apperror.Unavailable(err)
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(profiles, false),
		Total:   len(profiles),
	}, nil
}

func (u *doctorUsecase) ListDivisionDoctors(ctx context.Context, departmentID, specialtyID string) (*dto.DoctorListResponse, error) {
	key := departmentID + ":" + specialtyID
	return service.Remember(ctx, u.cache, service.CollectionDoctors, key, func(ctx context.Context) (*dto.DoctorListResponse, error) {
		profiles, err := u.doctorProfileRepo.FindAll(withContext(ctx, u.db), &entity.DoctorFilter{
			DepartmentID: departmentID,
			SpecialtyID:  specialtyID,
			ActiveOnly:   true,
		})
		if err != nil {
			u.log.Warnf("Failed to find doctors of %s: %+v", key, err)
			return nil, apperror.Unavailable(err)
		}
		return &dto.DoctorListResponse{
			Doctors: converter.DoctorProfilesToResponses(profiles, true),
			Total:   len(profiles),
		}, nil
	})
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, actorID, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	profile, err := u.find(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	old := converter.DoctorProfileToResponse(profile)

	departmentID, specialtyID := profile.DepartmentID, profile.SpecialtyID
	if req.DepartmentID != "" {
		departmentID = req.DepartmentID
	}
	if req.SpecialtyID != "" {
		specialtyID = req.SpecialtyID
	}
	if departmentID != profile.DepartmentID || specialtyID != profile.SpecialtyID {
		if err := u.checkDivision(ctx, departmentID, specialtyID); err != nil {
			return nil, err
		}
	}

	user := profile.User
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.IsActive != nil {
		user.IsActive = req.IsActive
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		user.Password = string(hashedPassword)
	}

	profile.DepartmentID, profile.SpecialtyID = departmentID, specialtyID
	if req.LicenseNo != "" {
		profile.LicenseNo = req.LicenseNo
	}
	if req.Gender != "" {
		profile.Gender = entity.Gender(req.Gender)
	}
	if req.Title != "" {
		profile.Title = req.Title
	}
	if req.Education != "" {
		profile.Education = req.Education
	}
	if req.Experience != "" {
		profile.Experience = req.Experience
	}
	if req.Expertise != "" {
		profile.Expertise = req.Expertise
	}

	err = u.tx(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Update(tx, &user); err != nil {
			if apperror.IsUniqueViolation(err, "email") {
				return ErrEmailAlreadyExists
			}
			return err
		}
		if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
			if apperror.IsUniqueViolation(err, "license_no") {
				return ErrLicenseAlreadyExists
			}
			return err
		}
		profile.User = user
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			ActorID:  &actorID,
			Action:   entity.AuditActionDoctorUpdate,
			Entity:   "doctor",
			EntityID: doctorID.String(),
			OldValue: old,
			NewValue: converter.DoctorProfileToResponse(profile),
		})
	})
	if err != nil {
		return nil, u.writeError("update doctor", err)
	}

	u.cache.Invalidate(ctx, service.CollectionDoctors, "")
	return converter.DoctorProfileToResponse(profile), nil
}

// DeleteDoctor deactivates the account. Registrations keep referencing the doctor.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, actorID, doctorID uuid.UUID) error {
	profile, err := u.find(ctx, doctorID)
	if err != nil {
		return err
	}

	inactive := false
	user := profile.User
	user.IsActive = &inactive

	err = u.tx(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Update(tx, &user); err != nil {
			return err
		}
		return u.auditService.Record(ctx, tx, service.AuditEntry{
			ActorID:  &actorID,
			Action:   entity.AuditActionDoctorDelete,
			Entity:   "doctor",
			EntityID: doctorID.String(),
			OldValue: converter.DoctorProfileToResponse(profile),
		})
	})
	if err != nil {
		return u.writeError("delete doctor", err)
	}

	u.cache.Invalidate(ctx, service.CollectionDoctors, "")
	u.cache.Invalidate(ctx, service.CollectionCalendar, doctorID.String())
	u.log.Infof("Doctor %s deactivated", doctorID)
	return nil
}

func (u *doctorUsecase) find(ctx context.Context, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(withContext(ctx, u.db), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, apperror.Unavailable(err)
	}
	if profile == nil {
		return nil, ErrDoctorNotFound
	}
	return profile, nil
}

func (u *doctorUsecase) checkDivision(ctx context.Context, departmentID, specialtyID string) error {
	specialty, err := u.departmentRepo.FindSpecialty(withContext(ctx, u.db), departmentID, specialtyID)
	if err != nil {
		u.log.Warnf("Failed to find specialty: %+v", err)
		return apperror.Unavailable(err)
	}
	if specialty == nil {
		return ErrDivisionNotFound
	}
	return nil
}

func (u *doctorUsecase) writeError(op string, err error) error {
	switch {
	case errors.Is(err, apperror.ErrConflict), errors.Is(err, apperror.ErrValidation):
		return err
	case apperror.IsConnectionError(err):
		return apperror.Unavailable(err)
	}
	u.log.Warnf("Failed to %s: %+v", op, err)
	return err
}
