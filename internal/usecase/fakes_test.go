package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"outpatient-registration/internal/domain/entity"
	"outpatient-registration/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var clinicZone = time.FixedZone("CST", 8*3600)

// Wednesday 2025-01-15, 09:00 at the clinic.
func fixedClock() Clock {
	return Clock{
		Now:      func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, clinicZone) },
		Location: clinicZone,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func fakeTx() service.TxFunc {
	return func(_ context.Context, fn func(tx *gorm.DB) error) error {
		return fn(nil)
	}
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []service.AuditEntry
}

func (f *fakeAudit) Record(_ context.Context, _ *gorm.DB, entry service.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeRegistrationRepo struct {
	mu           sync.Mutex
	rows         []entity.Registration
	beforeCreate func(r *fakeRegistrationRepo)
}

func (f *fakeRegistrationRepo) add(reg entity.Registration) entity.Registration {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	if reg.Status == "" {
		reg.Status = entity.RegistrationStatusConfirmed
	}
	f.rows = append(f.rows, reg)
	return reg
}

func inSession(r entity.Registration, doctorID uuid.UUID, date time.Time, period entity.Period) bool {
	return r.DoctorID == doctorID && r.OPDDate.Equal(date) && r.Period == period
}

func (f *fakeRegistrationRepo) Create(_ *gorm.DB, reg *entity.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.beforeCreate != nil {
		hook := f.beforeCreate
		f.beforeCreate = nil
		hook(f)
	}
	for _, r := range f.rows {
		if inSession(r, reg.DoctorID, reg.OPDDate, reg.Period) && r.RegistrationNumber == reg.RegistrationNumber {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_registration_number"}
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
		if inSession(r, doctorID, date, period) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationNumber < out[j].RegistrationNumber })
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

type fakeDoctorRepo struct {
	profiles map[uuid.UUID]*entity.DoctorProfile
}

func newFakeDoctorRepo(profiles ...*entity.DoctorProfile) *fakeDoctorRepo {
	repo := &fakeDoctorRepo{profiles: map[uuid.UUID]*entity.DoctorProfile{}}
	for _, p := range profiles {
		repo.profiles[p.UserID] = p
	}
	return repo
}

func (f *fakeDoctorRepo) Create(_ *gorm.DB, profile *entity.DoctorProfile) error {
	p := *profile
	f.profiles[profile.UserID] = &p
	return nil
}

func (f *fakeDoctorRepo) FindByUserID(_ *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	found := *p
	return &found, nil
}

func (f *fakeDoctorRepo) FindAll(_ *gorm.DB, filter *entity.DoctorFilter) ([]entity.DoctorProfile, error) {
	var out []entity.DoctorProfile
	for _, p := range f.profiles {
		if filter != nil {
			if filter.DepartmentID != "" && p.DepartmentID != filter.DepartmentID {
				continue
			}
			if filter.SpecialtyID != "" && p.SpecialtyID != filter.SpecialtyID {
				continue
			}
			if filter.ActiveOnly && !p.User.Active() {
				continue
			}
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeDoctorRepo) Update(_ *gorm.DB, profile *entity.DoctorProfile) error {
	p := *profile
	f.profiles[profile.UserID] = &p
	return nil
}

type fakeLeaveRepo struct {
	requests []entity.LeaveRequest
}

func (f *fakeLeaveRepo) Create(_ *gorm.DB, request *entity.LeaveRequest) error {
	request.ID = uuid.New()
	f.requests = append(f.requests, *request)
	return nil
}

func (f *fakeLeaveRepo) FindByDoctorID(_ *gorm.DB, doctorID uuid.UUID) ([]entity.LeaveRequest, error) {
	var out []entity.LeaveRequest
	for _, r := range f.requests {
		if r.DoctorID == doctorID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) FindSlots(_ *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.LeaveSlot, error) {
	var out []entity.LeaveSlot
	for _, r := range f.requests {
		for _, s := range r.Slots {
			if s.DoctorID == doctorID && !s.LeaveDate.Before(from) && !s.LeaveDate.After(to) {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

type fakeDepartmentRepo struct {
	departments []entity.Department
	findAll     int
}

func (f *fakeDepartmentRepo) Create(_ *gorm.DB, department *entity.Department) error {
	for _, d := range f.departments {
		if d.ID == department.ID {
			return &pgconn.PgError{Code: "23505", ConstraintName: "departments_pkey"}
		}
	}
	f.departments = append(f.departments, *department)
	return nil
}

func (f *fakeDepartmentRepo) FindAll(_ *gorm.DB) ([]entity.Department, error) {
	f.findAll++
	return f.departments, nil
}

func (f *fakeDepartmentRepo) FindSpecialty(_ *gorm.DB, departmentID, specialtyID string) (*entity.Specialty, error) {
	for _, d := range f.departments {
		for _, s := range d.Specialties {
			if d.ID == departmentID && s.ID == specialtyID {
				found := s
				return &found, nil
			}
		}
	}
	return nil, nil
}

type fakeScheduleRepo struct {
	schedules map[uuid.UUID]entity.DoctorSchedule
}

func (f *fakeScheduleRepo) FindByDoctorID(_ *gorm.DB, doctorID uuid.UUID) (*entity.DoctorSchedule, error) {
	s, ok := f.schedules[doctorID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeScheduleRepo) Upsert(_ *gorm.DB, schedule *entity.DoctorSchedule) error {
	if f.schedules == nil {
		f.schedules = map[uuid.UUID]entity.DoctorSchedule{}
	}
	f.schedules[schedule.DoctorID] = *schedule
	return nil
}

type fakeProgressRepo struct {
	markers map[uuid.UUID]entity.ProgressMarker
	locks   int
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{markers: map[uuid.UUID]entity.ProgressMarker{}}
}

func (f *fakeProgressRepo) Create(_ *gorm.DB, marker *entity.ProgressMarker) error {
	if _, ok := f.markers[marker.DoctorID]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "progress_markers_pkey"}
	}
	f.markers[marker.DoctorID] = *marker
	return nil
}

func (f *fakeProgressRepo) FindByDoctorID(_ *gorm.DB, doctorID uuid.UUID) (*entity.ProgressMarker, error) {
	m, ok := f.markers[doctorID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeProgressRepo) FindByDoctorIDForUpdate(db *gorm.DB, doctorID uuid.UUID) (*entity.ProgressMarker, error) {
	f.locks++
	return f.FindByDoctorID(db, doctorID)
}

func (f *fakeProgressRepo) Save(_ *gorm.DB, marker *entity.ProgressMarker) error {
	f.markers[marker.DoctorID] = *marker
	return nil
}

func (f *fakeProgressRepo) Delete(_ *gorm.DB, doctorID uuid.UUID) (int64, error) {
	if _, ok := f.markers[doctorID]; !ok {
		return 0, nil
	}
	delete(f.markers, doctorID)
	return 1, nil
}

func (f *fakeProgressRepo) DeleteOpenedBefore(_ *gorm.DB, d time.Time) (int64, error) {
	var n int64
	for id, m := range f.markers {
		if m.OpenedOn.Before(d) {
			delete(f.markers, id)
			n++
		}
	}
	return n, nil
}

type fakeRoleRepo struct {
	roles []entity.Role
}

func seededRoles() *fakeRoleRepo {
	return &fakeRoleRepo{roles: []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin},
		{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor},
		{ID: entity.RoleIDStaff, RoleName: entity.RoleStaff},
	}}
}

func (f *fakeRoleRepo) FindByName(_ *gorm.DB, name string) (*entity.Role, error) {
	for _, r := range f.roles {
		if r.RoleName == name {
			role := r
			return &role, nil
		}
	}
	return nil, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ *gorm.DB, user *entity.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
		}
	}
	user.ID = uuid.New()
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			found := *u
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	found := *u
	return &found, nil
}

func (f *fakeUserRepo) Update(_ *gorm.DB, user *entity.User) error {
	u := *user
	f.users[user.ID] = &u
	return nil
}
