package http

import (
	"net/http"

	"outpatient-registration/internal/delivery/http/handler"
	"outpatient-registration/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	auditLogHandler       *handler.AuditLogHandler
	departmentHandler     *handler.DepartmentHandler
	doctorHandler         *handler.DoctorHandler
	doctorScheduleHandler *handler.DoctorScheduleHandler
	leaveRequestHandler   *handler.LeaveRequestHandler
	registrationHandler   *handler.RegistrationHandler
	progressHandler       *handler.ProgressHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	metricsHandler        http.Handler
}

func NewRouter(
	authHandler *handler.AuthHandler,
	auditLogHandler *handler.AuditLogHandler,
	departmentHandler *handler.DepartmentHandler,
	doctorHandler *handler.DoctorHandler,
	doctorScheduleHandler *handler.DoctorScheduleHandler,
	leaveRequestHandler *handler.LeaveRequestHandler,
	registrationHandler *handler.RegistrationHandler,
	progressHandler *handler.ProgressHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		auditLogHandler:       auditLogHandler,
		departmentHandler:     departmentHandler,
		doctorHandler:         doctorHandler,
		doctorScheduleHandler: doctorScheduleHandler,
		leaveRequestHandler:   leaveRequestHandler,
		registrationHandler:   registrationHandler,
		progressHandler:       progressHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		metricsHandler:        metricsHandler,
	}
}

func (r *Router) Setup() *mux.Router {
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Patient portal (public)
	api.HandleFunc("/departments", r.departmentHandler.ListDepartments).Methods(http.MethodGet)
	api.HandleFunc("/departments/{departmentId}/specialties/{specialtyId}/doctors", r.doctorHandler.ListDivisionDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetPublicDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/calendar", r.doctorScheduleHandler.GetPatientCalendar).Methods(http.MethodGet)
	api.HandleFunc("/registrations", r.registrationHandler.CreateRegistration).Methods(http.MethodPost)
	api.HandleFunc("/registrations/search", r.registrationHandler.SearchRegistrations).Methods(http.MethodPost)
	api.HandleFunc("/registrations/{id}/cancel", r.registrationHandler.CancelRegistration).Methods(http.MethodPost)
	api.HandleFunc("/progress/{doctorId}", r.progressHandler.GetProgress).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)

	doctor.HandleFunc("/calendar", r.doctorScheduleHandler.GetMyCalendar).Methods(http.MethodGet)
	doctor.HandleFunc("/schedule", r.doctorScheduleHandler.UpdateMySchedule).Methods(http.MethodPut)
	doctor.HandleFunc("/leave-requests", r.leaveRequestHandler.CreateLeaveRequest).Methods(http.MethodPost)
	doctor.HandleFunc("/leave-requests", r.leaveRequestHandler.ListLeaveRequests).Methods(http.MethodGet)
	doctor.HandleFunc("/registrations", r.registrationHandler.ListMySessionRegistrations).Methods(http.MethodGet)

	// Clinic session
	doctor.HandleFunc("/progress", r.progressHandler.GetMyProgress).Methods(http.MethodGet)
	doctor.HandleFunc("/progress/open", r.progressHandler.OpenClinic).Methods(http.MethodPost)
	doctor.HandleFunc("/progress/period", r.progressHandler.SelectPeriod).Methods(http.MethodPut)
	doctor.HandleFunc("/progress/next", r.progressHandler.CallNext).Methods(http.MethodPost)
	doctor.HandleFunc("/progress", r.progressHandler.CloseClinic).Methods(http.MethodDelete)

	// Admin routes (protected - admin or staff)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdminOrStaff)

	admin.HandleFunc("/departments", r.departmentHandler.CreateDepartment).Methods(http.MethodPost)

	// Doctor management
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{id}/schedule", r.doctorScheduleHandler.GetSchedule).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}/schedule", r.doctorScheduleHandler.UpdateSchedule).Methods(http.MethodPut)

	// Audit trail
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
