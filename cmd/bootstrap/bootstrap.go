package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outpatient-registration/config"
	deliveryHttp "outpatient-registration/internal/delivery/http"
	"outpatient-registration/internal/delivery/http/handler"
	"outpatient-registration/internal/delivery/http/middleware"
	"outpatient-registration/internal/infrastructure/cache"
	"outpatient-registration/internal/infrastructure/database"
	"outpatient-registration/internal/jobs"
	"outpatient-registration/internal/observability/metrics"
	"outpatient-registration/internal/repository"
	"outpatient-registration/internal/service"
	"outpatient-registration/internal/usecase"
	"outpatient-registration/pkg/jwt"
	"outpatient-registration/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Scheduler   *jobs.Scheduler
	Locks       *service.KeyedMutex
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	loc, err := cfg.App.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid clinic time zone %q: %w", cfg.App.Timezone, err)
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	if err := app.initialize(cfg, loc); err != nil {
		return nil, err
	}

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// initialize wires repositories, services, usecases, handlers and jobs
func (app *App) initialize(cfg *config.Config, loc *time.Location) error {
	db, redisClient := app.DB, app.RedisClient
	log := logrus.StandardLogger()
	clock := usecase.NewClock(loc)
	tx := service.GormTx(db)

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registrationMetrics := metrics.NewRegistrationMetrics(registry)

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	departmentRepo := repository.NewDepartmentRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	doctorScheduleRepo := repository.NewDoctorScheduleRepository()
	leaveRequestRepo := repository.NewLeaveRequestRepository()
	registrationRepo := repository.NewRegistrationRepository()
	progressMarkerRepo := repository.NewProgressMarkerRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)
	collectionCache := service.NewCollectionCache(redisClient, log, cfg.Booking.DisplayCacheTTL, registrationMetrics)
	app.Locks = service.NewKeyedMutex(log)
	allocator := service.NewRegistrationAllocator(
		tx, log, registrationRepo, app.Locks, registrationMetrics,
		cfg.Booking.AllocationAttempts, cfg.Booking.AllocationBackoff,
	)

	// Initialize usecases
	windows := usecase.CalendarWindows{PatientDays: cfg.Booking.PatientWindowDays, DoctorDays: cfg.Booking.DoctorWindowDays}
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, auditService, jwtService, redisClient)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)
	departmentUsecase := usecase.NewDepartmentUsecase(db, tx, log, departmentRepo, auditService, collectionCache)
	doctorUsecase := usecase.NewDoctorUsecase(db, tx, log, userRepo, roleRepo, doctorProfileRepo, doctorScheduleRepo, departmentRepo, auditService, collectionCache)
	doctorScheduleUsecase := usecase.NewDoctorScheduleUsecase(db, tx, log, clock, windows, doctorScheduleRepo, doctorProfileRepo, leaveRequestRepo, auditService, collectionCache)
	leaveRequestUsecase := usecase.NewLeaveRequestUsecase(db, tx, log, clock, leaveRequestRepo, auditService, collectionCache)
	registrationUsecase := usecase.NewRegistrationUsecase(db, tx, log, clock, cfg.Booking.PatientWindowDays, registrationRepo, doctorProfileRepo, departmentRepo, leaveRequestRepo, allocator, auditService)
	progressUsecase := usecase.NewProgressUsecase(db, tx, log, clock, progressMarkerRepo, registrationRepo, auditService, registrationMetrics)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)
	departmentHandler := handler.NewDepartmentHandler(departmentUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	doctorScheduleHandler := handler.NewDoctorScheduleHandler(doctorScheduleUsecase, customValidator)
	leaveRequestHandler := handler.NewLeaveRequestHandler(leaveRequestUsecase, customValidator)
	registrationHandler := handler.NewRegistrationHandler(registrationUsecase, customValidator)
	progressHandler := handler.NewProgressHandler(progressUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient, log)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		auditLogHandler,
		departmentHandler,
		doctorHandler,
		doctorScheduleHandler,
		leaveRequestHandler,
		registrationHandler,
		progressHandler,
		authMiddleware,
		corsMiddleware,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	httpRouter := router.Setup()

	// Initialize jobs
	housekeeping := jobs.NewHousekeeping(db, log, clock, progressMarkerRepo, collectionCache)
	scheduler, err := jobs.NewScheduler(log, loc, cfg.Jobs.HousekeepingSpec, housekeeping)
	if err != nil {
		return err
	}
	app.Scheduler = scheduler

	// Create server
	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	app.Scheduler.Start()

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Scheduler.Stop(ctx)

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close releases the session locks and closes all connections
func (app *App) Close() {
	if app.Locks != nil {
		app.Locks.Stop()
	}

	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
