package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shinelab/detailing-ops/internal/config"
	"github.com/shinelab/detailing-ops/internal/domain/user"
	appHTTP "github.com/shinelab/detailing-ops/internal/handler/http"
	"github.com/shinelab/detailing-ops/internal/pkg/cron"
	"github.com/shinelab/detailing-ops/internal/pkg/database"
	"github.com/shinelab/detailing-ops/internal/pkg/email"
	"github.com/shinelab/detailing-ops/internal/pkg/jwt"
	"github.com/shinelab/detailing-ops/internal/pkg/metrics"
	"github.com/shinelab/detailing-ops/internal/pkg/sse"
	"github.com/shinelab/detailing-ops/internal/pkg/storage"
	"github.com/shinelab/detailing-ops/internal/repository/postgresql"
	attendanceService "github.com/shinelab/detailing-ops/internal/service/attendance"
	serviceAuth "github.com/shinelab/detailing-ops/internal/service/auth"
	employeeService "github.com/shinelab/detailing-ops/internal/service/employee"
	reportService "github.com/shinelab/detailing-ops/internal/service/report"
	userService "github.com/shinelab/detailing-ops/internal/service/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal("Error applying database schema: ", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	txManager := postgresql.NewTxManager(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	appMetrics := metrics.New()
	hub := sse.NewHub()

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}

	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	userSvc := userService.NewUserService(userRepo)
	if cfg.Admin.Email != "" {
		created, err := userSvc.EnsureAdmin(ctx, user.CreateUserRequest{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			Name:     cfg.Admin.Name,
		})
		if err != nil {
			log.Fatal("Failed to seed admin user: ", err)
		}
		if created {
			slog.Info("Admin user created", "email", cfg.Admin.Email)
		}
	}
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		settingsRepo,
		employeeRepo,
		txManager,
		hub,
		appMetrics,
	)
	reportSvc := reportService.NewReportService(
		employeeRepo,
		attendanceRepo,
		settingsRepo,
		fileStorage,
		emailService,
		appMetrics,
		cfg.Report.Currency,
	)

	scheduler := cron.NewScheduler()
	if cfg.Report.MonthlyExport {
		cron.NewExportJobs(reportSvc, cfg.Report.ExportIncludeHolidays).RegisterJobs(scheduler, cfg.Report.ExportCheckInterval)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg.App, JWTService, appMetrics, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService),
		User:       appHTTP.NewUserHandler(userSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, JWTService),
		Report:     appHTTP.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Open event streams never go idle, so release them or Shutdown waits out its timeout.
	server.RegisterOnShutdown(func() {
		slog.Info("Closing event streams", "subscribers", hub.Close())
	})

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
