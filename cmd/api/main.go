package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hrms-backend-go/internal/config"
	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/hrms-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/lock"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hrms-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hrms-backend-go/internal/service/auth"
	leaveService "github.com/cmlabs-hris/hrms-backend-go/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hrms-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/hrms-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := appHTTP.NewLogger(cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		logger.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var locker lock.Locker = lock.NewMemory()
	if cfg.Redis.Addr != "" {
		redisLocker := lock.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer redisLocker.Close()
		if !redisLocker.Healthy(ctx) {
			logger.Warn("Redis is not reachable yet; payroll generation will fail until it is", "addr", cfg.Redis.Addr)
		}
		locker = redisLocker
	}

	policy, err := latePolicy(cfg.Attendance)
	if err != nil {
		logger.Error("Invalid attendance configuration", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	tx := postgresql.NewTransactor(db)

	accountRepo := postgresql.NewAccountRepository(db)
	JWTRepository := postgresql.NewJWTRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	authService := serviceAuth.NewAuthService(tx, accountRepo, JWTService, JWTRepository)
	attendanceSvc := attendanceService.NewAttendanceService(
		tx,
		attendanceRepo,
		employeeRepo,
		policy,
		m,
		attendanceService.WithLogger(logger),
	)
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		locker,
		m,
		payrollService.Config{LockTTL: cfg.Payroll.LockTTL, Workers: cfg.Payroll.Workers},
	)
	payrollSvc.SetLogger(logger)
	leaveSvc := leaveService.NewRequestService(tx, leaveRequestRepo, attendanceRepo)
	leaveSvc.SetLogger(logger)
	reportSvc := reportService.NewReportService(attendanceRepo, payrollSvc)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
		Metrics:        m.Handler(),
	}, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authService),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
	})

	scheduler := cron.NewScheduler(logger)
	if cfg.Attendance.AbsenceSweepEnabled {
		cron.NewAttendanceJobs(attendanceSvc, cfg.Attendance.AbsenceSweepEvery, logger).RegisterJobs(scheduler)
		scheduler.Start(ctx)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server running", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

func latePolicy(cfg config.AttendanceConfig) (attendance.LatePolicy, error) {
	if cfg.LateCutoff == "" {
		return attendance.NoLatePolicy{}, nil
	}
	cutoff, err := attendance.ParseCutoff(cfg.LateCutoff)
	if err != nil {
		return nil, err
	}
	return attendance.CutoffPolicy{Cutoff: cutoff, Grace: cfg.LateGracePeriod}, nil
}
