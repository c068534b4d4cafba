package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/hrms-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AllowedOrigins []string
	// Logger receives request logs; nil builds an ECS JSON logger on stdout.
	Logger *slog.Logger
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Leave      LeaveHandler
	Report     ReportHandler
}

// NewLogger builds the ECS-formatted JSON logger used for request logs.
func NewLogger(env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "development")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hrms-cmlabs"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logger := cfg.Logger
	if logger == nil {
		logger = NewLogger("development")
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAttendanceSelf))
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
					r.Post("/re-check-in", h.Attendance.ReCheckIn)
					r.Post("/re-check-out", h.Attendance.ReCheckOut)
					r.Get("/today", h.Attendance.Today)
					r.Get("/history", h.Attendance.History)
					r.Get("/summary", h.Attendance.Summary)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Get("/", h.Attendance.List)
					r.With(middleware.RequirePermission(user.PermissionAttendanceManage)).Patch("/{id}/status", h.Attendance.UpdateStatus)
					r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/export.csv", h.Report.AttendanceCSV)
				})
			})

			r.Route("/leave/requests", func(r chi.Router) {
				r.Get("/{id}", h.Leave.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveRequest))
					r.Post("/", h.Leave.Create)
					r.Get("/me", h.Leave.ListMine)
					r.Delete("/{id}", h.Leave.Cancel)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.With(middleware.RequirePermission(user.PermissionLeaveViewAll)).Get("/", h.Leave.List)
					r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Post("/{id}/approve", h.Leave.Approve)
					r.With(middleware.RequirePermission(user.PermissionLeaveApprove)).Post("/{id}/reject", h.Leave.Reject)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/employees/{employeeID}", h.Payroll.ListByEmployee)
				r.Get("/{id}", h.Payroll.Get)
				r.Get("/{id}/slip.pdf", h.Report.Payslip)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.With(middleware.RequirePermission(user.PermissionPayrollGenerate)).Post("/generate", h.Payroll.Generate)
					r.With(middleware.RequirePermission(user.PermissionPayrollViewAll)).Get("/", h.Payroll.ListByPeriod)
					r.With(middleware.RequirePermission(user.PermissionPayrollManage)).Patch("/{id}/status", h.Payroll.UpdateStatus)
					r.With(middleware.RequirePermission(user.PermissionReportsExport)).Get("/export.xlsx", h.Report.PayrollWorkbook)
				})
			})
		})
	})
	return r
}
