package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shinelab/detailing-ops/internal/config"
	"github.com/shinelab/detailing-ops/internal/domain/user"
	"github.com/shinelab/detailing-ops/internal/handler/http/middleware"
	"github.com/shinelab/detailing-ops/internal/pkg/jwt"
	"github.com/shinelab/detailing-ops/internal/pkg/metrics"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Report     ReportHandler
}

func NewRouter(appConfig config.AppConfig, JWTService jwt.Service, m *metrics.Metrics, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(appConfig.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "detailing-ops"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appConfig.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics(m))
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// SSE authenticates with a short-lived token in the query string
		r.Get("/attendance/stream", h.Attendance.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)
			r.Get("/auth/sse-token", h.Auth.SSEToken)

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionUserManage))
				r.Post("/", h.User.Create)
				r.Get("/", h.User.List)
				r.Put("/{id}/role", h.User.UpdateRole)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeView))
					r.Get("/", h.Employee.List)
					r.Get("/{id}", h.Employee.Get)
				})
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
					r.Post("/", h.Employee.Create)
					r.Put("/{id}", h.Employee.Update)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Route("/records", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceView)).Get("/", h.Attendance.ListRecords)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionAttendanceManage))
						r.Put("/", h.Attendance.UpsertRecord)
						r.Delete("/", h.Attendance.ClearMonth)
						r.Post("/import", h.Attendance.Import)
					})
				})

				r.Route("/settings", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionAttendanceView)).Get("/", h.Attendance.GetSettings)
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(user.PermissionSettingsManage))
						r.Put("/", h.Attendance.UpdateSettings)
						r.Post("/holidays", h.Attendance.AddHoliday)
						r.Delete("/holidays/{date}", h.Attendance.RemoveHoliday)
					})
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionPayrollView))
				r.Get("/attendance", h.Report.Monthly)
				r.Get("/attendance/export", h.Report.Export)
				r.Get("/attendance/{employeeId}", h.Report.Employee)
				r.Post("/attendance/{employeeId}/payslip", h.Report.SendPayslip)
				r.Get("/exports", h.Report.ListExports)
				r.Get("/exports/{name}", h.Report.DownloadExport)
			})
		})
	})

	return r
}
