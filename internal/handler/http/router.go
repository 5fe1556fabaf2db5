package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/user"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/middleware"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/jwt"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       string
	AllowedOrigins []string

	// UploadsDir is served read-only under UploadsURL when both are set.
	UploadsDir string
	UploadsURL string
}

type Handlers struct {
	Auth     AuthHandler
	Driver   DriverHandler
	Duty     DutyHandler
	Parking  ParkingHandler
	Advance  AdvanceHandler
	Salary   SalaryHandler
	Fuel     FuelHandler
	Fastag   FastagHandler
	Accident AccidentHandler
	Upload   UploadHandler
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewRouter(cfg RouterConfig, jwtService jwt.Service, h Handlers, m *metrics.Metrics) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel(cfg.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	if cfg.UploadsDir != "" && strings.HasPrefix(cfg.UploadsURL, "/") {
		prefix := strings.TrimSuffix(cfg.UploadsURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
				r.Use(middleware.AuthRequired(jwtService))
				r.Get("/me", h.Auth.Me)
				r.Post("/change-password", h.Auth.ChangePassword)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(user.RoleAdmin, user.RoleStaff))

				r.With(middleware.RequirePermission(user.PermissionSalaryView)).Group(func(r chi.Router) {
					r.Get("/salary-summary", h.Salary.GetSummary)
					r.Get("/salary-details/{driverId}", h.Salary.GetDetails)
				})

				r.Route("/drivers", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDriverManage))
					r.Get("/", h.Driver.List)
					r.Post("/", h.Driver.Create)
					r.Get("/{id}", h.Driver.Get)
					r.Put("/{id}", h.Driver.Update)
					r.Delete("/{id}", h.Driver.Deactivate)
				})

				r.Route("/advances", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAdvanceManage))
					r.Get("/", h.Advance.List)
					r.Post("/", h.Advance.Create)
					r.Get("/{id}", h.Advance.Get)
					r.Delete("/{id}", h.Advance.Delete)
					r.Post("/{id}/recover", h.Advance.RecordRecovery)
				})

				r.Route("/parking", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionParkingManage)).Group(func(r chi.Router) {
						r.Get("/", h.Parking.List)
						r.Post("/", h.Parking.Create)
						r.Delete("/{id}", h.Parking.Delete)
					})
					r.With(middleware.RequirePermission(user.PermissionParkingReview)).
						Patch("/{id}/review", h.Parking.Review)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.PermissionDutyViewAll)).Group(func(r chi.Router) {
						r.Get("/", h.Duty.List)
						r.Get("/{id}", h.Duty.Get)
					})
					r.With(middleware.RequirePermission(user.PermissionDutyManage)).Group(func(r chi.Router) {
						r.Post("/punch-in", h.Duty.PunchIn)
						r.Post("/punch-out", h.Duty.PunchOut)
						r.Put("/{id}", h.Duty.Update)
					})
					r.With(middleware.RequirePermission(user.PermissionParkingReview)).
						Patch("/{id}/expense/{expenseId}", h.Parking.ReviewDutyExpense)
				})

				r.Route("/fuel", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionFuelManage))
					r.Get("/", h.Fuel.List)
					r.Post("/", h.Fuel.Create)
					r.Delete("/{id}", h.Fuel.Delete)
				})

				r.Route("/fastag", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionFastagManage))
					r.Get("/", h.Fastag.List)
					r.Post("/", h.Fastag.Create)
					r.Get("/balances", h.Fastag.GetBalances)
					r.Delete("/{id}", h.Fastag.Delete)
				})

				r.Route("/accident-logs", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionAccidentManage))
					r.Get("/", h.Accident.List)
					r.Post("/", h.Accident.Create)
					r.Delete("/{id}", h.Accident.Delete)
				})

				r.With(middleware.RequirePermission(user.PermissionFileUpload)).
					Post("/upload", h.Upload.Upload)
			})

			r.Route("/driver", func(r chi.Router) {
				r.Use(middleware.RequireDriver)

				r.Route("/duty", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionDutyOwn))
					r.Get("/", h.Duty.GetCurrent)
					r.Get("/history", h.Duty.GetMyDuties)
					r.Post("/punch-in", h.Duty.PunchIn)
					r.Post("/punch-out", h.Duty.PunchOut)
				})

				r.Route("/parking", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionParkingClaim))
					r.Get("/", h.Parking.GetMyClaims)
					r.Post("/", h.Parking.Claim)
				})
			})
		})
	})
	return r
}
