package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/biometric-sync/internal/domain/user"
	"github.com/cmlabs-hris/biometric-sync/internal/handler/http/middleware"
	"github.com/cmlabs-hris/biometric-sync/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions carries the settings the router needs from configuration.
type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(
	JWTService jwt.Service,
	gatherer prometheus.Gatherer,
	attendanceHandler AttendanceHandler,
	checkinHandler CheckinHandler,
	repairHandler RepairHandler,
	opts RouterOptions,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/shift-types/{id}", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceProcess)).
					Post("/process-auto-attendance", attendanceHandler.ProcessAutoAttendance)
			})

			r.Route("/attendances", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.PermissionAttendanceView)).
					Get("/{id}", attendanceHandler.Get)
			})

			r.Route("/devices/{id}", func(r chi.Router) {
				r.With(
					middleware.RequirePermission(user.PermissionCheckinWrite),
					middleware.RequireDeviceMatch("id"),
				).Post("/checkins", checkinHandler.Record)
			})

			r.Route("/repair", func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionAttendanceRepair))
				r.Post("/skipped-window", repairHandler.ClearSkippedWindow)
				r.Post("/reconcile", repairHandler.Reconcile)
			})
		})
	})

	return r
}
