package http

import (
	"log/slog"
	"os"

	"github.com/gigline/gigline-backend-go/internal/config"
	"github.com/gigline/gigline-backend-go/internal/handler/http/middleware"
	"github.com/gigline/gigline-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	cfg config.AppConfig,
	jwtService jwt.Service,
	authHandler AuthHandler,
	shiftHandler ShiftHandler,
	applicationHandler ApplicationHandler,
	assignmentHandler AssignmentHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gigline"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)
	slog.SetDefault(logger)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", shiftHandler.ListOpen)
				r.Get("/{shiftID}", shiftHandler.Get)

				// Business only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireBusiness)
					r.Post("/", shiftHandler.Create)
					r.Get("/{shiftID}/applications", applicationHandler.ListForShift)
				})
			})

			r.Route("/applications", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireWorker)
					r.Post("/", applicationHandler.Apply)
					r.Get("/my", applicationHandler.MyApplications)
					r.Post("/{applicationID}/withdraw", applicationHandler.Withdraw)
				})

				// Business only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireBusiness)
					r.Post("/{applicationID}/accept", applicationHandler.Accept)
				})
			})

			r.Route("/assignments", func(r chi.Router) {
				r.Get("/{assignmentID}", assignmentHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireWorker)
					r.Get("/my", assignmentHandler.MyAssignments)
					r.Post("/clock-in", assignmentHandler.ClockIn)
					r.Post("/clock-out", assignmentHandler.ClockOut)
				})
			})

			r.Get("/notifications", notificationHandler.List)
		})
	})

	return r
}
