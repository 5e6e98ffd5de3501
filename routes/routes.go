package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/bonhomie-fest/docs" // регистрирует swagger спецификацию
	"github.com/Dosada05/bonhomie-fest/handlers"
	"github.com/Dosada05/bonhomie-fest/middleware"
	"github.com/Dosada05/bonhomie-fest/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Profile      *handlers.ProfileHandler
	Event        *handlers.EventHandler
	Registration *handlers.RegistrationHandler
	Review       *handlers.ReviewHandler
	Coordinator  *handlers.CoordinatorHandler
	Dashboard    *handlers.DashboardHandler
	Admin        *handlers.AdminProfileHandler
}

type Options struct {
	JWTSecret          string
	CORSAllowedOrigins []string
	Logger             *slog.Logger
}

func SetupRoutes(router chi.Router, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Location", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Logger)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.With(authenticate).Get("/me", h.Auth.Me)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/", h.Profile.GetMyProfile)
			r.Put("/", h.Profile.UpdateMyProfile)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.Event.ListEvents)
			r.With(middleware.OptionalAuthenticate(opts.JWTSecret)).Get("/{eventID}", h.Event.GetEvent)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Get("/{eventID}/registration-form", h.Event.GetRegistrationForm)
				r.Post("/{eventID}/registrations", h.Registration.SubmitRegistration)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)

			// Просмотр заявок: администраторы и преподаватели
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleFaculty))
				r.Get("/registrations", h.Review.ListRegistrations)
				r.Get("/registrations/export", h.Review.ExportRegistrations)
				r.Patch("/registrations/{registrationID}/status", h.Review.UpdateStatus)
				r.Post("/registrations/{registrationID}/approve", h.Review.Approve)
				r.Post("/registrations/{registrationID}/reject", h.Review.Reject)
				r.Get("/registrations/{registrationID}/screenshot", h.Review.GetScreenshotURL)
				r.Get("/stats", h.Dashboard.Stats)
			})

			// Только администраторы
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))
				r.Get("/events", h.Coordinator.ListAllEvents)
				r.Post("/events", h.Event.CreateEvent)
				r.Put("/events/{eventID}", h.Event.UpdateEvent)
				r.Put("/events/{eventID}/results", h.Event.SetResults)
				r.Get("/profiles/lookup", h.Coordinator.LookupStudent)
				r.Post("/events/{eventID}/coordinators", h.Coordinator.AssignCoordinator)
				r.Delete("/events/{eventID}/coordinators/{profileID}", h.Coordinator.RemoveCoordinator)
				r.Get("/profiles", h.Admin.ListProfiles)
				r.Patch("/profiles/{profileID}/role", h.Admin.SetRole)
			})
		})

		r.Route("/coordinator", func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/events", h.Coordinator.MyEvents)
			r.Patch("/events/{eventID}", h.Coordinator.UpdateMyEvent)
			r.Get("/events/{eventID}/registrations", h.Coordinator.EventRegistrations)
			r.Get("/events/{eventID}/registrations/export", h.Coordinator.ExportEventRegistrations)
		})
	})
}
