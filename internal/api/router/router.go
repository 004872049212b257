package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hcportal/patient-portal/internal/http/handlers"
	httpmiddleware "github.com/hcportal/patient-portal/internal/http/middleware"
	"github.com/hcportal/patient-portal/internal/session"
	"github.com/hcportal/patient-portal/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Sessions           *session.Store
	SessionCookieName  string
	Auth               *handlers.AuthHandler
	Registration       *handlers.RegistrationHandler
	Schedule           *handlers.ScheduleHandler
	Dashboard          *handlers.DashboardHandler
	Edit               *handlers.EditHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	cookieName := cfg.SessionCookieName
	if cookieName == "" {
		cookieName = "portal_session"
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	r.Use(httpmiddleware.SessionCookie(cookieName))

	// Public endpoints: health, metrics, authentication, registration.
	r.Group(func(public chi.Router) {
		public.Get("/health", handlers.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Post("/portal/login", cfg.Auth.Login)
		public.Post("/portal/logout", cfg.Auth.Logout)
		public.Route("/portal/registration", func(r chi.Router) {
			r.Get("/", cfg.Registration.State)
			r.Post("/address", cfg.Registration.SubmitAddress)
			r.Post("/patient", cfg.Registration.SubmitPatient)
			r.Post("/back", cfg.Registration.Back)
		})
	})

	// Authenticated endpoints: everything that acts on behalf of a patient.
	r.Group(func(authed chi.Router) {
		authed.Use(httpmiddleware.RequireAuth(cfg.Sessions))
		authed.Get("/portal/doctors", cfg.Schedule.Doctors)
		authed.Get("/portal/slots", cfg.Schedule.Slots)
		authed.Post("/portal/appointments", cfg.Schedule.Create)
		authed.Get("/portal/dashboard", cfg.Dashboard.Get)
		authed.Get("/portal/appointments/{id}", cfg.Edit.Get)
		authed.Put("/portal/appointments/{id}", cfg.Edit.Save)
	})

	return r
}
