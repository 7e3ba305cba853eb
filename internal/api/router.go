package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ironhealth/clinic-api/internal/api/handler"
	"github.com/ironhealth/clinic-api/internal/api/middleware"
	"github.com/ironhealth/clinic-api/internal/core/domain"
	"github.com/ironhealth/clinic-api/internal/core/ports"
	"github.com/ironhealth/clinic-api/internal/core/validation"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Auth          ports.AuthService
	Appointments  ports.AppointmentService
	Patients      ports.PatientService
	Professionals ports.ProfessionalService
	Email         ports.EmailService
	Uploads       ports.UploadService
	Newsletter    ports.NewsletterService

	Validator    *validation.Validator
	Log          zerolog.Logger
	HealthChecks map[string]func(context.Context) error

	CORSOrigins      []string
	LoginPerMinute   int
	EmailPerMinute   int
	SignupPerMinute  int
	DisableTelemetry bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator(deps.Validator)
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, "Accept-Language", echo.HeaderXRequestID},
	}))
	if !deps.DisableTelemetry {
		e.Use(echoprometheus.NewMiddleware("clinic"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes (no auth required) ---
	health := handler.NewHealthHandler(deps.HealthChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authn := middleware.Authenticate(deps.Auth)
	staff := middleware.RequireRole(domain.RoleAdmin, domain.RoleProfessional)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth ---
	auth := handler.NewAuthHandler(deps.Auth)
	api.POST("/auth/login", auth.Login, middleware.RateLimit(deps.LoginPerMinute, time.Minute))
	api.POST("/auth/change-password", auth.ChangePassword, authn)
	api.POST("/auth/logout", auth.Logout, authn)
	api.GET("/users", auth.ListUsers, authn, adminOnly)

	// --- Appointments ---
	appointments := handler.NewAppointmentHandler(deps.Appointments)
	appointmentAccess := middleware.AppointmentAccess(deps.Appointments, deps.Validator, domain.RoleProfessional)
	ag := api.Group("/appointment", authn)
	ag.POST("", appointments.Create)
	ag.GET("", appointments.List)
	ag.GET("/:id", appointments.Get, appointmentAccess)
	ag.PUT("/:id", appointments.Cancel, appointmentAccess)
	ag.DELETE("/:id", appointments.Delete, appointmentAccess)
	ag.PATCH("/:id/notes", appointments.UpdateNotes, staff, appointmentAccess)

	// --- Patients ---
	patients := handler.NewPatientHandler(deps.Patients, deps.Validator)
	pg := api.Group("/patients", authn)
	pg.POST("", patients.Create, staff)
	pg.GET("", patients.List, staff)
	pg.GET("/:id", patients.Get, middleware.OwnProfile(domain.RolePatient, domain.RoleProfessional))
	pg.PUT("/:id/edit", patients.Update, staff)
	pg.PUT("/:id/delete", patients.Delete, staff)

	// --- Professionals ---
	professionals := handler.NewProfessionalHandler(deps.Professionals, deps.Validator)
	prg := api.Group("/professionals", authn)
	prg.POST("", professionals.Create, adminOnly)
	prg.GET("", professionals.List)
	prg.GET("/:id", professionals.Get)
	prg.PUT("/:id/edit", professionals.Update, adminOnly)
	prg.PUT("/:id/delete", professionals.Delete, adminOnly)

	// --- Email and uploads ---
	email := handler.NewEmailHandler(deps.Email)
	api.POST("/sendEmail", email.Send, authn, adminOnly, middleware.RateLimit(deps.EmailPerMinute, time.Minute))

	uploads := handler.NewUploadHandler(deps.Uploads)
	api.GET("/signature", uploads.Sign, authn)

	// --- Newsletter (public) ---
	newsletter := handler.NewNewsletterHandler(deps.Newsletter)
	api.POST("/newsletter", newsletter.Subscribe, middleware.RateLimit(deps.SignupPerMinute, time.Minute))

	return e
}
