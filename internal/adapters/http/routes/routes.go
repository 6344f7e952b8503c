package routes

import (
	"time"

	"visaconsult/internal/adapters/http/handlers"
	"visaconsult/internal/adapters/http/middleware"
	"visaconsult/internal/adapters/persistence/repositories"
	"visaconsult/internal/config"
	"visaconsult/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, store *repositories.Store, svc *services.Services, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(store, cfg.AppMode)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	userHandler := handlers.NewUserHandler(svc.Users)
	visaTypeHandler := handlers.NewVisaTypeHandler(store.VisaTypes)
	applicationHandler := handlers.NewApplicationHandler(svc.Applications, svc.Workflow)
	documentHandler := handlers.NewDocumentHandler(svc.Documents, svc.Workflow)
	appointmentHandler := handlers.NewAppointmentHandler(svc.Appointments, svc.Workflow)
	feedbackHandler := handlers.NewFeedbackHandler(svc.Feedback)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	adminHandler := handlers.NewAdminHandler(svc.Settings)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	// Auth routes (public)
	setupAuthRoutes(api.Group("/auth", middleware.NoCacheHeaders()), authHandler, cfg)

	// Visa type catalogue (public)
	visaTypes := api.Group("/visa-types", middleware.CacheControl(5*time.Minute))
	visaTypes.Get("/", visaTypeHandler.List)
	visaTypes.Get("/:id", visaTypeHandler.Get)

	// Everything below requires a session
	protected := api.Group("", middleware.AuthMiddleware(cfg), middleware.NoCacheHeaders())

	setupProfileRoutes(protected, userHandler)
	setupApplicationRoutes(protected, applicationHandler, documentHandler, appointmentHandler)
	setupDocumentRoutes(protected, documentHandler)
	setupAppointmentRoutes(protected, appointmentHandler)

	protected.Post("/feedback", feedbackHandler.Create)
	protected.Get("/feedback/my", feedbackHandler.ListMine)

	setupAdminRoutes(protected.Group("/admin"), userHandler, dashboardHandler, feedbackHandler, adminHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/profile", handler.GetProfile)
	router.Put("/profile", handler.UpdateProfile)
	router.Put("/profile/password", middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupApplicationRoutes configures application routes; ownership is checked per request
func setupApplicationRoutes(
	router fiber.Router,
	handler *handlers.ApplicationHandler,
	documentHandler *handlers.DocumentHandler,
	appointmentHandler *handlers.AppointmentHandler,
) {
	router.Post("/applications", handler.Create)
	router.Get("/applications", handler.List)
	router.Get("/applications/:id", handler.Get)
	router.Put("/applications/:id", handler.Update)
	router.Delete("/applications/:id", middleware.AdminOnly(), handler.Delete)

	router.Get("/applications/:id/documents", documentHandler.ListByApplication)
	router.Get("/applications/:id/appointment", appointmentHandler.GetByApplication)
}

// setupDocumentRoutes configures document routes
func setupDocumentRoutes(router fiber.Router, handler *handlers.DocumentHandler) {
	router.Post("/documents/upload", handler.Upload)
	router.Get("/documents/:id/download", middleware.PrivateCacheHeaders(0), handler.Download)
	router.Delete("/documents/:id", handler.Delete)
	router.Put("/documents/:id/verify", middleware.OfficerOrAdmin(), handler.Verify)
	router.Get("/pending-documents", middleware.OfficerOrAdmin(), handler.ListPending)
}

// setupAppointmentRoutes configures appointment routes
func setupAppointmentRoutes(router fiber.Router, handler *handlers.AppointmentHandler) {
	router.Get("/appointments", handler.List)
	router.Post("/appointments", middleware.OfficerOrAdmin(), handler.Schedule)
	router.Put("/appointments/:id", middleware.OfficerOrAdmin(), handler.Update)
}

// setupAdminRoutes configures staff and admin routes
func setupAdminRoutes(
	router fiber.Router,
	userHandler *handlers.UserHandler,
	dashboardHandler *handlers.DashboardHandler,
	feedbackHandler *handlers.FeedbackHandler,
	adminHandler *handlers.AdminHandler,
) {
	// Officer/Admin
	router.Get("/dashboard", middleware.OfficerOrAdmin(), dashboardHandler.GetDashboard)

	// Admin only
	admin := router.Group("", middleware.AdminOnly())

	admin.Get("/users", userHandler.ListUsers)
	admin.Post("/users", userHandler.CreateUser)
	admin.Get("/users/:id", userHandler.GetUser)
	admin.Put("/users/:id", userHandler.UpdateUser)
	admin.Delete("/users/:id", userHandler.DeleteUser)

	admin.Get("/settings", adminHandler.GetSettings)
	admin.Put("/settings", adminHandler.UpdateSettings)
	admin.Get("/logs", adminHandler.ListLogs)
	admin.Get("/feedback", feedbackHandler.List)
}
