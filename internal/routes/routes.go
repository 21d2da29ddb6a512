package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/barberdesk/booking-api/internal/audit"
	"github.com/barberdesk/booking-api/internal/cache"
	"github.com/barberdesk/booking-api/internal/config"
	"github.com/barberdesk/booking-api/internal/handlers"
	infraRepo "github.com/barberdesk/booking-api/internal/infra/repository"
	"github.com/barberdesk/booking-api/internal/media"
	"github.com/barberdesk/booking-api/internal/middleware"
	"github.com/barberdesk/booking-api/internal/notify"
	"github.com/barberdesk/booking-api/internal/payments"
	ucAppointment "github.com/barberdesk/booking-api/internal/usecase/appointment"
)

// Deps carries the process-wide singletons built in main.
type Deps struct {
	Cache     cache.Store
	Hub       *notify.Hub
	Messenger notify.Messenger
	Gateway   *payments.Gateway
	Uploader  *media.Uploader
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(
		appointmentRepo,
	)

	listAppointmentsForClientUC := ucAppointment.NewListAppointmentsForClient(
		appointmentRepo,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db, deps.Uploader)
	serviceHandler := handlers.NewServiceHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		createAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
		listAppointmentsForClientUC,
		deps.Hub,
		deps.Messenger,
	)

	publicHandler := handlers.NewPublicHandler(
		db,
		availabilityUC,
		createAppointmentUC,
		deps.Hub,
	)

	reviewHandler := handlers.NewReviewHandler(db, auditDispatcher)
	paymentHandler := handlers.NewPaymentHandler(db, deps.Gateway, auditDispatcher)
	analyticsHandler := handlers.NewAnalyticsHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	wsHandler := handlers.NewWSHandler(db, deps.Hub)

	// ======================================================
	// MIDDLEWARE
	// ======================================================
	authRequired := middleware.AuthMiddleware(cfg)
	ownerOnly := middleware.RequireOwner()

	cached := middleware.ResponseCache(deps.Cache, cfg.CacheTTL)

	authLimiter := middleware.NewRateLimiter(1, 5)
	bookingLimiter := middleware.NewRateLimiter(2, 10)

	// ======================================================
	// WEBSOCKET
	// ======================================================
	r.GET("/ws/:slug", wsHandler.Serve)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicHandler.GetBarbershop)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", cached, publicHandler.GetAvailability)
			publicAPI.GET("/:slug/reviews", cached, publicHandler.ListReviews)

			// Booking and reviewing need a logged-in client.
			publicAPI.POST("/:slug/appointments",
				bookingLimiter.Middleware(), authRequired, publicHandler.BookAppointment)
			publicAPI.POST("/:slug/reviews", authRequired, reviewHandler.Create)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authLimiter.Middleware(), authHandler.Register)
		api.POST("/auth/login", authLimiter.Middleware(), authHandler.Login)

		// ------------------------------
		// STRIPE WEBHOOK (signature-authed)
		// ------------------------------
		api.POST("/payments/webhook", paymentHandler.Webhook)

		// ------------------------------
		// PRIVATE: any logged-in user
		// ------------------------------
		secured := api.Group("/")
		secured.Use(authRequired)
		{
			secured.GET("/me", meHandler.GetMe)

			// Client-facing booking management.
			secured.GET("/me/bookings", appointmentHandler.ListMine)
			secured.PATCH("/me/bookings/:id/cancel", appointmentHandler.CancelMine)
			secured.POST("/me/payments", paymentHandler.Create)

			// ------------------------------
			// OWNER ONLY
			// ------------------------------
			owner := secured.Group("/me")
			owner.Use(ownerOnly)
			{
				owner.GET("/barbershop", barbershopHandler.GetMeBarbershop)
				owner.PATCH("/barbershop", barbershopHandler.UpdateMeBarbershop)
				owner.POST("/barbershop/photo", barbershopHandler.UploadPhoto)

				owner.GET("/services", serviceHandler.List)
				owner.POST("/services", serviceHandler.Create)
				owner.PATCH("/services/:id", serviceHandler.Update)

				owner.GET("/appointments", appointmentHandler.ListByDate)
				owner.GET("/appointments/month", appointmentHandler.ListByMonth)
				owner.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
				owner.PATCH("/appointments/:id/complete", appointmentHandler.Complete)

				owner.POST("/payments/:id/refund", paymentHandler.Refund)

				owner.GET("/analytics", analyticsHandler.Summary)
				owner.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
