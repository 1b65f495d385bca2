package http

import (
	"net/http"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/http/handlers"
	"ferry-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires middleware and routes. Read surfaces and the
// self-service booking flow are open; everything behind the pier counter
// requires a staff token.
func NewRouter(env intconfig.Env) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	r.GET("/health", handlers.Health)
	r.GET("/health/db", handlers.DBCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.POST("/auth/login", handlers.Login(env.JWTSecret))

		api.GET("/trips", handlers.ListTrips)
		api.GET("/trips/:id", handlers.GetTrip)
		api.GET("/trips/:id/seats", handlers.TripSeats)

		api.POST("/fares/quote", handlers.QuoteFare(env))

		// Self-service booking flow; no account needed. A staff token, when
		// present, is still recorded as the booking creator.
		api.POST("/bookings", middleware.OptionalAuth(env.JWTSecret), handlers.CreateBooking(env))
		api.GET("/bookings/:reference", handlers.GetBooking(env))
		api.POST("/bookings/:reference/confirm-payment", handlers.ConfirmBookingPayment(env))
		api.POST("/bookings/:reference/cancel", handlers.CancelBooking(env))

		api.GET("/tickets/:number/e-ticket", handlers.ETicketPDF(env))
	}

	staff := api.Group("")
	staff.Use(middleware.Auth(env.JWTSecret))
	{
		staff.POST("/bookings/:reference/refund", handlers.RefundBooking(env))
		staff.POST("/bookings/:reference/change", handlers.ChangeBooking(env))

		staff.POST("/tickets/:number/check-in", handlers.CheckInTicket)
		staff.POST("/tickets/:number/board", handlers.BoardTicket)

		staff.GET("/trips/:id/manifest", handlers.TripManifest)
		staff.GET("/trips/:id/manifest.pdf", handlers.ManifestPDF(env))
		staff.GET("/trips/:id/crew", handlers.VesselCrew)

		ops := staff.Group("")
		ops.Use(middleware.RequireRole("operator", "admin"))
		{
			ops.POST("/trips/:id/reconcile", handlers.ReconcileTrip)
			ops.PATCH("/trips/:id/status", handlers.UpdateTripStatus)
		}

		admin := staff.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/auth/register", handlers.Register)
			admin.POST("/fares", handlers.CreateFareRule)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}
