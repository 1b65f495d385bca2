package handlers

import (
	"net/http"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/http/middleware"
	"ferry-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func newBookingService(c *gin.Context, env intconfig.Env) services.BookingService {
	rid := middleware.GetRequestID(c)
	return services.BookingService{
		Fares: services.FareService{
			DefaultFareCents:       env.DefaultFareCents,
			DefaultDiscountPercent: env.DefaultDiscountPercent,
			RequestID:              rid,
		},
		Ledger:    &services.LedgerService{RequestID: rid},
		MinLead:   env.MinBookingLead,
		RequestID: rid,
	}
}

// CreateBooking handles both online self-service bookings and staff
// walk-in sales; the pool in the request decides which counter is used.
func CreateBooking(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateBookingInput
		if !bindJSON(c, &in) {
			return
		}
		in.CreatedBy = middleware.GetUserID(c)

		svc := newBookingService(c, env)
		booking, err := svc.Create(in)
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}

		b, tickets, err := svc.Get(booking.Reference)
		if err != nil {
			// The booking committed; return what we have.
			c.JSON(http.StatusCreated, bookingJSON(booking, nil))
			return
		}
		c.JSON(http.StatusCreated, bookingJSON(b, tickets))
	}
}

func GetBooking(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc := newBookingService(c, env)
		b, tickets, err := svc.Get(c.Param("reference"))
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}
		c.JSON(http.StatusOK, bookingJSON(b, tickets))
	}
}

// ConfirmBookingPayment is the callback surface for the external payment
// verifier: it flips a pending booking to confirmed.
func ConfirmBookingPayment(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc := newBookingService(c, env)
		b, err := svc.ConfirmPayment(c.Param("reference"))
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}
		c.JSON(http.StatusOK, bookingJSON(b, nil))
	}
}

func CancelBooking(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc := newBookingService(c, env)
		b, err := svc.Cancel(c.Param("reference"))
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}
		c.JSON(http.StatusOK, bookingJSON(b, nil))
	}
}

type changeRequest struct {
	TripID int64 `json:"trip_id"`
}

// ChangeBooking rebooks a confirmed party onto another trip. The old
// booking ends up in changed status and the reply carries the new one.
func ChangeBooking(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changeRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.TripID <= 0 {
			respondError(c, http.StatusBadRequest, "trip_id is required")
			return
		}
		svc := newBookingService(c, env)
		b, err := svc.Change(c.Param("reference"), req.TripID)
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}
		c.JSON(http.StatusOK, bookingJSON(b, nil))
	}
}

type refundRequest struct {
	Reason string `json:"reason"`
}

func RefundBooking(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req refundRequest
		if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
			return
		}
		svc := newBookingService(c, env)
		b, err := svc.Refund(c.Param("reference"), req.Reason)
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}
		c.JSON(http.StatusOK, bookingJSON(b, nil))
	}
}
