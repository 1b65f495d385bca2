package handlers

import (
	"net/http"
	"strconv"

	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func bookingJSON(b models.Booking, tickets []models.Ticket) gin.H {
	passengers := make([]gin.H, 0, len(b.Passengers))
	for _, p := range b.Passengers {
		passengers = append(passengers, gin.H{
			"index":      p.Index,
			"full_name":  p.FullName,
			"fare_class": string(p.FareClass),
			"fare_cents": p.FareCents,
			"fare":       utils.FormatCents(p.FareCents),
		})
	}
	out := gin.H{
		"reference":          b.Reference,
		"trip_id":            b.TripID,
		"pool":               string(b.Pool),
		"contact_name":       b.ContactName,
		"contact_phone":      b.ContactPhone,
		"passenger_count":    b.PassengerCount,
		"total_amount_cents": b.TotalAmountCents,
		"total_amount":       utils.FormatCents(b.TotalAmountCents),
		"status":             string(b.Status),
		"passengers":         passengers,
	}
	if b.RefundReason != "" {
		out["refund_reason"] = b.RefundReason
	}
	if tickets != nil {
		out["tickets"] = ticketsJSON(tickets)
	}
	return out
}

func ticketJSON(t models.Ticket) gin.H {
	out := gin.H{
		"ticket_number":   t.TicketNumber,
		"passenger_index": t.PassengerIndex,
		"status":          string(t.Status),
	}
	if t.CheckedInAt != nil {
		out["checked_in_at"] = t.CheckedInAt.Format("2006-01-02 15:04:05")
	}
	if t.BoardedAt != nil {
		out["boarded_at"] = t.BoardedAt.Format("2006-01-02 15:04:05")
	}
	return out
}

func ticketsJSON(tickets []models.Ticket) []gin.H {
	out := make([]gin.H, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketJSON(t))
	}
	return out
}

func tripJSON(t models.Trip) gin.H {
	return gin.H{
		"id":                  t.ID,
		"trip_date":           t.TripDate,
		"trip_time":           t.TripTime,
		"vessel":              t.VesselName,
		"route":               gin.H{"origin": t.RouteOrigin, "destination": t.RouteDestination},
		"status":              string(t.Status),
		"self_service_quota":  t.SelfServiceQuota,
		"self_service_booked": t.SelfServiceBooked,
		"staff_sold_quota":    t.StaffSoldQuota,
		"staff_sold_booked":   t.StaffSoldBooked,
	}
}
