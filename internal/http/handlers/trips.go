package handlers

import (
	"net/http"

	"ferry-backend/internal/domain"
	"ferry-backend/internal/http/middleware"
	"ferry-backend/internal/repositories"
	"ferry-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func ListTrips(c *gin.Context) {
	repo := repositories.TripRepo{}
	trips, err := repo.List(c.Query("date"))
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}
	out := make([]gin.H, 0, len(trips))
	for _, t := range trips {
		out = append(out, tripJSON(t))
	}
	c.JSON(http.StatusOK, gin.H{"trips": out})
}

func GetTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	repo := repositories.TripRepo{}
	t, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}
	c.JSON(http.StatusOK, tripJSON(t))
}

// TripSeats reports remaining capacity per pool, the number the booking
// front-ends poll before offering seats.
func TripSeats(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	repo := repositories.TripRepo{}
	t, err := repo.GetByID(id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trip_id": t.ID,
		"status":  string(t.Status),
		"self_service": gin.H{
			"quota":     t.SelfServiceQuota,
			"booked":    t.SelfServiceBooked,
			"available": t.AvailableSeats(domain.PoolSelfService),
		},
		"staff_sold": gin.H{
			"quota":     t.StaffSoldQuota,
			"booked":    t.StaffSoldBooked,
			"available": t.AvailableSeats(domain.PoolStaffSold),
		},
	})
}

type tripStatusRequest struct {
	Status string `json:"status"`
}

// UpdateTripStatus moves a trip through its lifecycle. Arrival completes
// all boarded bookings on the trip.
func UpdateTripStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req tripStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	next, ok := domain.ParseTripStatus(req.Status)
	if !ok {
		respondError(c, http.StatusBadRequest, "unknown trip status "+req.Status)
		return
	}

	svc := services.TripService{RequestID: middleware.GetRequestID(c)}
	t, err := svc.UpdateStatus(id, next)
	if err != nil {
		RespondDomainError(c, svc.RequestID, err)
		return
	}
	c.JSON(http.StatusOK, tripJSON(t))
}

// VesselCrew lists the crew assigned to a trip's vessel, the same data
// the manifest uses for the captain anomaly flag.
func VesselCrew(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tripRepo := repositories.TripRepo{}
	trip, err := tripRepo.GetByID(id)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	crewRepo := repositories.CrewRepo{}
	crew, err := crewRepo.ListByVessel(trip.VesselID)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}

	out := make([]gin.H, 0, len(crew))
	captains := 0
	for _, m := range crew {
		if m.Role == "captain" {
			captains++
		}
		out = append(out, gin.H{"name": m.Name, "role": m.Role})
	}
	c.JSON(http.StatusOK, gin.H{
		"trip_id":           trip.ID,
		"vessel":            trip.VesselName,
		"crew":              out,
		"captain_count":     captains,
		"multiple_captains": captains > 1,
	})
}
