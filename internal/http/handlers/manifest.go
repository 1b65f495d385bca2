package handlers

import (
	"net/http"

	"ferry-backend/internal/http/middleware"
	"ferry-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func newManifestService(c *gin.Context) services.ManifestService {
	rid := middleware.GetRequestID(c)
	return services.ManifestService{
		Ledger:    &services.LedgerService{RequestID: rid},
		RequestID: rid,
	}
}

// TripManifest returns the compiled roster for a trip.
func TripManifest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	svc := newManifestService(c)
	m, err := svc.Compile(id)
	if err != nil {
		RespondDomainError(c, svc.RequestID, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ReconcileTrip shrinks the staff-sold counter to the named walk-in
// count. Idempotent: a second call finds nothing unnamed and reports
// applied=false.
func ReconcileTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	svc := newManifestService(c)
	m, applied, err := svc.Reconcile(id)
	if err != nil {
		RespondDomainError(c, svc.RequestID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "manifest": m})
}
