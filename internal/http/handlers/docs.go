package handlers

import (
	"net/http"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/http/middleware"
	"ferry-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func newDocsService(c *gin.Context, env intconfig.Env) services.DocsService {
	return services.DocsService{
		Manifests: newManifestService(c),
		Bookings:  newBookingService(c, env),
		RequestID: middleware.GetRequestID(c),
	}
}

// ManifestPDF renders the printable trip manifest.
func ManifestPDF(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		svc := newDocsService(c, env)
		pdf, filename, err := svc.GenerateManifest(id)
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

// ETicketPDF renders one passenger's ticket with its gate QR code.
func ETicketPDF(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc := newDocsService(c, env)
		pdf, filename, err := svc.GenerateETicket(c.Param("number"))
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
