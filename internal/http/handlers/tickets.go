package handlers

import (
	"net/http"

	"ferry-backend/internal/http/middleware"
	"ferry-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func newTicketService(c *gin.Context) services.TicketService {
	return services.TicketService{RequestID: middleware.GetRequestID(c)}
}

// CheckInTicket is the gate scan before boarding opens.
func CheckInTicket(c *gin.Context) {
	svc := newTicketService(c)
	t, err := svc.CheckIn(c.Param("number"))
	if err != nil {
		RespondDomainError(c, svc.RequestID, err)
		return
	}
	c.JSON(http.StatusOK, ticketJSON(t))
}

// BoardTicket is the gangway scan. A ticket that never checked in is
// rejected here, not silently advanced.
func BoardTicket(c *gin.Context) {
	svc := newTicketService(c)
	t, err := svc.Board(c.Param("number"))
	if err != nil {
		RespondDomainError(c, svc.RequestID, err)
		return
	}
	c.JSON(http.StatusOK, ticketJSON(t))
}
