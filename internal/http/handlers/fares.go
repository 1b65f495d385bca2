package handlers

import (
	"net/http"
	"time"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/http/middleware"
	"ferry-backend/internal/repositories"
	"ferry-backend/internal/services"
	"ferry-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type quoteRequest struct {
	RouteID     int64    `json:"route_id"`
	Date        string   `json:"date"`
	FareClasses []string `json:"fare_classes"`
}

// QuoteFare prices a passenger mix without creating anything. The quote
// is informational; the binding price is locked when the booking is made.
func QuoteFare(env intconfig.Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req quoteRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.RouteID <= 0 {
			respondError(c, http.StatusBadRequest, "route_id is required")
			return
		}
		date := req.Date
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}
		if len(req.FareClasses) == 0 {
			respondError(c, http.StatusBadRequest, "fare_classes is required")
			return
		}

		classes := make([]domain.FareClass, 0, len(req.FareClasses))
		for _, raw := range req.FareClasses {
			class, ok := domain.ParseFareClass(raw)
			if !ok {
				respondError(c, http.StatusBadRequest, "unknown fare class "+raw)
				return
			}
			classes = append(classes, class)
		}

		svc := services.FareService{
			DefaultFareCents:       env.DefaultFareCents,
			DefaultDiscountPercent: env.DefaultDiscountPercent,
			RequestID:              middleware.GetRequestID(c),
		}
		fare, err := svc.Resolve(req.RouteID, date)
		if err != nil {
			RespondDomainError(c, svc.RequestID, err)
			return
		}
		charges, total := services.PriceAll(classes, fare)

		lines := make([]gin.H, len(classes))
		for i, class := range classes {
			lines[i] = gin.H{
				"fare_class": string(class),
				"fare_cents": charges[i],
				"fare":       utils.FormatCents(charges[i]),
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"route_id":         req.RouteID,
			"date":             date,
			"base_fare_cents":  fare.BaseFareCents,
			"discount_percent": fare.DiscountPercent,
			"passengers":       lines,
			"total_cents":      total,
			"total":            utils.FormatCents(total),
		})
	}
}

type createFareRuleRequest struct {
	RouteID         int64  `json:"route_id"`
	BaseFareCents   int64  `json:"base_fare_cents"`
	DiscountPercent int    `json:"discount_percent"`
	ValidFrom       string `json:"valid_from"`
	ValidUntil      string `json:"valid_until"`
}

// CreateFareRule records a new rule. Rules are append-only; a newer
// valid_from supersedes older rules, existing bookings keep their locked
// totals.
func CreateFareRule(c *gin.Context) {
	var req createFareRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.RouteID <= 0 {
		respondError(c, http.StatusBadRequest, "route_id is required")
		return
	}
	if req.BaseFareCents <= 0 {
		respondError(c, http.StatusBadRequest, "base_fare_cents must be positive")
		return
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		respondError(c, http.StatusBadRequest, "discount_percent must be between 0 and 100")
		return
	}
	if _, err := time.Parse("2006-01-02", req.ValidFrom); err != nil {
		respondError(c, http.StatusBadRequest, "valid_from must be YYYY-MM-DD")
		return
	}
	if req.ValidUntil != "" {
		if _, err := time.Parse("2006-01-02", req.ValidUntil); err != nil {
			respondError(c, http.StatusBadRequest, "valid_until must be YYYY-MM-DD")
			return
		}
		if req.ValidUntil < req.ValidFrom {
			respondError(c, http.StatusBadRequest, "valid_until is before valid_from")
			return
		}
	}

	repo := repositories.FareRuleRepo{}
	id, err := repo.Insert(models.FareRule{
		RouteID:         req.RouteID,
		BaseFareCents:   req.BaseFareCents,
		DiscountPercent: req.DiscountPercent,
		ValidFrom:       req.ValidFrom,
		ValidUntil:      req.ValidUntil,
	})
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
