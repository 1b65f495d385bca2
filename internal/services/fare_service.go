package services

import (
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
	"ferry-backend/internal/repositories"
	"ferry-backend/internal/utils"

	"github.com/shopspring/decimal"
)

// FareService resolves the fare rule in effect and prices passengers
// against it. Pricing is pure: same inputs always yield the same cents.
type FareService struct {
	FareRules repositories.FareRuleRepo

	// Default* back fare resolution when a route has no rule in effect.
	// A zero DefaultFareCents disables the fallback entirely.
	DefaultFareCents       int64
	DefaultDiscountPercent int

	RequestID string
}

// Resolve returns the (base fare, discount) pair in effect for the route
// on the given date. Falls back to the configured default; a missing rule
// with no default is a hard configuration error, never a silent zero.
func (s FareService) Resolve(routeID int64, date string) (models.Fare, error) {
	rule, err := s.FareRules.ResolveForDate(routeID, date)
	if err == nil {
		return models.Fare{
			BaseFareCents:   rule.BaseFareCents,
			DiscountPercent: rule.DiscountPercent,
			RuleID:          rule.ID,
		}, nil
	}
	if !domain.IsNotFound(err) {
		return models.Fare{}, err
	}
	if s.DefaultFareCents <= 0 {
		utils.LogEvent(s.RequestID, "fare", "resolve", "no fare rule and no default configured")
		return models.Fare{}, domain.ConfigurationError{Msg: "no fare rule in effect and no default fare configured"}
	}
	return models.Fare{
		BaseFareCents:   s.DefaultFareCents,
		DiscountPercent: s.DefaultDiscountPercent,
	}, nil
}

// ChargeFor prices one passenger. Adults pay the base fare exactly,
// infants ride free, every other class gets the discount with half-up
// rounding to the nearest cent. Rounding happens per passenger, never on
// the aggregate, so booking totals reproduce exactly.
func ChargeFor(class domain.FareClass, baseFareCents int64, discountPercent int) int64 {
	switch class {
	case domain.FareAdult:
		return baseFareCents
	case domain.FareInfant:
		return 0
	}
	charge := decimal.NewFromInt(baseFareCents).
		Mul(decimal.NewFromInt(int64(100 - discountPercent))).
		Div(decimal.NewFromInt(100)).
		Round(0)
	return charge.IntPart()
}

// PriceAll prices a passenger mix and returns per-passenger charges plus
// their sum. The sum of the independently rounded charges is the locked
// booking total.
func PriceAll(classes []domain.FareClass, fare models.Fare) ([]int64, int64) {
	charges := make([]int64, len(classes))
	var total int64
	for i, class := range classes {
		charges[i] = ChargeFor(class, fare.BaseFareCents, fare.DiscountPercent)
		total += charges[i]
	}
	return charges, total
}
