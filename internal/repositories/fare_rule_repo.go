package repositories

import (
	"database/sql"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/db"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
)

type FareRuleRepo struct {
	DB *sql.DB
}

func (r FareRuleRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ResolveForDate picks the rule in effect for a route on a date: validity
// window contains the date, most recent valid_from wins.
func (r FareRuleRepo) ResolveForDate(routeID int64, date string) (models.FareRule, error) {
	var rule models.FareRule
	var validUntil sql.NullString
	err := r.db().QueryRow(`
		SELECT id, route_id, base_fare_cents, discount_percent, valid_from, valid_until, created_at
		FROM fare_rules
		WHERE route_id = ?
		  AND valid_from <= ?
		  AND (valid_until IS NULL OR valid_until >= ?)
		ORDER BY valid_from DESC, id DESC
		LIMIT 1`, routeID, date, date).
		Scan(&rule.ID, &rule.RouteID, &rule.BaseFareCents, &rule.DiscountPercent,
			&rule.ValidFrom, &validUntil, &rule.CreatedAt)
	if err == sql.ErrNoRows {
		return rule, domain.NotFoundError{Resource: "fare rule", Err: err}
	}
	if err != nil {
		return rule, domain.InternalError{Err: err}
	}
	rule.ValidUntil = validUntil.String
	return rule, nil
}

// Insert records a new rule. Rules are never updated; a newer rule
// supersedes older ones by valid_from.
func (r FareRuleRepo) Insert(rule models.FareRule) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO fare_rules (route_id, base_fare_cents, discount_percent, valid_from, valid_until, created_at)
		VALUES (?, ?, ?, ?, ?, NOW())`,
		rule.RouteID, rule.BaseFareCents, rule.DiscountPercent, rule.ValidFrom, db.NullIfEmpty(rule.ValidUntil))
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return res.LastInsertId()
}
