package repositories

import (
	"database/sql"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
)

type CrewRepo struct {
	DB *sql.DB
}

func (r CrewRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CountCaptains reports how many captains are assigned to a vessel.
// Anything above one is a data-quality anomaly the manifest surfaces.
func (r CrewRepo) CountCaptains(vesselID int64) (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM vessel_crew WHERE vessel_id = ? AND role = 'captain'`,
		vesselID).Scan(&n)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

func (r CrewRepo) ListByVessel(vesselID int64) ([]models.CrewMember, error) {
	rows, err := r.db().Query(`
		SELECT id, vessel_id, name, role FROM vessel_crew WHERE vessel_id = ? ORDER BY id`, vesselID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.CrewMember{}
	for rows.Next() {
		var m models.CrewMember
		if err := rows.Scan(&m.ID, &m.VesselID, &m.Name, &m.Role); err != nil {
			return out, domain.InternalError{Err: err}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
