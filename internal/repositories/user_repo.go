package repositories

import (
	"database/sql"

	intconfig "ferry-backend/internal/config"
	"ferry-backend/internal/domain"
	"ferry-backend/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepo) GetByUsername(username string) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`
		SELECT id, username, password_hash, role, created_at
		FROM users WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, domain.NotFoundError{Resource: "user", Err: err}
	}
	if err != nil {
		return u, domain.InternalError{Err: err}
	}
	return u, nil
}

func (r UserRepo) Insert(username, passwordHash, role string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (username, password_hash, role, created_at)
		VALUES (?, ?, ?, NOW())`, username, passwordHash, role)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
