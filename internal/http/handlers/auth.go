package handlers

import (
	"net/http"
	"strings"
	"time"

	"ferry-backend/internal/domain"
	"ferry-backend/internal/http/middleware"
	"ferry-backend/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

var staffRoles = map[string]bool{
	"staff":    true,
	"operator": true,
	"admin":    true,
}

// Login issues a signed token for pier staff and admins.
func Login(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}
		repo := repositories.UserRepo{}
		user, err := repo.GetByUsername(strings.TrimSpace(req.Username))
		if err != nil {
			if domain.IsNotFound(err) {
				respondError(c, http.StatusUnauthorized, "invalid credentials")
				return
			}
			RespondDomainError(c, middleware.GetRequestID(c), err)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			respondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": user.ID,
			"role":    user.Role,
			"exp":     time.Now().Add(12 * time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(secret))
		if err != nil {
			RespondDomainError(c, middleware.GetRequestID(c), domain.InternalError{Err: err})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":    signed,
			"username": user.Username,
			"role":     user.Role,
		})
	}
}

// Register creates a staff account. Exposed behind the admin role.
func Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		respondError(c, http.StatusBadRequest, "username is required")
		return
	}
	if len(req.Password) < 8 {
		respondError(c, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if !staffRoles[req.Role] {
		respondError(c, http.StatusBadRequest, "role must be staff, operator or admin")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondDomainError(c, middleware.GetRequestID(c), domain.InternalError{Err: err})
		return
	}

	repo := repositories.UserRepo{}
	id, err := repo.Insert(req.Username, string(hash), req.Role)
	if err != nil {
		if me, ok := err.(*mysql.MySQLError); ok && me.Number == 1062 {
			respondError(c, http.StatusConflict, "username already taken")
			return
		}
		RespondDomainError(c, middleware.GetRequestID(c), domain.InternalError{Err: err})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id, "username": req.Username, "role": req.Role})
}
