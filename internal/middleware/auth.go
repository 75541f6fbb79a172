package middleware

import (
	"errors"
	"net/http"
	"strings"

	"dermacare-backend/internal/models"
	"dermacare-backend/internal/repository"
	"dermacare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "userID"
	ContextUser   = "currentUser"
)

// AuthMiddleware requires "Authorization: Bearer <token>" and loads the
// token's user. Unknown or inactive users are treated like a bad token.
func AuthMiddleware(tokens *utils.TokenManager, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read the Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.APIError(c, http.StatusUnauthorized, "Authentication credentials were not provided")
			c.Abort()
			return
		}

		// 2. Expect "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.APIError(c, http.StatusUnauthorized, "Invalid authorization header")
			c.Abort()
			return
		}

		// 3. Verify the token
		userID, _, err := tokens.ParseToken(parts[1])
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "Token has expired"
			}
			utils.APIError(c, http.StatusUnauthorized, message)
			c.Abort()
			return
		}

		// 4. Load the account behind the subject
		user, err := users.FindByID(c.Request.Context(), userID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && !user.IsActive) {
			utils.APIError(c, http.StatusUnauthorized, "User not found")
			c.Abort()
			return
		}
		if err != nil {
			_ = c.Error(err)
			utils.APIError(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// DoctorOnly rejects callers whose role is not doctor.
func DoctorOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsDoctor() {
			utils.APIError(c, http.StatusForbidden, "Only doctors can access this resource")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PatientOnly rejects callers whose role is not patient.
func PatientOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsPatient() {
			utils.APIError(c, http.StatusForbidden, "Only patients can access this resource")
			c.Abort()
			return
		}
		c.Next()
	}
}
