package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/constants"
	apierrors "github.com/mvergara-dev/project-management-api/internal/errors"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/repository"
	"github.com/mvergara-dev/project-management-api/internal/services"
	"gorm.io/gorm"
)

// AuthenticatedUser is the principal stored in the request context.
type AuthenticatedUser struct {
	ID    uuid.UUID       `json:"id"`
	Email string          `json:"email"`
	Name  string          `json:"name"`
	Role  models.UserRole `json:"role"`
}

// RequireAuth validates the bearer token and loads the principal. A token
// remains usable until its natural expiry; there is no revocation list.
func RequireAuth(authService *services.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "Authorization token is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apierrors.Unauthorized(c, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		claims, ok := authService.ValidateToken(parts[1])
		if !ok {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			apierrors.Unauthorized(c, "Invalid token subject")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.Unauthorized(c, "User not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, AuthenticatedUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.FullName(),
			Role:  user.Role,
		})
		c.Next()
	}
}

// RequireRoles rejects requests whose principal holds none of the given roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetCurrentUser retrieves the authenticated principal from context.
func GetCurrentUser(c *gin.Context) (AuthenticatedUser, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return AuthenticatedUser{}, false
	}

	principal, ok := value.(AuthenticatedUser)
	return principal, ok
}
