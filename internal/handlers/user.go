package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/dto"
	apierrors "github.com/mvergara-dev/project-management-api/internal/errors"
	"github.com/mvergara-dev/project-management-api/internal/middleware"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers returns all users. Admin only, enforced on the route.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// ListActiveUsers returns active users for assignment pickers
func (h *UserHandler) ListActiveUsers(c *gin.Context) {
	users, err := h.userService.ListActiveUsers()
	if err != nil {
		apierrors.InternalError(c, "Failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserSummaryDTOs(users)})
}

// GetUser returns a single user. Users may read their own profile; any other
// profile requires the Admin role.
func (h *UserHandler) GetUser(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if id != principal.ID && principal.Role != models.RoleAdmin {
		apierrors.Forbidden(c, "")
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		apierrors.InternalError(c, "Failed to load user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateUser patches a user profile. Users may edit themselves; role and
// active-state changes require the Admin role.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if id != principal.ID && principal.Role != models.RoleAdmin {
		apierrors.Forbidden(c, "")
		return
	}

	type UpdateUserRequest struct {
		Email     *string          `json:"email" binding:"omitempty,email"`
		FirstName *string          `json:"first_name"`
		LastName  *string          `json:"last_name"`
		Role      *models.UserRole `json:"role"`
		IsActive  *bool            `json:"is_active"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	if (req.Role != nil || req.IsActive != nil) && principal.Role != models.RoleAdmin {
		apierrors.Forbidden(c, "Only administrators can change role or active state")
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrEmailTaken):
			apierrors.Duplicate(c, "Email is already registered")
		case errors.Is(err, services.ErrInvalidRole):
			apierrors.BadRequest(c, "Invalid role")
		default:
			apierrors.InternalError(c, "Failed to update user")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deactivates a user. Admin only, enforced on the route. Users who
// still own projects cannot be deactivated.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeactivateUser(id); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrUserOwnsProjects):
			apierrors.Conflict(c, "User owns projects and cannot be deactivated")
		default:
			apierrors.InternalError(c, "Failed to deactivate user")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
