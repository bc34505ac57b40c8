package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mvergara-dev/project-management-api/internal/dto"
	apierrors "github.com/mvergara-dev/project-management-api/internal/errors"
	"github.com/mvergara-dev/project-management-api/internal/middleware"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Register creates a new account and returns a bearer token for it.
// Self-registered accounts always get the TeamMember role; elevated roles are
// granted by an administrator afterwards.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email           string `json:"email" binding:"required,email"`
		FirstName       string `json:"first_name" binding:"required"`
		LastName        string `json:"last_name" binding:"required"`
		Password        string `json:"password" binding:"required,min=6"`
		ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.userService.Register(services.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      models.RoleTeamMember,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			apierrors.Duplicate(c, "Email is already registered")
		case errors.Is(err, services.ErrPasswordTooShort):
			apierrors.BadRequest(c, "Password is too short")
		case errors.Is(err, services.ErrInvalidRole):
			apierrors.BadRequest(c, "Invalid role")
		default:
			apierrors.InternalError(c, "Failed to register user")
		}
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{
		Token: token,
		User:  dto.ToUserDTO(*user),
	})
}

// Login exchanges credentials for a bearer token
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.authService.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.RespondWithError(c, http.StatusUnauthorized,
				apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, "Invalid email or password"))
			return
		}
		apierrors.InternalError(c, "Failed to authenticate")
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		Token: token,
		User:  dto.ToUserDTO(*user),
	})
}

// Me returns the profile of the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.userService.GetUser(principal.ID)
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

// ChangePassword replaces the current password after verifying the old one.
// A wrong current password is reported as a client error, not a server one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type ChangePasswordRequest struct {
		CurrentPassword    string `json:"current_password" binding:"required"`
		NewPassword        string `json:"new_password" binding:"required,min=6"`
		ConfirmNewPassword string `json:"confirm_new_password" binding:"required,eqfield=NewPassword"`
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	changed, err := h.userService.ChangePassword(principal.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrPasswordTooShort):
			apierrors.BadRequest(c, "Password is too short")
		default:
			apierrors.InternalError(c, "Failed to change password")
		}
		return
	}
	if !changed {
		apierrors.BadRequest(c, "Current password is incorrect")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}
