package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/dto"
	apierrors "github.com/mvergara-dev/project-management-api/internal/errors"
	"github.com/mvergara-dev/project-management-api/internal/middleware"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns all projects, newest first
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects()
	if err != nil {
		apierrors.InternalError(c, "Failed to list projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectSummaryDTOs(projects)})
}

// MyProjects returns projects the current user owns, belongs to, or has an
// assigned task in
func (h *ProjectHandler) MyProjects(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjectsForUser(principal.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to list projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectSummaryDTOs(projects)})
}

// GetProject returns a project with its members and tasks
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to load project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project))
}

// CreateProject creates a project. New projects always start in Planning; a
// client-supplied status is ignored.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name        string                 `json:"name" binding:"required,min=3,max=200"`
		Description string                 `json:"description" binding:"max=1000"`
		StartDate   time.Time              `json:"start_date" binding:"required"`
		EndDate     *time.Time             `json:"end_date"`
		Priority    models.ProjectPriority `json:"priority"`
		OwnerID     *uuid.UUID             `json:"owner_id"`
		MemberIDs   []uuid.UUID            `json:"member_ids"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Priority:    req.Priority,
		OwnerID:     req.OwnerID,
		MemberIDs:   req.MemberIDs,
	}, principal.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEndBeforeStart):
			apierrors.BadRequest(c, "End date cannot be before start date")
		case errors.Is(err, services.ErrInvalidPriority):
			apierrors.BadRequest(c, "Invalid priority")
		case errors.Is(err, services.ErrOwnerNotFound):
			apierrors.BadRequest(c, "Owner does not exist")
		case errors.Is(err, services.ErrMemberNotFound):
			apierrors.BadRequest(c, "One or more members do not exist")
		default:
			apierrors.InternalError(c, "Failed to create project")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDetailDTO(*project))
}

// UpdateProject patches the supplied fields. An explicit null end_date clears
// the end date; an absent field leaves it untouched.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string                 `json:"name" binding:"omitempty,min=3,max=200"`
		Description *string                 `json:"description" binding:"omitempty,max=1000"`
		StartDate   *time.Time              `json:"start_date"`
		EndDate     *time.Time              `json:"end_date"`
		Status      *models.ProjectStatus   `json:"status"`
		Priority    *models.ProjectPriority `json:"priority"`
		OwnerID     *uuid.UUID              `json:"owner_id"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ClearEnd:    fieldIsNull(c, "end_date"),
		Status:      req.Status,
		Priority:    req.Priority,
		OwnerID:     req.OwnerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrEndBeforeStart):
			apierrors.BadRequest(c, "End date cannot be before start date")
		case errors.Is(err, services.ErrInvalidStatus):
			apierrors.BadRequest(c, "Invalid status")
		case errors.Is(err, services.ErrInvalidPriority):
			apierrors.BadRequest(c, "Invalid priority")
		case errors.Is(err, services.ErrOwnerNotFound):
			apierrors.BadRequest(c, "Owner does not exist")
		default:
			apierrors.InternalError(c, "Failed to update project")
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*project))
}

// DeleteProject removes a project with its tasks, comments and memberships.
// Restricted to Admin and ProjectManager on the route.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(id); err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

// fieldIsNull reports whether the JSON body carries an explicit null for the
// named field. It relies on the body already being cached by
// ShouldBindBodyWith.
func fieldIsNull(c *gin.Context, field string) bool {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		return false
	}
	v, ok := raw[field]
	return ok && string(v) == "null"
}
