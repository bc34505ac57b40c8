package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mvergara-dev/project-management-api/internal/dto"
	apierrors "github.com/mvergara-dev/project-management-api/internal/errors"
	"github.com/mvergara-dev/project-management-api/internal/middleware"
	"github.com/mvergara-dev/project-management-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Stats returns project and task counters scoped to the current user's
// projects
func (h *DashboardHandler) Stats(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.dashboardService.Stats(principal.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load dashboard stats")
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardStatsDTO(*stats))
}

// RecentProjects returns the most recently updated projects in scope
func (h *DashboardHandler) RecentProjects(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.dashboardService.RecentProjects(principal.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load recent projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectSummaryDTOs(projects)})
}

// RecentTasks returns the most recently updated tasks in scope
func (h *DashboardHandler) RecentTasks(c *gin.Context) {
	principal, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.dashboardService.RecentTasks(principal.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to load recent tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}
