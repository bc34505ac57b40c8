package dto

import (
	"github.com/mvergara-dev/project-management-api/internal/repository"
)

// DashboardStatsDTO aggregates counts across the projects the current
// user owns or belongs to.
type DashboardStatsDTO struct {
	TotalProjects  int64 `json:"total_projects"`
	ActiveProjects int64 `json:"active_projects"`
	TotalTasks     int64 `json:"total_tasks"`
	PendingTasks   int64 `json:"pending_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
}

// ToDashboardStatsDTO converts repository stats to the API projection
func ToDashboardStatsDTO(stats repository.DashboardStats) DashboardStatsDTO {
	return DashboardStatsDTO{
		TotalProjects:  stats.TotalProjects,
		ActiveProjects: stats.ActiveProjects,
		TotalTasks:     stats.TotalTasks,
		PendingTasks:   stats.PendingTasks,
		CompletedTasks: stats.CompletedTasks,
	}
}
