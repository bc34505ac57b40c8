package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/services"
)

// ProjectSummaryDTO represents a project in list responses, annotated with
// derived task counters.
type ProjectSummaryDTO struct {
	ID                 uuid.UUID              `json:"id"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description"`
	Status             models.ProjectStatus   `json:"status"`
	Priority           models.ProjectPriority `json:"priority"`
	StartDate          time.Time              `json:"start_date"`
	EndDate            *time.Time             `json:"end_date"`
	Owner              *UserSummaryDTO        `json:"owner,omitempty"`
	TotalTasks         int                    `json:"total_tasks"`
	CompletedTasks     int                    `json:"completed_tasks"`
	ProgressPercentage float64                `json:"progress_percentage"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// ProjectMemberDTO represents a membership row with its user loaded.
type ProjectMemberDTO struct {
	User     UserSummaryDTO `json:"user"`
	Role     string         `json:"role"`
	JoinedAt time.Time      `json:"joined_at"`
}

// ProjectDetailDTO is the full project projection: owner, members and task
// summaries, plus the derived counters.
type ProjectDetailDTO struct {
	ID                 uuid.UUID              `json:"id"`
	Name               string                 `json:"name"`
	Description        string                 `json:"description"`
	Status             models.ProjectStatus   `json:"status"`
	Priority           models.ProjectPriority `json:"priority"`
	StartDate          time.Time              `json:"start_date"`
	EndDate            *time.Time             `json:"end_date"`
	Owner              *UserSummaryDTO        `json:"owner,omitempty"`
	OwnerID            uuid.UUID              `json:"owner_id"`
	Members            []ProjectMemberDTO     `json:"members"`
	Tasks              []TaskSummaryDTO       `json:"tasks"`
	TotalTasks         int                    `json:"total_tasks"`
	CompletedTasks     int                    `json:"completed_tasks"`
	ProgressPercentage float64                `json:"progress_percentage"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// ToProjectSummaryDTO converts a Project model (with tasks loaded) to
// ProjectSummaryDTO
func ToProjectSummaryDTO(project models.Project) ProjectSummaryDTO {
	progress := services.Progress(project.Tasks)

	dto := ProjectSummaryDTO{
		ID:                 project.ID,
		Name:               project.Name,
		Description:        project.Description,
		Status:             project.Status,
		Priority:           project.Priority,
		StartDate:          project.StartDate,
		EndDate:            project.EndDate,
		TotalTasks:         progress.TotalTasks,
		CompletedTasks:     progress.CompletedTasks,
		ProgressPercentage: progress.ProgressPercentage,
		CreatedAt:          project.CreatedAt,
		UpdatedAt:          project.UpdatedAt,
	}

	// Include owner if preloaded
	if project.Owner.ID != uuid.Nil {
		owner := ToUserSummaryDTO(project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToProjectSummaryDTOs converts a slice of projects.
func ToProjectSummaryDTOs(projects []models.Project) []ProjectSummaryDTO {
	out := make([]ProjectSummaryDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectSummaryDTO(p)
	}
	return out
}

// ToProjectDetailDTO converts a Project model (with owner, members and tasks
// loaded) to ProjectDetailDTO
func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	progress := services.Progress(project.Tasks)

	dto := ProjectDetailDTO{
		ID:                 project.ID,
		Name:               project.Name,
		Description:        project.Description,
		Status:             project.Status,
		Priority:           project.Priority,
		StartDate:          project.StartDate,
		EndDate:            project.EndDate,
		OwnerID:            project.OwnerID,
		Members:            make([]ProjectMemberDTO, 0, len(project.Members)),
		Tasks:              make([]TaskSummaryDTO, 0, len(project.Tasks)),
		TotalTasks:         progress.TotalTasks,
		CompletedTasks:     progress.CompletedTasks,
		ProgressPercentage: progress.ProgressPercentage,
		CreatedAt:          project.CreatedAt,
		UpdatedAt:          project.UpdatedAt,
	}

	if project.Owner.ID != uuid.Nil {
		owner := ToUserSummaryDTO(project.Owner)
		dto.Owner = &owner
	}

	for _, m := range project.Members {
		dto.Members = append(dto.Members, ProjectMemberDTO{
			User:     ToUserSummaryDTO(m.User),
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}

	for _, t := range project.Tasks {
		dto.Tasks = append(dto.Tasks, ToTaskSummaryDTO(t))
	}

	return dto
}
