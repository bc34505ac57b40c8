package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/mvergara-dev/project-management-api/internal/dto"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/services"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler_Stats_ScopedToUser(t *testing.T) {
	env := setupTestEnv(t)
	owner, ownerToken := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	stranger, strangerToken := env.createUser(t, "stranger@example.com", models.RoleProjectManager)

	mine := env.createProject(t, owner.ID, "Mine")
	inProgress := models.ProjectStatusInProgress
	_, err := env.projectService.UpdateProject(mine.ID, services.UpdateProjectInput{
		Status: &inProgress,
	})
	require.NoError(t, err)

	theirs := env.createProject(t, stranger.ID, "Theirs")

	for i := 0; i < 3; i++ {
		task, err := env.taskService.CreateTask(services.CreateTaskInput{
			Title:     "Mine",
			ProjectID: mine.ID,
		}, owner.ID)
		require.NoError(t, err)

		if i == 0 {
			completed := models.TaskStatusCompleted
			_, err = env.taskService.UpdateTask(task.ID, services.UpdateTaskInput{
				Status: &completed,
			})
			require.NoError(t, err)
		}
	}
	_, err = env.taskService.CreateTask(services.CreateTaskInput{
		Title:     "Theirs",
		ProjectID: theirs.ID,
	}, stranger.ID)
	require.NoError(t, err)

	w := env.doRequest(t, http.MethodGet, "/api/dashboard/stats", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats dto.DashboardStatsDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.EqualValues(t, 1, stats.TotalProjects)
	require.EqualValues(t, 1, stats.ActiveProjects)
	require.EqualValues(t, 3, stats.TotalTasks)
	require.EqualValues(t, 2, stats.PendingTasks)
	require.EqualValues(t, 1, stats.CompletedTasks)

	other := env.doRequest(t, http.MethodGet, "/api/dashboard/stats", strangerToken, nil)
	require.Equal(t, http.StatusOK, other.Code)

	var otherStats dto.DashboardStatsDTO
	require.NoError(t, json.Unmarshal(other.Body.Bytes(), &otherStats))
	require.EqualValues(t, 1, otherStats.TotalProjects)
	require.EqualValues(t, 1, otherStats.TotalTasks)
}

func TestDashboardHandler_RecentProjects_LimitAndOrder(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)

	for i := 0; i < 7; i++ {
		env.createProject(t, owner.ID, "Project")
		time.Sleep(time.Millisecond)
	}

	// Touch the oldest project so it surfaces first
	projects, err := env.projectService.ListProjectsForUser(owner.ID)
	require.NoError(t, err)
	oldest := projects[len(projects)-1]

	renamed := "Touched"
	_, err = env.projectService.UpdateProject(oldest.ID, services.UpdateProjectInput{
		Name: &renamed,
	})
	require.NoError(t, err)

	w := env.doRequest(t, http.MethodGet, "/api/dashboard/recent-projects", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Projects []dto.ProjectSummaryDTO `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Projects, 5)
	require.Equal(t, "Touched", response.Projects[0].Name)
}

func TestDashboardHandler_RecentTasks(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	project := env.createProject(t, owner.ID, "Board")

	for i := 0; i < 12; i++ {
		_, err := env.taskService.CreateTask(services.CreateTaskInput{
			Title:     "Task",
			ProjectID: project.ID,
		}, owner.ID)
		require.NoError(t, err)
	}

	w := env.doRequest(t, http.MethodGet, "/api/dashboard/recent-tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Tasks []dto.TaskDTO `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 10)
}
