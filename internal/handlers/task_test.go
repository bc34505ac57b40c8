package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mvergara-dev/project-management-api/internal/dto"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/services"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createProject(t *testing.T, ownerID uuid.UUID, name string) *models.Project {
	t.Helper()

	project, err := e.projectService.CreateProject(services.CreateProjectInput{
		Name:      name,
		StartDate: time.Now(),
	}, ownerID)
	require.NoError(t, err)
	return project
}

func TestTaskHandler_Create_ForcesPending(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	project := env.createProject(t, owner.ID, "Board")

	// A client-supplied status must be ignored on create
	payload := map[string]any{
		"title":      "First task",
		"project_id": project.ID.String(),
		"status":     "Completed",
	}

	w := env.doRequest(t, http.MethodPost, "/api/tasks", token, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.TaskStatusPending, response.Status)
	require.Equal(t, models.TaskPriorityMedium, response.Priority)
	require.NotNil(t, response.CreatedBy)
	require.Equal(t, owner.ID, response.CreatedBy.ID)
}

func TestTaskHandler_Create_FieldLengthBounds(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	project := env.createProject(t, owner.ID, "Board")

	shortTitle := env.doRequest(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":      "Go",
		"project_id": project.ID.String(),
	})
	require.Equal(t, http.StatusBadRequest, shortTitle.Code)

	longDescription := env.doRequest(t, http.MethodPost, "/api/tasks", token, map[string]any{
		"title":       "First task",
		"description": strings.Repeat("d", 1001),
		"project_id":  project.ID.String(),
	})
	require.Equal(t, http.StatusBadRequest, longDescription.Code)
}

func TestTaskHandler_Create_UnknownProject(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)

	payload := map[string]any{
		"title":      "Orphan",
		"project_id": uuid.NewString(),
	}

	w := env.doRequest(t, http.MethodPost, "/api/tasks", token, payload)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_Create_NegativeHours(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	project := env.createProject(t, owner.ID, "Board")

	payload := map[string]any{
		"title":           "Bad estimate",
		"project_id":      project.ID.String(),
		"estimated_hours": -2.5,
	}

	w := env.doRequest(t, http.MethodPost, "/api/tasks", token, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_Update_PartialPatch(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	project := env.createProject(t, owner.ID, "Board")

	due := time.Now().Add(72 * time.Hour)
	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:       "Original",
		Description: "Keep me",
		ProjectID:   project.ID,
		DueDate:     &due,
	}, owner.ID)
	require.NoError(t, err)

	w := env.doRequest(t, http.MethodPut, "/api/tasks/"+task.ID.String(), token, map[string]any{
		"status": "InProgress",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.TaskStatusInProgress, response.Status)
	require.Equal(t, "Original", response.Title)
	require.Equal(t, "Keep me", response.Description)
	require.NotNil(t, response.DueDate)
}

func TestTaskHandler_Update_ClearsAssigneeAndDueDate(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	assignee, _ := env.createUser(t, "assignee@example.com", models.RoleTeamMember)
	project := env.createProject(t, owner.ID, "Board")

	due := time.Now().Add(72 * time.Hour)
	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:        "Assigned",
		ProjectID:    project.ID,
		DueDate:      &due,
		AssignedToID: &assignee.ID,
	}, owner.ID)
	require.NoError(t, err)

	w := env.doRequest(t, http.MethodPut, "/api/tasks/"+task.ID.String(), token, map[string]any{
		"due_date":       nil,
		"assigned_to_id": nil,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Nil(t, response.DueDate)
	require.Nil(t, response.AssignedTo)
}

func TestTaskHandler_Update_InvalidStatus(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	project := env.createProject(t, owner.ID, "Board")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:     "Stuck",
		ProjectID: project.ID,
	}, owner.ID)
	require.NoError(t, err)

	w := env.doRequest(t, http.MethodPut, "/api/tasks/"+task.ID.String(), token, map[string]any{
		"status": "Done",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_List_RequiresProjectID(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)

	w := env.doRequest(t, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_List_Paginated(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	project := env.createProject(t, owner.ID, "Board")

	for i := 0; i < 5; i++ {
		_, err := env.taskService.CreateTask(services.CreateTaskInput{
			Title:     "Task",
			ProjectID: project.ID,
		}, owner.ID)
		require.NoError(t, err)
	}

	w := env.doRequest(t, http.MethodGet, "/api/tasks?project_id="+project.ID.String()+"&page=1&limit=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 2)
	require.EqualValues(t, 5, response.Pagination.Total)
	require.Equal(t, 2, response.Pagination.Limit)
}

func TestTaskHandler_MyTasks(t *testing.T) {
	env := setupTestEnv(t)
	owner, _ := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	assignee, assigneeToken := env.createUser(t, "assignee@example.com", models.RoleTeamMember)
	project := env.createProject(t, owner.ID, "Board")

	_, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:        "Mine",
		ProjectID:    project.ID,
		AssignedToID: &assignee.ID,
	}, owner.ID)
	require.NoError(t, err)

	_, err = env.taskService.CreateTask(services.CreateTaskInput{
		Title:     "Not mine",
		ProjectID: project.ID,
	}, owner.ID)
	require.NoError(t, err)

	w := env.doRequest(t, http.MethodGet, "/api/tasks/my-tasks", assigneeToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Tasks, 1)
	require.Equal(t, "Mine", response.Tasks[0].Title)
}

func TestTaskHandler_Comments(t *testing.T) {
	env := setupTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)
	project := env.createProject(t, owner.ID, "Board")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:     "Discussed",
		ProjectID: project.ID,
	}, owner.ID)
	require.NoError(t, err)

	first := env.doRequest(t, http.MethodPost, "/api/tasks/"+task.ID.String()+"/comments", token, map[string]string{
		"content": "first",
	})
	require.Equal(t, http.StatusCreated, first.Code)

	second := env.doRequest(t, http.MethodPost, "/api/tasks/"+task.ID.String()+"/comments", token, map[string]string{
		"content": "second",
	})
	require.Equal(t, http.StatusCreated, second.Code)

	var created dto.TaskCommentDTO
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &created))
	require.Equal(t, "second", created.Content)
	require.Equal(t, owner.ID, created.Author.ID)

	// Comments come back oldest first on the task detail
	w := env.doRequest(t, http.MethodGet, "/api/tasks/"+task.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Comments, 2)
	require.Equal(t, "first", response.Comments[0].Content)
	require.Equal(t, "second", response.Comments[1].Content)
}

func TestTaskHandler_Comment_UnknownTask(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", models.RoleProjectManager)

	w := env.doRequest(t, http.MethodPost, "/api/tasks/"+uuid.NewString()+"/comments", token, map[string]string{
		"content": "void",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskHandler_Delete_RoleGate(t *testing.T) {
	env := setupTestEnv(t)
	owner, managerToken := env.createUser(t, "manager@example.com", models.RoleProjectManager)
	_, memberToken := env.createUser(t, "member@example.com", models.RoleTeamMember)
	project := env.createProject(t, owner.ID, "Board")

	task, err := env.taskService.CreateTask(services.CreateTaskInput{
		Title:     "Doomed",
		ProjectID: project.ID,
	}, owner.ID)
	require.NoError(t, err)

	_, err = env.taskService.AddComment(task.ID, "going down with the ship", owner.ID)
	require.NoError(t, err)

	forbidden := env.doRequest(t, http.MethodDelete, "/api/tasks/"+task.ID.String(), memberToken, nil)
	require.Equal(t, http.StatusForbidden, forbidden.Code)

	deleted := env.doRequest(t, http.MethodDelete, "/api/tasks/"+task.ID.String(), managerToken, nil)
	require.Equal(t, http.StatusNoContent, deleted.Code)

	var commentCount int64
	require.NoError(t, env.db.Model(&models.TaskComment{}).Where("task_id = ?", task.ID).Count(&commentCount).Error)
	require.Zero(t, commentCount)

	gone := env.doRequest(t, http.MethodGet, "/api/tasks/"+task.ID.String(), managerToken, nil)
	require.Equal(t, http.StatusNotFound, gone.Code)
}
