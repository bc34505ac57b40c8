package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mvergara-dev/project-management-api/internal/config"
	"github.com/mvergara-dev/project-management-api/internal/database"
	"github.com/mvergara-dev/project-management-api/internal/middleware"
	"github.com/mvergara-dev/project-management-api/internal/models"
	"github.com/mvergara-dev/project-management-api/internal/repository"
	"github.com/mvergara-dev/project-management-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine

	authService    *services.AuthService
	userService    *services.UserService
	projectService *services.ProjectService
	taskService    *services.TaskService
}

// setupTestEnv builds an in-memory database and a router with the same route
// table the server uses, auth middleware included.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.TaskComment{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTIssuer:        "project-management-api",
		JWTAudience:      "project-management-api",
		JWTExpiryMinutes: 60,
	}

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, userRepo)
	dashboardService := services.NewDashboardService(dashboardRepo)

	authHandler := NewAuthHandler(authService, userService)
	userHandler := NewUserHandler(userService)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	requireAuth := middleware.RequireAuth(authService, userRepo)
	requireManager := middleware.RequireRoles(models.RoleAdmin, models.RoleProjectManager)
	requireAdmin := middleware.RequireRoles(models.RoleAdmin)

	r := gin.New()

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.POST("/change-password", requireAuth, authHandler.ChangePassword)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", requireAdmin, userHandler.ListUsers)
			users.GET("/active", userHandler.ListActiveUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", requireAdmin, userHandler.DeleteUser)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/my-projects", projectHandler.MyProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", requireManager, projectHandler.DeleteProject)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/my-tasks", taskHandler.MyTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireManager, taskHandler.DeleteTask)
			tasks.POST("/:id/comments", taskHandler.AddComment)
		}

		dashboard := api.Group("/dashboard")
		dashboard.Use(requireAuth)
		{
			dashboard.GET("/stats", dashboardHandler.Stats)
			dashboard.GET("/recent-projects", dashboardHandler.RecentProjects)
			dashboard.GET("/recent-tasks", dashboardHandler.RecentTasks)
		}
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &testEnv{
		db:             db,
		router:         r,
		authService:    authService,
		userService:    userService,
		projectService: projectService,
		taskService:    taskService,
	}
}

// createUser registers a user and returns it with a valid bearer token.
func (e *testEnv) createUser(t *testing.T, email string, role models.UserRole) (*models.User, string) {
	t.Helper()

	user, err := e.userService.Register(services.RegisterInput{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Password:  "supersecret",
		Role:      role,
	})
	require.NoError(t, err)

	token, err := e.authService.IssueToken(user)
	require.NoError(t, err)

	return user, token
}

// doRequest performs a JSON request against the test router.
func (e *testEnv) doRequest(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}
