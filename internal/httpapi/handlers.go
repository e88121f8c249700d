// internal/httpapi/handlers.go
package httpapi

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/repository"
	"github.com/gurkanbulca/todo/internal/service"
	"github.com/gurkanbulca/todo/pkg/auth"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	workspace *service.Workspace
	auth      *service.AuthService
	tokens    *auth.TokenManager
	validator *middleware.ValidationInterceptor
}

func New(workspace *service.Workspace, authService *service.AuthService, tokens *auth.TokenManager, validation *middleware.ValidationConfig) *Handler {
	return &Handler{
		workspace: workspace,
		auth:      authService,
		tokens:    tokens,
		validator: middleware.NewValidationInterceptor(validation),
	}
}

// Router wires every route onto a new gin engine
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), ClientMetadata())

	router.GET("/health", h.Health)

	authGroup := router.Group("/api/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/refresh", h.Refresh)

	api := router.Group("/api", Auth(h.tokens))
	api.GET("/tasks", h.ListTasks)
	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks/stats", h.Stats)
	api.POST("/tasks/clear-completed", h.ClearCompleted)
	api.GET("/tasks/:id", h.GetTask)
	api.PATCH("/tasks/:id", h.UpdateTask)
	api.DELETE("/tasks/:id", h.DeleteTask)
	api.POST("/tasks/:id/toggle", h.ToggleTask)
	api.POST("/tasks/:id/complete", h.CompleteTask)

	api.GET("/admin/users", h.ListUsers)
	api.GET("/admin/security-events", h.SecurityEvents)

	return router
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

type taskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	Tags        []string  `json:"tags"`
	Priority    string    `json:"priority"`
	CreatedAt   string    `json:"created_at"`
}

func newTaskResponse(t models.Task) taskResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		Tags:        tags,
		Priority:    t.Priority.String(),
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid task ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps domain errors to status codes
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found"})
	case errors.Is(err, repository.ErrUserExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "username already taken"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: service.ErrInvalidCredentials.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "insufficient permissions"})
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
