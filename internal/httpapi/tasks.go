// internal/httpapi/tasks.go
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/service"
)

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Priority    string   `json:"priority"`
}

// updateTaskRequest uses pointers so omitted fields keep their values.
// "tags": [] clears the tags.
type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	Priority    *string   `json:"priority"`
}

type listResponse struct {
	Tasks      []taskResponse `json:"tasks"`
	TotalCount int            `json:"total_count"`
}

func (h *Handler) manager(c *gin.Context) (*service.Manager, bool) {
	owner, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	m, err := h.workspace.Manager(c.Request.Context(), owner)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return m, true
}

func (h *Handler) ListTasks(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}

	status, err := models.ParseStatusFilter(c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}

	tasks := m.ListFiltered(service.ListFilter{
		Tag:    c.Query("tag"),
		Status: status,
	})

	results := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		results = append(results, newTaskResponse(t))
	}
	c.JSON(http.StatusOK, listResponse{Tasks: results, TotalCount: len(results)})
}

func (h *Handler) CreateTask(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}

	request := &createTaskRequest{}
	if err := c.ShouldBindJSON(request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	fields := middleware.TaskFields{
		Title:       &request.Title,
		Description: &request.Description,
		Tags:        request.Tags,
	}
	if request.Priority != "" {
		fields.Priority = &request.Priority
	}
	if err := h.validator.ValidateTaskFields(fields); err != nil {
		writeError(c, err)
		return
	}

	input := service.NewTaskInput{
		Title:       request.Title,
		Description: request.Description,
		Tags:        request.Tags,
	}
	if request.Priority != "" {
		// already validated above
		input.Priority, _ = models.ParsePriority(request.Priority)
	}

	task, err := m.Add(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *Handler) GetTask(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := m.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *Handler) UpdateTask(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	request := &updateTaskRequest{}
	if err := c.ShouldBindJSON(request); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	fields := middleware.TaskFields{
		Title:       request.Title,
		Description: request.Description,
		Priority:    request.Priority,
	}
	update := models.TaskUpdate{
		Title:       request.Title,
		Description: request.Description,
	}
	if request.Tags != nil {
		update.Tags = append([]string{}, *request.Tags...)
		fields.Tags = update.Tags
	}
	if err := h.validator.ValidateTaskFields(fields); err != nil {
		writeError(c, err)
		return
	}
	if request.Priority != nil {
		p, _ := models.ParsePriority(*request.Priority)
		update.Priority = &p
	}
	if update.IsEmpty() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no fields to update"})
		return
	}

	task, err := m.Update(c.Request.Context(), id, update)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *Handler) ToggleTask(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := m.Toggle(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *Handler) CompleteTask(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, changed, err := m.Complete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": newTaskResponse(task), "changed": changed})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	removed, err := m.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "task not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ClearCompleted(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}

	n, err := m.ClearCompleted(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": n})
}

func (h *Handler) Stats(c *gin.Context) {
	m, ok := h.manager(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.Stats())
}
