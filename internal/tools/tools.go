// internal/tools/tools.go
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/service"
)

// Replies shared with the chat front-end
const (
	ReplyNotFound  = "Task not found."
	ReplyInvalidID = "Invalid Task ID format."
	ReplyNoTasks   = "No tasks found."
)

// ErrUnknownTool is returned for a tool name the set does not define
var ErrUnknownTool = errors.New("unknown tool")

// ToolSet exposes task operations as named tools with plain-text results.
// Missing tasks and malformed ids are answers, not errors.
type ToolSet struct {
	workspace *service.Workspace
}

func NewToolSet(workspace *service.Workspace) *ToolSet {
	return &ToolSet{
		workspace: workspace,
	}
}

// Call runs tool name for owner
func (ts *ToolSet) Call(ctx context.Context, owner, name string, args map[string]interface{}) (string, error) {
	m, err := ts.workspace.Manager(ctx, owner)
	if err != nil {
		return "", err
	}

	switch name {
	case "add_todo":
		return ts.addTodo(ctx, m, args)
	case "list_todos":
		return ts.listTodos(m, args)
	case "update_todo":
		return ts.updateTodo(ctx, m, args)
	case "complete_todo":
		return ts.completeTodo(ctx, m, args)
	case "toggle_todo":
		return ts.toggleTodo(ctx, m, args)
	case "delete_todo":
		return ts.deleteTodo(ctx, m, args)
	case "clear_completed":
		return ts.clearCompleted(ctx, m)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

func (ts *ToolSet) addTodo(ctx context.Context, m *service.Manager, args map[string]interface{}) (string, error) {
	title, _ := args["title"].(string)
	description, _ := args["description"].(string)

	priority, _, err := priorityArg(args)
	if err != nil {
		return "", err
	}

	task, err := m.Add(ctx, service.NewTaskInput{
		Title:       title,
		Description: description,
		Tags:        tagsArg(args),
		Priority:    priority,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully added task: %s (ID: %s)", task.Title, task.ID), nil
}

func (ts *ToolSet) listTodos(m *service.Manager, args map[string]interface{}) (string, error) {
	statusName, _ := args["status"].(string)
	status, err := models.ParseStatusFilter(statusName)
	if err != nil {
		return "", err
	}
	tag, _ := args["tag"].(string)

	tasks := m.ListFiltered(service.ListFilter{Tag: tag, Status: status})
	if len(tasks) == 0 {
		return ReplyNoTasks, nil
	}

	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		mark := "⭕"
		if t.IsCompleted {
			mark = "✅"
		}
		line := fmt.Sprintf("%s %s (%s) [ID: %s]", mark, t.Title, t.Priority, t.ID)
		if len(t.Tags) > 0 {
			line += " #" + strings.Join(t.Tags, " #")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

func (ts *ToolSet) updateTodo(ctx context.Context, m *service.Manager, args map[string]interface{}) (string, error) {
	id, ok := idArg(args)
	if !ok {
		return ReplyInvalidID, nil
	}

	var update models.TaskUpdate
	if title, ok := args["title"].(string); ok {
		update.Title = &title
	}
	if description, ok := args["description"].(string); ok {
		update.Description = &description
	}
	if _, ok := args["tags"]; ok {
		update.Tags = tagsArg(args)
	}
	priority, set, err := priorityArg(args)
	if err != nil {
		return "", err
	}
	if set {
		update.Priority = &priority
	}
	if update.IsEmpty() {
		return "Nothing to update.", nil
	}

	task, err := m.Update(ctx, id, update)
	if errors.Is(err, models.ErrNotFound) {
		return ReplyNotFound, nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated task '%s'.", task.Title), nil
}

func (ts *ToolSet) completeTodo(ctx context.Context, m *service.Manager, args map[string]interface{}) (string, error) {
	id, ok := idArg(args)
	if !ok {
		return ReplyInvalidID, nil
	}

	task, changed, err := m.Complete(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return ReplyNotFound, nil
	}
	if err != nil {
		return "", err
	}
	if !changed {
		return fmt.Sprintf("Task '%s' is already complete.", task.Title), nil
	}
	return fmt.Sprintf("Marked task '%s' as complete.", task.Title), nil
}

func (ts *ToolSet) toggleTodo(ctx context.Context, m *service.Manager, args map[string]interface{}) (string, error) {
	id, ok := idArg(args)
	if !ok {
		return ReplyInvalidID, nil
	}

	task, err := m.Toggle(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return ReplyNotFound, nil
	}
	if err != nil {
		return "", err
	}
	if task.IsCompleted {
		return fmt.Sprintf("Marked task '%s' as complete.", task.Title), nil
	}
	return fmt.Sprintf("Marked task '%s' as pending.", task.Title), nil
}

func (ts *ToolSet) deleteTodo(ctx context.Context, m *service.Manager, args map[string]interface{}) (string, error) {
	id, ok := idArg(args)
	if !ok {
		return ReplyInvalidID, nil
	}

	task, err := m.Get(id)
	if err != nil {
		return ReplyNotFound, nil
	}
	removed, err := m.Delete(ctx, id)
	if err != nil {
		return "", err
	}
	if !removed {
		return ReplyNotFound, nil
	}
	return fmt.Sprintf("Deleted task '%s'.", task.Title), nil
}

func (ts *ToolSet) clearCompleted(ctx context.Context, m *service.Manager) (string, error) {
	n, err := m.ClearCompleted(ctx)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "No completed tasks to clear.", nil
	}
	return fmt.Sprintf("Cleared %d completed task(s).", n), nil
}

func idArg(args map[string]interface{}) (uuid.UUID, bool) {
	raw, _ := args["todo_id"].(string)
	if raw == "" {
		raw, _ = args["id"].(string)
	}
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// tagsArg accepts a list of strings or a comma separated string
func tagsArg(args map[string]interface{}) []string {
	switch v := args["tags"].(type) {
	case string:
		return models.ParseTagList(v)
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				tags = append(tags, s)
			}
		}
		return models.NormalizeTags(tags)
	case []string:
		return models.NormalizeTags(v)
	default:
		return nil
	}
}

// priorityArg accepts a name (LOW, MEDIUM, HIGH) or its number (1-3)
func priorityArg(args map[string]interface{}) (models.Priority, bool, error) {
	raw, ok := args["priority"]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case string:
		p, err := models.ParsePriority(v)
		if err != nil {
			return 0, false, err
		}
		return p, true, nil
	case float64:
		p := models.Priority(int(v))
		if float64(int(v)) != v || !p.Valid() {
			return 0, false, fmt.Errorf("%w: priority must be 1, 2 or 3", models.ErrValidation)
		}
		return p, true, nil
	default:
		return 0, false, fmt.Errorf("%w: priority must be a name or a number", models.ErrValidation)
	}
}

// Definitions describes every tool for tools/list
func Definitions() []Tool {
	idProperty := map[string]interface{}{
		"type":        "string",
		"description": "ID of the task",
	}
	taskProperties := map[string]interface{}{
		"title": map[string]interface{}{
			"type":        "string",
			"description": "Short title of the task",
		},
		"description": map[string]interface{}{
			"type":        "string",
			"description": "Optional details",
		},
		"tags": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Labels used for filtering",
		},
		"priority": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"LOW", "MEDIUM", "HIGH"},
			"description": "Priority (default MEDIUM)",
		},
	}
	withID := func(props map[string]interface{}) map[string]interface{} {
		out := map[string]interface{}{"todo_id": idProperty}
		for k, v := range props {
			out[k] = v
		}
		return out
	}

	return []Tool{
		{
			Name:        "add_todo",
			Description: "Create a new task",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": taskProperties,
				"required":   []string{"title"},
			},
		},
		{
			Name:        "list_todos",
			Description: "Retrieve tasks with optional status filter (all, pending, completed) and tag",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"status": map[string]interface{}{
						"type": "string",
						"enum": []string{"all", "pending", "completed"},
					},
					"tag": map[string]interface{}{
						"type": "string",
					},
				},
			},
		},
		{
			Name:        "update_todo",
			Description: "Change the title, description, tags or priority of a task",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withID(taskProperties),
				"required":   []string{"todo_id"},
			},
		},
		{
			Name:        "complete_todo",
			Description: "Mark a task as completed",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withID(nil),
				"required":   []string{"todo_id"},
			},
		},
		{
			Name:        "toggle_todo",
			Description: "Flip a task between pending and completed",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withID(nil),
				"required":   []string{"todo_id"},
			},
		},
		{
			Name:        "delete_todo",
			Description: "Delete a task permanently",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withID(nil),
				"required":   []string{"todo_id"},
			},
		},
		{
			Name:        "clear_completed",
			Description: "Remove every completed task",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
