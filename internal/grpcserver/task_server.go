// internal/grpcserver/task_server.go
package grpcserver

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/service"
)

// TaskServer serves the caller's own task collection
type TaskServer struct {
	workspace *service.Workspace
}

func NewTaskServer(workspace *service.Workspace) *TaskServer {
	return &TaskServer{
		workspace: workspace,
	}
}

func (s *TaskServer) manager(ctx context.Context) (*service.Manager, error) {
	owner, ok := middleware.GetUsernameFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}
	m, err := s.workspace.Manager(ctx, owner)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to open tasks: %v", err)
	}
	return m, nil
}

// CreateTask creates a new task
func (s *TaskServer) CreateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}

	fields, err := middleware.TaskFieldsFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	priority, _, err := priorityFromRequest(req)
	if err != nil {
		return nil, err
	}

	input := service.NewTaskInput{
		Tags:     fields.Tags,
		Priority: priority,
	}
	if fields.Title != nil {
		input.Title = *fields.Title
	}
	if fields.Description != nil {
		input.Description = *fields.Description
	}

	task, err := m.Add(ctx, input)
	if err != nil {
		return nil, toStatus(err, "create task")
	}

	return newResponse(map[string]interface{}{"task": taskToValue(task)})
}

// GetTask retrieves a task by ID
func (s *TaskServer) GetTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}
	id, err := taskIDFromRequest(req)
	if err != nil {
		return nil, err
	}

	task, err := m.Get(id)
	if err != nil {
		return nil, toStatus(err, "get task")
	}

	return newResponse(map[string]interface{}{"task": taskToValue(task)})
}

// ListTasks lists tasks sorted by priority then newest first
func (s *TaskServer) ListTasks(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}

	filter := service.ListFilter{}
	filter.Tag, _ = middleware.StringField(req, "tag")
	statusName, _ := middleware.StringField(req, "status")
	if filter.Status, err = models.ParseStatusFilter(statusName); err != nil {
		return nil, toStatus(err, "list tasks")
	}

	tasks := m.ListFiltered(filter)
	return newResponse(map[string]interface{}{
		"tasks":       tasksToValue(tasks),
		"total_count": len(tasks),
	})
}

// UpdateTask replaces the supplied fields of a task
func (s *TaskServer) UpdateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}
	id, err := taskIDFromRequest(req)
	if err != nil {
		return nil, err
	}
	update, err := updateFromRequest(req)
	if err != nil {
		return nil, err
	}

	task, err := m.Update(ctx, id, update)
	if err != nil {
		return nil, toStatus(err, "update task")
	}

	return newResponse(map[string]interface{}{"task": taskToValue(task)})
}

// ToggleTask flips the completion state of a task
func (s *TaskServer) ToggleTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}
	id, err := taskIDFromRequest(req)
	if err != nil {
		return nil, err
	}

	task, err := m.Toggle(ctx, id)
	if err != nil {
		return nil, toStatus(err, "toggle task")
	}

	return newResponse(map[string]interface{}{"task": taskToValue(task)})
}

// CompleteTask marks a task as done; changed is false when it already was
func (s *TaskServer) CompleteTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}
	id, err := taskIDFromRequest(req)
	if err != nil {
		return nil, err
	}

	task, changed, err := m.Complete(ctx, id)
	if err != nil {
		return nil, toStatus(err, "complete task")
	}

	return newResponse(map[string]interface{}{
		"task":    taskToValue(task),
		"changed": changed,
	})
}

// DeleteTask deletes a task
func (s *TaskServer) DeleteTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}
	id, err := taskIDFromRequest(req)
	if err != nil {
		return nil, err
	}

	removed, err := m.Delete(ctx, id)
	if err != nil {
		return nil, toStatus(err, "delete task")
	}
	if !removed {
		return nil, status.Error(codes.NotFound, "task not found")
	}

	return newResponse(map[string]interface{}{"deleted": true})
}

// ClearCompleted removes every completed task
func (s *TaskServer) ClearCompleted(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}

	n, err := m.ClearCompleted(ctx)
	if err != nil {
		return nil, toStatus(err, "clear completed tasks")
	}

	return newResponse(map[string]interface{}{"cleared": n})
}

// GetStats counts the caller's tasks
func (s *TaskServer) GetStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	m, err := s.manager(ctx)
	if err != nil {
		return nil, err
	}
	return newResponse(statsToValue(m.Stats()))
}
