// internal/grpcserver/convert.go
package grpcserver

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/internal/repository"
	"github.com/gurkanbulca/todo/internal/service"
)

// toStatus maps domain errors to gRPC status codes
func toStatus(err error, action string) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, models.ErrNotFound):
		return status.Error(codes.NotFound, "task not found")
	case errors.Is(err, repository.ErrUserExists):
		return status.Error(codes.AlreadyExists, "username already taken")
	case errors.Is(err, service.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrForbidden):
		return status.Error(codes.PermissionDenied, err.Error())
	default:
		return status.Errorf(codes.Internal, "failed to %s: %v", action, err)
	}
}

func taskToValue(t models.Task) map[string]interface{} {
	tags := make([]interface{}, len(t.Tags))
	for i, tag := range t.Tags {
		tags[i] = tag
	}

	return map[string]interface{}{
		"id":           t.ID.String(),
		"title":        t.Title,
		"description":  t.Description,
		"is_completed": t.IsCompleted,
		"tags":         tags,
		"priority":     t.Priority.String(),
		"created_at":   t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func tasksToValue(tasks []models.Task) []interface{} {
	out := make([]interface{}, len(tasks))
	for i, t := range tasks {
		out[i] = taskToValue(t)
	}
	return out
}

func userToValue(u *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"username":   u.Username,
		"name":       u.Name,
		"role":       u.Role,
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func statsToValue(s service.Stats) map[string]interface{} {
	return map[string]interface{}{
		"total":     s.Total,
		"completed": s.Completed,
		"pending":   s.Pending,
	}
}

// newResponse builds a Struct response. A conversion failure is an Internal error.
func newResponse(fields map[string]interface{}) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

func taskIDFromRequest(req *structpb.Struct) (uuid.UUID, error) {
	raw, ok := middleware.StringField(req, "id")
	if !ok || raw == "" {
		return uuid.Nil, status.Error(codes.InvalidArgument, "id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, "invalid task ID format")
	}
	return id, nil
}

func priorityFromRequest(req *structpb.Struct) (models.Priority, bool, error) {
	raw, ok := middleware.StringField(req, "priority")
	if !ok {
		return 0, false, nil
	}
	p, err := models.ParsePriority(raw)
	if err != nil {
		return 0, false, status.Error(codes.InvalidArgument, err.Error())
	}
	return p, true, nil
}

func updateFromRequest(req *structpb.Struct) (models.TaskUpdate, error) {
	fields, err := middleware.TaskFieldsFromStruct(req)
	if err != nil {
		return models.TaskUpdate{}, status.Error(codes.InvalidArgument, err.Error())
	}

	update := models.TaskUpdate{
		Title:       fields.Title,
		Description: fields.Description,
		Tags:        fields.Tags,
	}
	if p, ok, err := priorityFromRequest(req); err != nil {
		return models.TaskUpdate{}, err
	} else if ok {
		update.Priority = &p
	}

	if update.IsEmpty() {
		return models.TaskUpdate{}, status.Error(codes.InvalidArgument, "no fields to update")
	}
	return update, nil
}
