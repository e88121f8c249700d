// internal/middleware/validation.go
package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/todo/internal/models"
)

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	MaxTitleLength       int
	MaxDescriptionLength int
	MaxTags              int
	MaxTagLength         int
	MaxUsernameLength    int
	MaxNameLength        int
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		MaxTitleLength:       200,
		MaxDescriptionLength: 5000,
		MaxTags:              20,
		MaxTagLength:         50,
		MaxUsernameLength:    50,
		MaxNameLength:        100,
	}
}

// TaskFields are the caller-supplied task attributes checked at the transport edge.
// Nil fields were not supplied.
type TaskFields struct {
	Title       *string
	Description *string
	Tags        []string
	Priority    *string
}

// ValidationInterceptor rejects malformed requests before they reach a handler
type ValidationInterceptor struct {
	config *ValidationConfig
}

// NewValidationInterceptor creates a new validation interceptor
func NewValidationInterceptor(config *ValidationConfig) *ValidationInterceptor {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &ValidationInterceptor{
		config: config,
	}
}

// Unary returns a unary server interceptor for validation
func (v *ValidationInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		// Validate request based on method
		if msg, ok := req.(*structpb.Struct); ok {
			if err := v.validateRequest(msg, info.FullMethod); err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
		}
		return handler(ctx, req)
	}
}

// Stream returns a stream server interceptor for validation. Streams carry no
// request to inspect up front, so they pass through.
func (v *ValidationInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		return handler(srv, stream)
	}
}

// validateRequest validates different request types
func (v *ValidationInterceptor) validateRequest(req *structpb.Struct, method string) error {
	switch method {
	case "/todo.v1.AuthService/Register":
		return v.validateRegister(req)
	case "/todo.v1.AuthService/Login":
		return requireStrings(req, "username", "password")
	case "/todo.v1.AuthService/RefreshToken":
		return requireStrings(req, "refresh_token")
	case "/todo.v1.TaskService/CreateTask":
		return v.validateCreateTask(req)
	case "/todo.v1.TaskService/UpdateTask":
		return v.validateUpdateTask(req)
	case "/todo.v1.TaskService/GetTask",
		"/todo.v1.TaskService/ToggleTask",
		"/todo.v1.TaskService/CompleteTask",
		"/todo.v1.TaskService/DeleteTask":
		return validateTaskID(req)
	case "/todo.v1.TaskService/ListTasks":
		if s, ok := StringField(req, "status"); ok {
			if _, err := models.ParseStatusFilter(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Auth service validations

func (v *ValidationInterceptor) validateRegister(req *structpb.Struct) error {
	var errs []string

	if err := requireStrings(req, "username", "password"); err != nil {
		errs = append(errs, err.Error())
	}
	if username, ok := StringField(req, "username"); ok && len(username) > v.config.MaxUsernameLength {
		errs = append(errs, fmt.Sprintf("username too long (max %d characters)", v.config.MaxUsernameLength))
	}
	if name, ok := StringField(req, "name"); ok && len(name) > v.config.MaxNameLength {
		errs = append(errs, fmt.Sprintf("name too long (max %d characters)", v.config.MaxNameLength))
	}

	return joinErrors(errs)
}

// Task service validations

func (v *ValidationInterceptor) validateCreateTask(req *structpb.Struct) error {
	fields, err := TaskFieldsFromStruct(req)
	if err != nil {
		return err
	}
	if fields.Title == nil {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	return v.ValidateTaskFields(fields)
}

func (v *ValidationInterceptor) validateUpdateTask(req *structpb.Struct) error {
	// ID validation
	if err := validateTaskID(req); err != nil {
		return err
	}
	fields, err := TaskFieldsFromStruct(req)
	if err != nil {
		return err
	}
	return v.ValidateTaskFields(fields)
}

// ValidateTaskFields checks the supplied fields against the configured limits.
// The returned error wraps models.ErrValidation.
func (v *ValidationInterceptor) ValidateTaskFields(f TaskFields) error {
	var errs []string

	// Title validation (if provided)
	if f.Title != nil {
		title := strings.TrimSpace(*f.Title)
		if title == "" {
			errs = append(errs, "title cannot be blank")
		} else if len(title) > v.config.MaxTitleLength {
			errs = append(errs, fmt.Sprintf("title too long (max %d characters)", v.config.MaxTitleLength))
		}
	}

	// Description validation (if provided)
	if f.Description != nil && len(*f.Description) > v.config.MaxDescriptionLength {
		errs = append(errs, fmt.Sprintf("description too long (max %d characters)", v.config.MaxDescriptionLength))
	}

	// Tags validation (if provided)
	if len(f.Tags) > v.config.MaxTags {
		errs = append(errs, fmt.Sprintf("too many tags (max %d)", v.config.MaxTags))
	}
	for _, tag := range f.Tags {
		if len(strings.TrimSpace(tag)) > v.config.MaxTagLength {
			errs = append(errs, fmt.Sprintf("tag too long (max %d characters)", v.config.MaxTagLength))
			break
		}
	}

	// Priority validation (if provided)
	if f.Priority != nil {
		if _, err := models.ParsePriority(*f.Priority); err != nil {
			errs = append(errs, fmt.Sprintf("priority must be one of LOW, MEDIUM, HIGH (got %q)", *f.Priority))
		}
	}

	return joinErrors(errs)
}

// TaskFieldsFromStruct reads title, description, tags and priority from a request
func TaskFieldsFromStruct(req *structpb.Struct) (TaskFields, error) {
	var f TaskFields
	if s, ok := StringField(req, "title"); ok {
		f.Title = &s
	}
	if s, ok := StringField(req, "description"); ok {
		f.Description = &s
	}
	if s, ok := StringField(req, "priority"); ok {
		f.Priority = &s
	}

	if value, ok := req.GetFields()["tags"]; ok {
		list := value.GetListValue()
		if list == nil {
			return f, fmt.Errorf("%w: tags must be a list of strings", models.ErrValidation)
		}
		f.Tags = make([]string, 0, len(list.GetValues()))
		for _, item := range list.GetValues() {
			tag, ok := item.GetKind().(*structpb.Value_StringValue)
			if !ok {
				return f, fmt.Errorf("%w: tags must be a list of strings", models.ErrValidation)
			}
			f.Tags = append(f.Tags, tag.StringValue)
		}
	}
	return f, nil
}

// StringField returns the string value of key when present
func StringField(req *structpb.Struct, key string) (string, bool) {
	value, ok := req.GetFields()[key]
	if !ok {
		return "", false
	}
	s, ok := value.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}
	return s.StringValue, true
}

// Helper validation functions

func requireStrings(req *structpb.Struct, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if s, ok := StringField(req, key); !ok || strings.TrimSpace(s) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", models.ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func validateTaskID(req *structpb.Struct) error {
	id, ok := StringField(req, "id")
	if !ok || id == "" {
		return fmt.Errorf("%w: task ID is required", models.ErrValidation)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid task ID format", models.ErrValidation)
	}
	return nil
}

func joinErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(errs, "; "))
}
