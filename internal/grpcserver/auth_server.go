// internal/grpcserver/auth_server.go
package grpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/internal/service"
)

type AuthServer struct {
	auth *service.AuthService
}

func NewAuthServer(auth *service.AuthService) *AuthServer {
	return &AuthServer{
		auth: auth,
	}
}

// Register creates an account
func (s *AuthServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, _ := middleware.StringField(req, "username")
	password, _ := middleware.StringField(req, "password")
	name, _ := middleware.StringField(req, "name")

	user, err := s.auth.Register(ctx, service.RegisterInput{
		Username: username,
		Password: password,
		Name:     name,
	})
	if err != nil {
		return nil, toStatus(err, "register user")
	}

	return newResponse(map[string]interface{}{"user": userToValue(user)})
}

// Login issues an access and refresh token pair
func (s *AuthServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	username, _ := middleware.StringField(req, "username")
	password, _ := middleware.StringField(req, "password")

	user, pair, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return nil, toStatus(err, "login")
	}

	return newResponse(map[string]interface{}{
		"user":          userToValue(user),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	})
}

// RefreshToken exchanges a refresh token for a new access token
func (s *AuthServer) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	refreshToken, _ := middleware.StringField(req, "refresh_token")

	accessToken, expiresIn, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, toStatus(err, "refresh token")
	}

	return newResponse(map[string]interface{}{
		"access_token": accessToken,
		"expires_in":   expiresIn,
	})
}

// ListUsers returns every account with its task counts (admin only)
func (s *AuthServer) ListUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	caller, ok := middleware.GetUsernameFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "user not authenticated")
	}

	users, err := s.auth.ListUsers(ctx, caller)
	if err != nil {
		return nil, toStatus(err, "list users")
	}

	list := make([]interface{}, len(users))
	for i, u := range users {
		list[i] = map[string]interface{}{
			"username":   u.Username,
			"name":       u.Name,
			"role":       u.Role,
			"created_at": u.CreatedAt.UTC().Format(time.RFC3339Nano),
			"tasks":      statsToValue(u.Tasks),
		}
	}
	return newResponse(map[string]interface{}{"users": list})
}
