// internal/middleware/auth.go
package middleware

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/gurkanbulca/todo/internal/models"
	"github.com/gurkanbulca/todo/pkg/auth"
)

// AuthInterceptor provides authentication middleware
type AuthInterceptor struct {
	tokenManager  *auth.TokenManager
	publicMethods map[string]bool
	adminMethods  map[string]bool
}

// NewAuthInterceptor creates a new auth interceptor
func NewAuthInterceptor(tokenManager *auth.TokenManager) *AuthInterceptor {
	// Define which methods don't require authentication
	publicMethods := map[string]bool{
		"/todo.v1.AuthService/Register":     true,
		"/todo.v1.AuthService/Login":        true,
		"/todo.v1.AuthService/RefreshToken": true,
		"/grpc.health.v1.Health/Check":      true,
		"/grpc.health.v1.Health/Watch":      true,
	}

	adminMethods := map[string]bool{
		"/todo.v1.AuthService/ListUsers": true,
	}

	return &AuthInterceptor{
		tokenManager:  tokenManager,
		publicMethods: publicMethods,
		adminMethods:  adminMethods,
	}
}

// Unary returns a unary server interceptor for authentication
func (a *AuthInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		// Check if method requires authentication
		if a.publicMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		// Extract and validate token
		newCtx, err := a.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		if err := a.authorize(newCtx, info.FullMethod); err != nil {
			return nil, err
		}

		return handler(newCtx, req)
	}
}

// Stream returns a stream server interceptor for authentication
func (a *AuthInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		stream grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		// Check if method requires authentication
		if a.publicMethods[info.FullMethod] {
			return handler(srv, stream)
		}

		// Extract and validate token
		newCtx, err := a.authenticate(stream.Context())
		if err != nil {
			return err
		}
		if err := a.authorize(newCtx, info.FullMethod); err != nil {
			return err
		}

		// Wrap the stream with authenticated context
		return handler(srv, &enrichedServerStream{
			ServerStream: stream,
			ctx:          newCtx,
		})
	}
}

// authenticate extracts and validates the JWT token from metadata
func (a *AuthInterceptor) authenticate(ctx context.Context) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}

	// Extract authorization header
	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}

	// Extract token from header
	token, err := auth.ExtractTokenFromHeader(authHeaders[0])
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	// Validate token
	claims, err := a.tokenManager.ValidateAccessToken(token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	// Add user information to context
	return WithIdentity(ctx, claims.UserID, claims.Username, claims.Role), nil
}

// authorize rejects non-admin callers of admin-only methods
func (a *AuthInterceptor) authorize(ctx context.Context, method string) error {
	if !a.adminMethods[method] {
		return nil
	}
	if role, _ := GetUserRoleFromContext(ctx); role != models.RoleAdmin {
		return status.Error(codes.PermissionDenied, "insufficient permissions")
	}
	return nil
}
