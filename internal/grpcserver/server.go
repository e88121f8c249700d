// internal/grpcserver/server.go
package grpcserver

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/gurkanbulca/todo/internal/middleware"
	"github.com/gurkanbulca/todo/internal/service"
	"github.com/gurkanbulca/todo/pkg/auth"
)

type Options struct {
	Workspace    *service.Workspace
	Auth         *service.AuthService
	TokenManager *auth.TokenManager
	Validation   *middleware.ValidationConfig
}

// NewServer assembles the gRPC server with the interceptor chain, both
// services and the health service.
func NewServer(opts Options, extra ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	metadataExtractor := middleware.NewMetadataExtractorInterceptor()
	validationInterceptor := middleware.NewValidationInterceptor(opts.Validation)
	authInterceptor := middleware.NewAuthInterceptor(opts.TokenManager)

	serverOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			metadataExtractor.Unary(),
			validationInterceptor.Unary(),
			authInterceptor.Unary(),
			middleware.LoggingInterceptor,
		),
		grpc.ChainStreamInterceptor(
			metadataExtractor.Stream(),
			validationInterceptor.Stream(),
			authInterceptor.Stream(),
		),
	}, extra...)

	grpcServer := grpc.NewServer(serverOpts...)

	grpcServer.RegisterService(&TaskServiceDesc, NewTaskServer(opts.Workspace))
	grpcServer.RegisterService(&AuthServiceDesc, NewAuthServer(opts.Auth))

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(TaskServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(AuthServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	return grpcServer, healthServer
}
