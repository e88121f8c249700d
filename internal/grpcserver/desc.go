// internal/grpcserver/desc.go
package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fully-qualified service names
const (
	TaskServiceName = "todo.v1.TaskService"
	AuthServiceName = "todo.v1.AuthService"
)

// FullMethod returns the gRPC method path, e.g. /todo.v1.TaskService/CreateTask
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// unaryMethod builds the descriptor of a unary method whose request and
// response are both google.protobuf.Struct.
func unaryMethod[T any](service, name string, call func(T, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := FullMethod(service, name)

	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(T), ctx, in)
			}

			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(T), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// TaskServiceServer is the server API for todo.v1.TaskService
type TaskServiceServer interface {
	CreateTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTasks(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompleteTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearCompleted(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var TaskServiceDesc = grpc.ServiceDesc{
	ServiceName: TaskServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(TaskServiceName, "CreateTask", TaskServiceServer.CreateTask),
		unaryMethod(TaskServiceName, "GetTask", TaskServiceServer.GetTask),
		unaryMethod(TaskServiceName, "ListTasks", TaskServiceServer.ListTasks),
		unaryMethod(TaskServiceName, "UpdateTask", TaskServiceServer.UpdateTask),
		unaryMethod(TaskServiceName, "ToggleTask", TaskServiceServer.ToggleTask),
		unaryMethod(TaskServiceName, "CompleteTask", TaskServiceServer.CompleteTask),
		unaryMethod(TaskServiceName, "DeleteTask", TaskServiceServer.DeleteTask),
		unaryMethod(TaskServiceName, "ClearCompleted", TaskServiceServer.ClearCompleted),
		unaryMethod(TaskServiceName, "GetStats", TaskServiceServer.GetStats),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "todo/v1/task.proto",
}

// AuthServiceServer is the server API for todo.v1.AuthService
type AuthServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(AuthServiceName, "Register", AuthServiceServer.Register),
		unaryMethod(AuthServiceName, "Login", AuthServiceServer.Login),
		unaryMethod(AuthServiceName, "RefreshToken", AuthServiceServer.RefreshToken),
		unaryMethod(AuthServiceName, "ListUsers", AuthServiceServer.ListUsers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "todo/v1/auth.proto",
}
