package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"google.golang.org/grpc"
)

const (
	authServiceName = "gophtasks.AuthService"
	taskServiceName = "gophtasks.TaskService"
)

// AuthServiceServer is the account service.
type AuthServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	LogoutAll(context.Context, *Empty) (*Empty, error)
}

// TaskServiceServer is the task service.
type TaskServiceServer interface {
	CreateTask(context.Context, *CreateTaskRequest) (*models.Task, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	GetTask(context.Context, *TaskRequest) (*models.Task, error)
	UpdateTask(context.Context, *UpdateTaskRequest) (*models.Task, error)
	DeleteTask(context.Context, *TaskRequest) (*models.Task, error)
}

func fullMethod(service, method string) string {
	return "/" + service + "/" + method
}

// unary builds a MethodDesc that decodes Req and runs call through the
// server's interceptor chain.
func unary[S any, Req any, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(service, method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: authServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(authServiceName, "Register", AuthServiceServer.Register),
		unary(authServiceName, "Login", AuthServiceServer.Login),
		unary(authServiceName, "Logout", AuthServiceServer.Logout),
		unary(authServiceName, "LogoutAll", AuthServiceServer.LogoutAll),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophtasks",
}

var taskServiceDesc = grpc.ServiceDesc{
	ServiceName: taskServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(taskServiceName, "CreateTask", TaskServiceServer.CreateTask),
		unary(taskServiceName, "ListTasks", TaskServiceServer.ListTasks),
		unary(taskServiceName, "GetTask", TaskServiceServer.GetTask),
		unary(taskServiceName, "UpdateTask", TaskServiceServer.UpdateTask),
		unary(taskServiceName, "DeleteTask", TaskServiceServer.DeleteTask),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gophtasks",
}
