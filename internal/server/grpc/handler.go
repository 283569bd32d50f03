package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status. Internal errors are
// logged and reported without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, common.ErrBadCredentials):
		return status.Error(codes.Unauthenticated, "unable to login")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "please authenticate")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, "email is already registered")
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

// caller returns the authenticated user placed by the interceptor.
func (s *GRPCServer) caller(ctx context.Context) (*models.User, string, error) {
	user, token, ok := userFromContext(ctx)
	if !ok {
		return nil, "", status.Error(codes.Unauthenticated, "please authenticate")
	}
	return user, token, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	user, token, err := s.users.Register(ctx, services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &AuthResponse{User: user.Public(), Token: token}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, token, err := s.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &AuthResponse{User: user.Public(), Token: token}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *Empty) (*Empty, error) {
	user, token, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.Logout(ctx, user, token); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) LogoutAll(ctx context.Context, _ *Empty) (*Empty, error) {
	user, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.LogoutAll(ctx, user); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &Empty{}, nil
}

func (s *GRPCServer) CreateTask(ctx context.Context, req *CreateTaskRequest) (*models.Task, error) {
	user, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.Create(ctx, user.ID, services.NewTask{Description: req.Description, Done: req.Done})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return task, nil
}

func (s *GRPCServer) ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error) {
	user, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := services.ParseListOptions(services.ListQuery{
		Done:   req.Done,
		SortBy: req.SortBy,
		Limit:  req.Limit,
		Skip:   req.Skip,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	tasks, err := s.tasks.List(ctx, user.ID, opts)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &ListTasksResponse{Tasks: tasks}, nil
}

func (s *GRPCServer) GetTask(ctx context.Context, req *TaskRequest) (*models.Task, error) {
	user, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.Get(ctx, user.ID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return task, nil
}

func (s *GRPCServer) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*models.Task, error) {
	user, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.Update(ctx, user.ID, req.ID, req.Fields)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return task, nil
}

func (s *GRPCServer) DeleteTask(ctx context.Context, req *TaskRequest) (*models.Task, error) {
	user, _, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.Delete(ctx, user.ID, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return task, nil
}
