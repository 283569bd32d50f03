package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestIsPublic(t *testing.T) {
	assert.True(t, isPublic(fullMethod(authServiceName, "Register")))
	assert.True(t, isPublic(fullMethod(authServiceName, "Login")))
	assert.True(t, isPublic("/grpc.health.v1.Health/Check"))
	assert.False(t, isPublic(fullMethod(authServiceName, "Logout")))
	assert.False(t, isPublic(fullMethod(taskServiceName, "ListTasks")))
}

func TestAccessTokenInterceptor_RejectsMissingOrMalformedHeader(t *testing.T) {
	srv, _ := newTestServer(t, "bufnet")
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod(taskServiceName, "ListTasks")}

	cases := map[string]context.Context{
		"no metadata":   context.Background(),
		"empty header":  metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "")),
		"wrong scheme":  metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Basic abc")),
		"garbage token": metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer nope")),
	}

	for name, ctx := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			_, err := srv.accessTokenInterceptor(ctx, nil, info, func(context.Context, any) (any, error) {
				called = true
				return nil, nil
			})
			assert.False(t, called)
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
			assert.Equal(t, "please authenticate", status.Convert(err).Message())
		})
	}
}

func TestAccessTokenInterceptor_PublicMethodSkipsCheck(t *testing.T) {
	srv, _ := newTestServer(t, "bufnet")
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod(authServiceName, "Login")}

	resp, err := srv.accessTokenInterceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestCaller_WithoutUser(t *testing.T) {
	srv, _ := newTestServer(t, "bufnet")

	_, _, err := srv.caller(context.Background())
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := context.WithValue(context.Background(), userKey, &models.User{ID: "u1"})
	ctx = context.WithValue(ctx, tokenKey, "tok")
	user, token, err := srv.caller(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "tok", token)
}

func TestToStatus(t *testing.T) {
	srv, _ := newTestServer(t, "bufnet")

	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{name: "validation", err: common.NewValidationError("email", "invalid"), code: codes.InvalidArgument, msg: "validation error: email: invalid"},
		{name: "bad credentials", err: common.ErrBadCredentials, code: codes.Unauthenticated, msg: "unable to login"},
		{name: "invalid token", err: common.ErrInvalidToken, code: codes.Unauthenticated, msg: "please authenticate"},
		{name: "not found", err: fmt.Errorf("get task: %w", common.ErrorNotFound), code: codes.NotFound, msg: "not found"},
		{name: "conflict", err: common.ErrorConflict, code: codes.AlreadyExists, msg: "email is already registered"},
		{name: "internal", err: errors.New("connection reset"), code: codes.Internal, msg: "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := srv.toStatus(context.Background(), tt.err)
			assert.Equal(t, tt.code, status.Code(err))
			assert.Equal(t, tt.msg, status.Convert(err).Message())
		})
	}
}
