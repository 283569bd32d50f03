package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

// publicMethods are reachable without a token.
var publicMethods = map[string]struct{}{
	fullMethod(authServiceName, "Register"): {},
	fullMethod(authServiceName, "Login"):    {},
}

const healthPrefix = "/grpc.health.v1.Health/"

func isPublic(method string) bool {
	if _, ok := publicMethods[method]; ok {
		return true
	}
	return strings.HasPrefix(method, healthPrefix)
}

func userFromContext(ctx context.Context) (*models.User, string, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	if !ok {
		return nil, "", false
	}
	t, _ := ctx.Value(tokenKey).(string)
	return u, t, true
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if isPublic(info.FullMethod) {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	token, ok := auth.BearerToken(header)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "please authenticate")
	}

	user, err := s.sessions.Authenticate(ctx, token)
	if err != nil {
		s.logger.Debug(ctx, "authentication failed", "method", info.FullMethod, "error", err)
		return nil, status.Error(codes.Unauthenticated, "please authenticate")
	}

	ctx = context.WithValue(ctx, userKey, user)
	ctx = context.WithValue(ctx, tokenKey, token)
	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.logger.Info(ctx, "grpc request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}
