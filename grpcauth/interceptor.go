package grpcauth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// TokenVerifier validates a bearer token and returns the user id it was
// issued to. skroll.SessionManager.VerifyAuthToken satisfies this.
type TokenVerifier func(token string) (userID string, err error)

// InterceptorConfig configures the auth interceptor behavior.
type InterceptorConfig struct {
	// Verify validates presented tokens. Required.
	Verify TokenVerifier

	// RequireAuth when true rejects unauthenticated requests. When
	// false, requests proceed and UserIDFromContext returns "".
	RequireAuth bool

	// PublicMethods don't require auth even when RequireAuth is set.
	// Keys are full method names like "/package.Service/Method".
	PublicMethods map[string]bool
}

// NewInterceptorConfig returns a config that requires auth for all
// methods except the listed public ones.
func NewInterceptorConfig(verify TokenVerifier, publicMethods ...string) *InterceptorConfig {
	config := &InterceptorConfig{
		Verify:        verify,
		RequireAuth:   true,
		PublicMethods: make(map[string]bool),
	}
	for _, method := range publicMethods {
		config.PublicMethods[method] = true
	}
	return config
}

// UnaryAuthInterceptor returns a unary interceptor that verifies the
// bearer token in request metadata and stores the user id on the context.
func UnaryAuthInterceptor(config *InterceptorConfig) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := authenticate(ctx, config, info.FullMethod)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

// StreamAuthInterceptor returns a stream interceptor with the same
// behavior as UnaryAuthInterceptor.
func StreamAuthInterceptor(config *InterceptorConfig) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := authenticate(ss.Context(), config, info.FullMethod)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})
	}
}

func authenticate(ctx context.Context, config *InterceptorConfig, fullMethod string) (context.Context, error) {
	userID := verifyBearer(ctx, config.Verify)
	if userID == "" && config.RequireAuth && !config.PublicMethods[fullMethod] {
		return nil, status.Error(codes.Unauthenticated, "authentication required")
	}
	if userID != "" {
		ctx = ContextWithUserID(ctx, userID)
	}
	return ctx, nil
}

func verifyBearer(ctx context.Context, verify TokenVerifier) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(MetadataKeyAuthorization)
	if len(values) == 0 {
		return ""
	}
	token := strings.TrimSpace(strings.TrimPrefix(values[0], "Bearer "))
	if token == "" {
		return ""
	}
	userID, err := verify(token)
	if err != nil {
		return ""
	}
	return userID
}

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *wrappedStream) Context() context.Context {
	return s.ctx
}
