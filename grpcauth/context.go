// Package grpcauth propagates authenticated user identity across gRPC
// boundaries. Servers install the interceptors to verify bearer tokens
// carried in request metadata; handlers read the resulting user id with
// UserIDFromContext.
package grpcauth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// MetadataKeyAuthorization is the metadata key carrying the bearer token.
const MetadataKeyAuthorization = "authorization"

type contextKey string

const userIDContextKey = contextKey("grpcauth.userID")

// ContextWithUserID returns a context carrying the verified user id.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// UserIDFromContext returns the verified user id, or "" when the request
// was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDContextKey).(string)
	return userID
}

// IsAuthenticated reports whether the context carries a verified user.
func IsAuthenticated(ctx context.Context) bool {
	return UserIDFromContext(ctx) != ""
}

// TokenToOutgoingContext attaches a bearer token to an outgoing call so
// the receiving server's interceptor can verify it.
func TokenToOutgoingContext(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, MetadataKeyAuthorization, "Bearer "+token)
}
