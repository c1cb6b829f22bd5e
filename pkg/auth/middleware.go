package auth

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims returns a copy of ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts Claims from ctx.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}

// OwnerFromContext returns the authenticated owner, or "" when ctx is unauthenticated.
func OwnerFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.Owner()
	}
	return ""
}

// Authorizer is the token validator the interceptor depends on.
type Authorizer interface {
	ValidateToken(token string) (*Claims, error)
}

// UnaryAuthInterceptor authenticates every call except skipMethods. When writeMethods
// lists a method, callers also need RoleOwner or RoleAdmin to invoke it.
func UnaryAuthInterceptor(v Authorizer, skipMethods, writeMethods []string) grpc.UnaryServerInterceptor {
	skip := toSet(skipMethods)
	writes := toSet(writeMethods)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := skip[info.FullMethod]; ok {
			return handler(ctx, req)
		}

		token, err := bearerToken(ctx)
		if err != nil {
			return nil, err
		}

		claims, err := v.ValidateToken(token)
		if err != nil {
			return nil, status.Errorf(codes.Unauthenticated, "invalid token: %v", err)
		}

		if _, ok := writes[info.FullMethod]; ok && !claims.HasRole(RoleOwner) && !claims.HasRole(RoleAdmin) {
			return nil, status.Errorf(codes.PermissionDenied, "%s requires role %q", info.FullMethod, RoleOwner)
		}

		return handler(ContextWithClaims(ctx, claims), req)
	}
}

func bearerToken(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing metadata")
	}
	values := md.Get("authorization")
	if len(values) == 0 || values[0] == "" {
		return "", status.Error(codes.Unauthenticated, "missing authorization header")
	}
	return strings.TrimPrefix(values[0], "Bearer "), nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, i := range items {
		set[i] = struct{}{}
	}
	return set
}
