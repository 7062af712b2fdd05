package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/soof-golan/tix-q/internal/models"
	"github.com/soof-golan/tix-q/internal/services"
	"github.com/soof-golan/tix-q/internal/utils"
)

type contextKey string

const ContextKeyUser = contextKey("user")

// AuthMiddleware — for owner-protected endpoints. The bearer JWT's `sub` is
// the opaque provider-issued identity; the matching user row is upserted
// (via the TTL cache) and stashed in the request context. Missing or invalid
// token returns 401.
func AuthMiddleware(secret []byte, lookups services.LookupCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				utils.RespondErrorWithCode(
					w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil,
				)
				return
			}
			user, vErr := resolveUser(r.Context(), tokenStr, secret, lookups)
			if vErr != nil {
				respondAuthError(w, vErr)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware is identical to AuthMiddleware except that it lets
// the request through if *no* token is present. A present-but-invalid token
// is still a 401.
func OptionalAuthMiddleware(secret []byte, lookups services.LookupCache) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, _ := extractBearerToken(r) // ignore error here
			if tokenStr == "" {
				next.ServeHTTP(w, r) // unauthenticated – allowed
				return
			}
			user, vErr := resolveUser(r.Context(), tokenStr, secret, lookups)
			if vErr != nil {
				respondAuthError(w, vErr)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(*models.User)
	return user, ok
}

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("malformed Authorization header")
	}
	return parts[1], nil
}

func resolveUser(ctx context.Context, tokenStr string, secret []byte, lookups services.LookupCache) (*models.User, error) {
	tok, err := jwt.Parse(tokenStr,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, errors.New("token has no subject")
	}
	email, _ := claims["email"].(string)

	user, err := lookups.ResolveUser(ctx, sub, email)
	if err != nil {
		return nil, fmt.Errorf("user resolution: %w", err)
	}
	return user, nil
}

func respondAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, jwt.ErrTokenExpired) {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, err,
		)
		return
	}
	if errors.Is(err, utils.ErrStoreUnavailable) {
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, "Internal server error", nil, err,
		)
		return
	}
	utils.RespondErrorWithCode(
		w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, err,
	)
}
