package middleware

import (
	"context"
	"errors"
	"net/http"

	"codetrek/internal/common"
	"codetrek/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey  contextKey = "userID"
	TokenIDCtxKey contextKey = "tokenID"
)

// TokenChecker confirms a verified token is still live on the server side.
type TokenChecker interface {
	Authenticate(ctx context.Context, tokenID, userID string) error
}

// Authenticator requires a token that jwtauth.Verifier accepted and that has
// not been revoked by logout.
func Authenticator(checker TokenChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				if err == nil || errors.Is(err, jwtauth.ErrNoTokenFound) {
					common.RespondWithError(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				} else {
					common.RespondWithError(w, http.StatusUnauthorized, "Invalid token.")
				}
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}
			tokenID, err := security.GetTokenIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}

			if err := checker.Authenticate(r.Context(), tokenID, userID); err != nil {
				if errors.Is(err, common.ErrUnauthorized) {
					common.RespondWithError(w, http.StatusUnauthorized, "Invalid token.")
				} else {
					common.RespondWithServiceError(w, err)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
			ctx = context.WithValue(ctx, TokenIDCtxKey, tokenID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDCtxKey).(string)
	return tokenID, ok
}
