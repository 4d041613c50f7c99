package middleware

import (
	"context"
	"errors"
	"net/http"

	"retohub/internal/common"
	"retohub/internal/common/security"
	"retohub/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const PersonIDCtxKey contextKey = "personID"

// Authenticator requires a verified bearer token and resolves its subject
// to a person id. A token whose subject is not numeric is malformed (422),
// not merely unauthorized.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		personID, err := security.SubjectFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, common.HTTPStatusFromError(err), "Invalid token identity")
			return
		}

		ctx := context.WithValue(r.Context(), PersonIDCtxKey, personID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActiveAccount re-fetches the token's account so tokens held by
// deactivated persons are rejected even while still signed and unexpired.
func ActiveAccount(personRepo repository.PersonRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			personID, ok := GetPersonIDFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Missing person context")
				return
			}
			if _, err := personRepo.FindByID(r.Context(), personID); err != nil {
				if errors.Is(err, common.ErrNotFound) {
					common.RespondWithError(w, http.StatusUnauthorized, "Token account not found or inactive")
					return
				}
				common.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetPersonIDFromContext returns the authenticated person id.
func GetPersonIDFromContext(ctx context.Context) (int, bool) {
	personID, ok := ctx.Value(PersonIDCtxKey).(int)
	return personID, ok
}
