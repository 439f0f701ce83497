package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/math-hero/backend/internal/auth"
	"github.com/math-hero/backend/internal/models"
)

// Auth validates the session token and puts the user id into the
// request context under "user_id".
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				unauthorized(w)
				return
			}

			userID, err := auth.ParseToken(token, secret)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), "user_id", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Authentication required"})
}
