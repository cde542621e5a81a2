package httpapi

import (
	"context"
	"net/http"
	"strings"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/jmoiron/sqlx"
)

type contextKey string

const ctxAdmin contextKey = "admin"

// WithAuth validates the bearer token and loads the matching admin row.
// A deleted or deactivated admin's token stops working immediately, not
// at expiry.
func WithAuth(tokens services.TokenService, db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			token, claims, err := tokens.ParseToken(tokenStr)
			if err != nil || !token.Valid || claims["typ"] != "access" {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			email, _ := claims["sub"].(string)
			if email == "" {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			admin := models.Admin{}
			if err := db.Get(&admin, `SELECT * FROM admins WHERE lower(email) = $1`, strings.ToLower(email)); err != nil {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			if admin.Status != "active" {
				WriteError(w, http.StatusForbidden, "Account is inactive")
				return
			}
			ctx := context.WithValue(r.Context(), ctxAdmin, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentAdmin(r *http.Request) models.Admin {
	if value, ok := r.Context().Value(ctxAdmin).(models.Admin); ok {
		return value
	}
	return models.Admin{}
}

// RequireFullAccess gates routes reserved for full_access admins.
func RequireFullAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentAdmin(r).Rights != "full_access" {
			WriteError(w, http.StatusForbidden, "Not allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}
