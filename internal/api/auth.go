package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eduforge/eduforge/internal/auth"
	"github.com/eduforge/eduforge/internal/personalize"
	"github.com/eduforge/eduforge/internal/storage"
)

type ctxKey int

const userKey ctxKey = 0

// JWTAuth validates the bearer token and loads the authenticated user into
// the request context.
func JWTAuth(deps Deps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or missing bearer token")
				return
			}

			username, err := deps.Issuer.Verify(header[len(prefix):])
			if err != nil {
				httpError(w, http.StatusUnauthorized, "authentication_error", "invalid or expired token")
				return
			}

			user, err := deps.Store.GetUserByUsername(username)
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusUnauthorized, "authentication_error", "unknown user")
				return
			}
			if err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to load user: %v", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// currentUser returns the user placed in the context by JWTAuth.
func currentUser(r *http.Request) storage.User {
	user, _ := r.Context().Value(userKey).(storage.User)
	return user
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func handleRegister(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.OpenSignups {
			httpError(w, http.StatusForbidden, "authentication_error", "signups are disabled")
			return
		}

		var req registerRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Username == "" || req.Password == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "username and password are required")
			return
		}
		if len(req.Password) < 8 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "password must be at least 8 characters")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to hash password: %v", err)
			return
		}

		user := storage.User{
			ID:           uuid.New().String(),
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
			Preferences:  personalize.DefaultPreferences(),
			CreatedAt:    time.Now().UTC(),
		}
		err = deps.Store.CreateUser(user)
		if errors.Is(err, storage.ErrConflict) {
			httpError(w, http.StatusConflict, "invalid_request_error", "username or email already taken")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to create user: %v", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		writeJSON(w, userResponse(user))
	}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func handleToken(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		user, err := deps.Store.GetUserByUsername(req.Username)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
			httpError(w, http.StatusUnauthorized, "authentication_error", "incorrect username or password")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load user: %v", err)
			return
		}

		token, err := deps.Issuer.Token(user.Username)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to issue token: %v", err)
			return
		}

		writeJSON(w, map[string]string{
			"access_token": token,
			"token_type":   "bearer",
		})
	}
}

func handleMe(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, userResponse(currentUser(r)))
	}
}

// userResponse strips the password hash from an account record.
func userResponse(u storage.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"preferences": u.Preferences,
		"created_at":  u.CreatedAt,
	}
}
