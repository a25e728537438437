package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/brk3/wellnest/internal/logger"
)

type userCtxKey struct{}

type User struct {
	UserID  string
	KeyHash string
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			RecordAuthEvent("verification", "missing_token")
			s.handleAuthFailure(w, r)
			return
		}
		token := strings.TrimPrefix(ah, "Bearer ")
		if !strings.HasPrefix(token, apiKeyPrefix) {
			logger.Debug("Bearer token is not an API key")
			RecordAuthEvent("verification", "wrong_prefix")
			s.handleAuthFailure(w, r)
			return
		}

		user, ok := s.authenticateAPIKey(token)
		if !ok {
			RecordAuthEvent("verification", "failed")
			s.handleAuthFailure(w, r)
			return
		}
		RecordAuthEvent("verification", "success")
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userCtxKey{}, user)))
	})
}

func (s *Server) authenticateAPIKey(apiKey string) (*User, bool) {
	keyHash := HashAPIKey(apiKey)
	userID, found, err := s.store.GetAPIKey(keyHash)
	if err != nil {
		logger.Error("Failed to look up API key", "key_hash", truncateHash(keyHash), "error", err)
		return nil, false
	}
	if !found || userID == "" {
		logger.Debug("Unknown API key", "key_hash", truncateHash(keyHash))
		return nil, false
	}
	logger.Debug("API key authentication successful", "user_id", userID)
	return &User{UserID: userID, KeyHash: keyHash}, true
}

// userIDFromContext extracts user ID from authenticated request context
func userIDFromContext(authEnabled bool, r *http.Request) string {
	if !authEnabled {
		return "anonymous"
	}

	user, ok := r.Context().Value(userCtxKey{}).(*User)
	if !ok {
		logger.Error("No user in context")
		return ""
	}

	return user.UserID
}

func (s *Server) handleAuthFailure(w http.ResponseWriter, r *http.Request) {
	logger.Debug("Returning 401 unauthorized", "path", r.URL.Path, "method", r.Method)
	w.Header().Set("WWW-Authenticate", `Bearer realm="wellnest"`)
	_ = writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: "unauthorized"})
}
