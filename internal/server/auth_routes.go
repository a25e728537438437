package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brk3/wellnest/internal/logger"
)

func (s *Server) generateAPIKey(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		s.handleAuthFailure(w, r)
		return
	}

	key, err := IssueAPIKey(s.store, userID)
	if err != nil {
		logger.Error("Failed to issue API key", "user_id", userID, "error", err)
		s.respond(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to create api key", Code: "internal_error"})
		return
	}
	logger.Info("API key issued", "user_id", userID, "key_hash", truncateHash(HashAPIKey(key)))
	s.respond(w, http.StatusCreated, APIKeyResponse{APIKey: key})
}

func (s *Server) listAPIKeys(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		s.handleAuthFailure(w, r)
		return
	}

	hashes, err := s.store.ListAPIKeyHashes(userID)
	if err != nil {
		writeError(w, r, upstreamErr("list api keys", err))
		return
	}
	resp := APIKeyListResponse{Keys: []APIKeyInfo{}}
	for _, h := range hashes {
		resp.Keys = append(resp.Keys, APIKeyInfo{Hash: truncateHash(h)})
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) revokeAPIKey(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(s.cfg.AuthEnabled, r)
	if userID == "" {
		s.handleAuthFailure(w, r)
		return
	}

	hash, err := RevokeAPIKey(s.store, userID, chi.URLParam(r, "prefix"))
	if err != nil {
		logger.Warn("Failed to revoke API key", "user_id", userID, "error", err)
		s.respond(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
		return
	}
	logger.Info("API key revoked", "user_id", userID, "key_hash", truncateHash(hash))
	w.WriteHeader(http.StatusNoContent)
}
