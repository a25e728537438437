package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
)

const (
	apiKeyPrefix     = "wl_"
	liveAPIKeyPrefix = "wl_live_"
)

// HashAPIKey creates a SHA256 hash of an API key for storage
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))
	return fmt.Sprintf("%x", hash)
}

// truncateHash returns a truncated hash for display/logging
// Returns first 16 chars + "..." or the full hash if shorter
func truncateHash(hash string) string {
	if len(hash) <= 16 {
		return hash
	}
	return hash[:16] + "..."
}

// GenerateAPIKey returns a new random live key. Only its hash is ever stored.
func GenerateAPIKey() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return liveAPIKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// KeyStore is the part of storage.Store that API key management needs.
type KeyStore interface {
	PutAPIKey(keyHash, userID string) error
	ListAPIKeyHashes(userID string) ([]string, error)
	DeleteAPIKey(keyHash string) error
}

// IssueAPIKey generates a key for userID and stores its hash.
func IssueAPIKey(ks KeyStore, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("user id is required")
	}
	key, err := GenerateAPIKey()
	if err != nil {
		return "", err
	}
	if err := ks.PutAPIKey(HashAPIKey(key), userID); err != nil {
		return "", fmt.Errorf("store api key: %w", err)
	}
	return key, nil
}

// RevokeAPIKey removes the user's key whose hash starts with prefix. Exactly
// one key must match.
func RevokeAPIKey(ks KeyStore, userID, prefix string) (string, error) {
	prefix = strings.TrimSuffix(prefix, "...")
	if len(prefix) < 8 {
		return "", fmt.Errorf("hash prefix must be at least 8 characters")
	}
	hashes, err := ks.ListAPIKeyHashes(userID)
	if err != nil {
		return "", err
	}
	var match string
	for _, h := range hashes {
		if strings.HasPrefix(h, prefix) {
			if match != "" {
				return "", fmt.Errorf("hash prefix %q is ambiguous", prefix)
			}
			match = h
		}
	}
	if match == "" {
		return "", fmt.Errorf("no api key matching %q", prefix)
	}
	return match, ks.DeleteAPIKey(match)
}
