package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/MerchantImport/internal/config"
	"github.com/JonMunkholm/MerchantImport/internal/logging"
)

// APIKeyHeader carries the caller's key. "Authorization: Bearer <key>" is
// accepted as well so import jobs can reuse generic HTTP clients.
const APIKeyHeader = "X-API-Key"

// Auth error codes, in the same shape as the import API's error bodies.
const (
	CodeMissingKey = "AUTH001"
	CodeInvalidKey = "AUTH002"
)

type authError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

// APIKeyAuth guards import endpoints. With RequireAPIKey off every request
// passes. With it on and no keys configured every request is rejected.
func APIKeyAuth(cfg *config.SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAPIKey {
				next.ServeHTTP(w, r)
				return
			}

			key := requestKey(r)
			switch {
			case key == "":
				deny(w, r, http.StatusUnauthorized, authError{
					Error:   "missing API key",
					Message: "This endpoint requires an API key.",
					Action:  "Send the key in the " + APIKeyHeader + " header.",
					Code:    CodeMissingKey,
				})
			case !validKey(key, cfg.APIKeys):
				deny(w, r, http.StatusForbidden, authError{
					Error:   "invalid API key",
					Message: "The API key was not accepted.",
					Action:  "Check the key with the service operator.",
					Code:    CodeInvalidKey,
				})
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func requestKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(APIKeyHeader)); key != "" {
		return key
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

func deny(w http.ResponseWriter, r *http.Request, status int, body authError) {
	logging.FromContext(r.Context()).Warn("auth rejected",
		"code", body.Code,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// validKey compares key against every configured key in constant time.
func validKey(key string, keys []string) bool {
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare([]byte(key), []byte(k))
	}
	return match == 1
}
