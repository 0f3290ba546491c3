// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/sha256"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// writeError writes the API's JSON error body.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// tokenGuard checks bearer tokens against a bcrypt hash. Tokens that
// matched once are remembered by their SHA-256 digest so bcrypt only runs
// on the first request of each token.
type tokenGuard struct {
	hash     []byte
	verified sync.Map // [32]byte -> struct{}
}

func (g *tokenGuard) allow(token string) bool {
	if token == "" {
		return false
	}
	sum := sha256.Sum256([]byte(token))
	if _, ok := g.verified.Load(sum); ok {
		return true
	}
	if bcrypt.CompareHashAndPassword(g.hash, []byte(token)) != nil {
		return false
	}
	g.verified.Store(sum, struct{}{})
	return true
}

// RequireAPIToken rejects requests whose bearer token does not match the
// bcrypt hash. An empty hash disables the check, which is only allowed
// outside production.
func RequireAPIToken(hash string) func(http.Handler) http.Handler {
	if hash == "" {
		slog.Warn("API token check disabled, every API request is accepted")
		return func(next http.Handler) http.Handler { return next }
	}

	g := &tokenGuard{hash: []byte(hash)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.allow(BearerToken(r)) {
				w.Header().Set("WWW-Authenticate", `Bearer realm="brandnet"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid API token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
