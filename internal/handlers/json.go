// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: publishing, the effect
// endpoints, campaign sends and public article reads.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brandnet/internal/effect"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Error codes that are not effect kinds.
const (
	codeBadRequest = "bad_request"
	codeInvalidID  = "invalid_id"
	codeConflict   = "conflict"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeServiceError maps a service error to a response by its effect kind.
// Internal errors are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	kind := effect.KindOf(err)
	switch kind {
	case effect.KindNotFound:
		writeError(w, http.StatusNotFound, string(kind), err.Error())
	case effect.KindNotConfigured, effect.KindNoSubscribers:
		writeError(w, http.StatusBadRequest, string(kind), err.Error())
	case effect.KindInternal:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, string(kind), "internal server error")
	default:
		slog.Warn(op+" failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, string(kind), err.Error())
	}
}

// decodeJSON reads a JSON request body into v. An empty body leaves v
// untouched when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidID, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// requireID rejects a missing id in a request body.
func requireID(w http.ResponseWriter, id uuid.UUID, field string) bool {
	if id == uuid.Nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, field+" is required")
		return false
	}
	return true
}
