// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the public and admin JSON endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"sitecms/internal/models"
	"sitecms/internal/versioning"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// errBadJSON marks a request body that could not be decoded.
var errBadJSON = errors.New("malformed JSON body")

// writeJSON encodes data as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeRaw sends an already encoded JSON body.
func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a domain error to its HTTP status.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadJSON):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, versioning.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, versioning.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, versioning.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, versioning.ErrStorage):
		slog.Error("storage failure", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage unavailable, try again")
	default:
		slog.Error("unexpected handler error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads exactly one JSON object into dst and validates it.
// Unknown fields and trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if strings.HasPrefix(err.Error(), "json: unknown field ") {
			return fmt.Errorf("%w: %s", errBadJSON, strings.TrimPrefix(err.Error(), "json: "))
		}
		return errBadJSON
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after object", errBadJSON)
	}
	return validateRequest(dst)
}

// contentKey builds the item key from the URL parameters.
func contentKey(r *http.Request) models.ContentKey {
	return models.ContentKey{
		SiteID:      chi.URLParam(r, "site"),
		ContentType: models.ContentTypeID(chi.URLParam(r, "type")),
		ContentID:   chi.URLParam(r, "id"),
	}
}

// knownType reports whether the {type} URL parameter names a registered
// content type, writing a 404 when it does not.
func knownType(w http.ResponseWriter, r *http.Request) (models.ContentTypeID, bool) {
	ct := models.ContentTypeID(chi.URLParam(r, "type"))
	if _, ok := models.LookupContentType(ct); !ok {
		writeError(w, http.StatusNotFound, "unknown content type")
		return "", false
	}
	return ct, true
}
