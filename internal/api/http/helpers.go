// Package apihttp contains the HTTP handlers of the dataset service.
package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"synthgrid/internal/audit"
	"synthgrid/internal/auth"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// parseDate accepts plain dates and full RFC3339 timestamps.
func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New(field + " is required")
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.New(field + " must be YYYY-MM-DD or RFC3339")
	}
	return parsed.UTC(), nil
}

func decodeBody(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// auditEntry seeds an audit entry with the caller's identity from the
// request.
func auditEntry(r *http.Request, action, resource string) audit.Entry {
	return audit.Entry{
		Actor:     auth.SubjectFromContext(r.Context()),
		Role:      string(auth.RoleFromContext(r.Context())),
		Action:    action,
		Resource:  resource,
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}
