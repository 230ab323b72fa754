package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	commonerrors "github.com/dlcaspar/apt-journal/backend/internal/common/errors"
)

// ErrorEnvelope is the single error shape every handler returns. Code is the
// numeric HTTP status, Msg a static string, and Details is null except for
// validation failures.
type ErrorEnvelope struct {
	Code    int                       `json:"code"`
	Msg     string                    `json:"msg"`
	Details []commonerrors.FieldError `json:"details"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteText sends a bare string body; signup/signin respond with the raw
// token this way.
func WriteText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteErrorEnvelope(w, status, msg, nil)
}

func WriteErrorEnvelope(w http.ResponseWriter, status int, msg string, details []commonerrors.FieldError) {
	WriteJSON(w, status, ErrorEnvelope{Code: status, Msg: msg, Details: details})
}

func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func WithTimeout(timeout time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next(w, r.WithContext(ctx))
		}
	}
}
