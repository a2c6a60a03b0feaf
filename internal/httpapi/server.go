// Package httpapi exposes the dispatch and password-reset operations over
// HTTP, plus health and metrics endpoints. It owns the mapping from error
// kinds to response statuses; the use cases stay transport-agnostic.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	apperrors "notifyhub/internal/common/errors"
	"notifyhub/internal/common/logger"
	"notifyhub/internal/usecases"
	"notifyhub/internal/usecases/auth/resetconfirm"
	"notifyhub/internal/usecases/auth/resetrequest"
	"notifyhub/internal/usecases/notification/send"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server routes the public operations.
type Server struct {
	dispatch     *send.Service
	resetRequest *resetrequest.Service
	resetConfirm *resetconfirm.Service
	logger       logger.Logger
}

func NewServer(dispatch *send.Service, rr *resetrequest.Service, rc *resetconfirm.Service, log logger.Logger) *Server {
	return &Server{
		dispatch:     dispatch,
		resetRequest: rr,
		resetConfirm: rc,
		logger:       log,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/notifications/send", handle[send.Input, *send.Output](s, s.dispatch))
	mux.HandleFunc("POST /v1/auth/password-reset/request", handle[resetrequest.Input, *resetrequest.Output](s, s.resetRequest))
	mux.HandleFunc("POST /v1/auth/password-reset/confirm", handle[resetconfirm.Input, *resetconfirm.Output](s, s.resetConfirm))
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// handle adapts one use case to an HTTP endpoint: decode JSON, run the
// pipeline, encode the output or the kind-mapped error.
func handle[I, O any](s *Server, uc usecases.UseCase[I, O]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input I
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			writeError(w, http.StatusBadRequest, "MALFORMED_BODY", err.Error(), nil)
			return
		}

		out, err := usecases.Run[I, O](r.Context(), uc, input)
		if err != nil {
			s.writeFailure(w, uc.Name(), err)
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

type errorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

func (s *Server) writeFailure(w http.ResponseWriter, operation string, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("operation failed", map[string]interface{}{
			"operation": operation,
			"error":     err.Error(),
		})
	}

	code := string(apperrors.KindOf(err))
	if code == "" {
		code = "INTERNAL"
	}

	var details []apperrors.FieldError
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		details = verr.Details
	}

	writeError(w, status, code, err.Error(), details)
}

func writeError(w http.ResponseWriter, status int, code, message string, details []apperrors.FieldError) {
	writeJSON(w, status, errorResponse{Code: code, Message: message, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
