package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	fterrors "github.com/matzehuels/featuretable/pkg/errors"
)

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	switch fterrors.GetCode(err) {
	case fterrors.ErrCodeInvalidInput, fterrors.ErrCodeInvalidFormat, fterrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case fterrors.ErrCodeOrientationUndefined:
		return http.StatusUnprocessableEntity
	case fterrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case fterrors.ErrCodeNetwork:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)
	code := fterrors.GetCode(err)
	if code == "" {
		code = fterrors.ErrCodeInternal
	}

	id := requestIDFrom(req.Context())
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", id, "err", err)
	} else {
		s.logger.Debug("request rejected", "request_id", id, "code", code, "err", err)
	}

	body := errorBody{Error: string(code), Message: fterrors.UserMessage(err), RequestID: id}
	if status == http.StatusInternalServerError {
		body.Message = http.StatusText(status)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
