package api

import (
	"encoding/json"
	"net/http"

	"github.com/iov-one/pswap/errors"
)

type apiError struct {
	Status  string `json:"status"`
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

func writeMessage(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]interface{}{
		"status":  "success",
		"message": message,
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	code, msg := errors.Info(err, s.debug)
	writeJSON(w, status, apiError{
		Status:  "error",
		Code:    code,
		Message: msg,
	})
}

// httpStatus maps an error kind to the HTTP status code.
func httpStatus(err error) int {
	switch {
	case errors.ErrNotFound.Is(err):
		return http.StatusNotFound
	case errors.ErrInvalidInput.Is(err), errors.ErrInvalidType.Is(err), errors.ErrEmpty.Is(err):
		return http.StatusBadRequest
	case errors.ErrUnauthorized.Is(err):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
