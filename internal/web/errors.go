package web

// errors.go renders every error as JSON with a support code.
//
// The technical error is logged with the request id; the client only sees
// the mapped message from core.MapError.

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/MerchantImport/internal/core"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message"`
	Action  string             `json:"action,omitempty"`
	Code    string             `json:"code"`
	Report  *dataimport.Report `json:"report,omitempty"`
}

// respondError logs err and writes the mapped message. report, when set,
// is the partial report of an aborted run.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, report *dataimport.Report) {
	status := statusFor(err)
	msg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Report:  report,
	})
}

// statusFor picks the HTTP status of err.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrUnknownImportType):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyImports):
		return http.StatusServiceUnavailable
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, dataimport.ErrInvalidData), errors.Is(err, dataimport.ErrEntityNotFound):
		return http.StatusUnprocessableEntity
	}

	code := core.MapError(err).Code
	if strings.HasPrefix(code, "VAL") || strings.HasPrefix(code, "FILE") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
