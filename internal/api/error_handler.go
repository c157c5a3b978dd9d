package api

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/vytor/flashpulse/internal/errors"
	"github.com/vytor/flashpulse/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := errors.AsAppError(err)
	switch {
	case ok:
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled):
		appErr = errors.NewTimeoutError(err)
	default:
		// Wrap unknown errors as internal errors
		appErr = errors.NewInternalError(err)
	}
	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status >= 500 {
		log.Error("server error: %v", appErr)
	} else if status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	writeJSON(w, r, status, errorBody{Error: errorDetail{Code: appErr.Code, Message: appErr.Message}})
}
