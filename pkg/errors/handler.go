package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// errorBody is the wire format for error responses
type errorBody struct {
	Success bool                   `json:"success"`
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Handler maps errors to HTTP responses
type Handler struct {
	logger *zap.Logger
	debug  bool
}

// NewHandler creates a new error handler
func NewHandler(logger *zap.Logger, debug bool) *Handler {
	return &Handler{
		logger: logger,
		debug:  debug,
	}
}

// Respond processes an error and sends an HTTP response.
// Client errors keep their message; 5xx detail is logged but replaced
// with a generic message so internals never reach untrusted callers.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	body := errorBody{Success: false, Error: "internal server error"}

	if appErr := GetAppError(err); appErr != nil {
		if appErr.HTTPStatus != 0 {
			status = appErr.HTTPStatus
		}
		if status < http.StatusInternalServerError || h.debug {
			body.Error = appErr.Message
			body.Details = appErr.Details
		}
		h.logError(r, appErr, status)
	} else {
		if h.debug {
			body.Error = err.Error()
		}
		h.logger.Error("unhandled error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		h.logger.Error("failed to encode error response", zap.Error(encodeErr))
	}
}

func (h *Handler) logError(r *http.Request, appErr *AppError, status int) {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("type", string(appErr.Type)),
		zap.Int("status", status),
	}
	if appErr.Cause != nil {
		fields = append(fields, zap.NamedError("cause", appErr.Cause))
	}

	switch {
	case status >= http.StatusInternalServerError:
		h.logger.Error(appErr.Message, fields...)
	case status == http.StatusNotFound || status == http.StatusConflict:
		h.logger.Debug(appErr.Message, fields...)
	default:
		h.logger.Info(appErr.Message, fields...)
	}
}
