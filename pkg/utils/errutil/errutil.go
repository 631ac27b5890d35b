package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/utils/logging"
	"github.com/secmon-lab/factbase/pkg/utils/safe"
)

// ErrorResponse is the JSON body of every HTTP error reply
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Handle logs the error with a message and reports it to Sentry.
// The error is returned unchanged so callers can keep propagating it.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logging.From(ctx).Error(msg, errAttrs(err)...)
	capture(ctx, err)

	return err
}

// HandleHTTP logs err and writes a JSON error response. When detail is empty
// the error message itself is sent to the client. 5xx errors are logged at
// error level and reported to Sentry; 4xx errors are logged at info level.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int, detail string) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)
	attrs := append([]any{"status", statusCode}, errAttrs(err)...)
	if statusCode >= http.StatusInternalServerError {
		logger.Error("HTTP error", attrs...)
		capture(ctx, err)
	} else {
		logger.Info("HTTP client error", attrs...)
	}

	if detail == "" {
		detail = err.Error()
	}
	WriteJSON(ctx, w, statusCode, ErrorResponse{Detail: detail})
}

// WriteJSON marshals v and writes it with the given status code
func WriteJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.From(ctx).Error("failed to marshal response", "error", err.Error())
		http.Error(w, `{"detail":"failed to marshal response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	safe.Write(ctx, w, data)
}

func errAttrs(err error) []any {
	var ge *goerr.Error
	if errors.As(err, &ge) {
		return []any{
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		}
	}
	return []any{"error", err.Error()}
}

func capture(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
