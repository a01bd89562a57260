package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (JSON or HTML page)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err) or renders its module page with the error
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + code is logged with request and session IDs
//  5. User message is rendered in appropriate format for the client

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status of a mapped error.
func statusFor(msg core.UserMessage) int {
	switch {
	case msg.Code == "ERR000":
		return http.StatusInternalServerError
	case msg.Code == "DS001":
		return http.StatusNotFound
	case msg.Code == "FILE001":
		return http.StatusRequestEntityTooLarge
	case msg.Code == "UPL001":
		return http.StatusServiceUnavailable
	case msg.Code == "RATE001":
		return http.StatusTooManyRequests
	case msg.Code == "REQ002", msg.Code == "NET001":
		return http.StatusGatewayTimeout
	case msg.Code == "NET003" && msg.Message == "Lyrics not found":
		return http.StatusNotFound
	case strings.HasPrefix(msg.Code, "NET"):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// logError logs the technical error behind msg.
func logError(r *http.Request, err error, msg core.UserMessage, status int) {
	logger := logging.FromContext(r.Context())
	args := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", args...)
		return
	}
	logger.Warn("request error", args...)
}

// mapError maps, logs and returns the user message and status for err.
func mapError(r *http.Request, err error) (core.UserMessage, int) {
	msg := core.MapError(err)
	status := statusFor(msg)
	logError(r, err, msg, status)
	return msg, status
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns JSON or plain text
// based on the request type.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg, status := mapError(r, err)
	if wantsJSON(r) {
		respondErrorJSON(w, msg, status)
		return
	}
	respondErrorText(w, err, status)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorText writes a plain error response.
func respondErrorText(w http.ResponseWriter, err error, statusCode int) {
	http.Error(w, core.FormatUserError(err), statusCode)
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}
	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
