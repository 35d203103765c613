package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrCode identifies an API error condition independent of the localized
// message.
type ErrCode string

const (
	CodeBadRequest     ErrCode = "BAD_REQUEST"
	CodeNotFound       ErrCode = "NOT_FOUND"
	CodePrecondition   ErrCode = "PRECONDITION_FAILED"
	CodeUnprocessable  ErrCode = "UNPROCESSABLE"
	CodeServiceFailure ErrCode = "SERVICE_FAILURE"
	CodeInternal       ErrCode = "INTERNAL"
)

// envelope is the standard JSON response shape.
type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    ErrCode `json:"code"`
	Message string  `json:"message"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code ErrCode, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(envelope{Error: &errorBody{Code: code, Message: message}})
	if err != nil {
		slog.Error("encode error response", "error", err)
	}
}
