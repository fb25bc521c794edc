package http

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "hotelier/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

type ListResponse struct {
	Data       any `json:"data"`
	TotalCount int `json:"total_count"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  apperrors.CodeInternal,
		})
		return
	}

	WriteJSON(w, StatusFor(appErr), ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// StatusFor picks the HTTP status for an AppError, preferring the status the
// error was created with.
func StatusFor(e *apperrors.AppError) int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	switch e.Code {
	case apperrors.CodeInvalidInput, apperrors.CodeBadRequest:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeValidation:
		return http.StatusUnprocessableEntity
	case apperrors.CodeConflict:
		return http.StatusConflict
	case apperrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WriteList(w http.ResponseWriter, data any, totalCount int) {
	WriteJSON(w, http.StatusOK, ListResponse{
		Data:       data,
		TotalCount: totalCount,
	})
}
