package types

import (
	"errors"
	"net/http"

	appErr "github.com/chiedozieu/website-builder/pkg/errors"
)

// FromAppError converts a service error to the wire error shape. Only the
// AppError message crosses the boundary; wrapped causes stay in the logs.
func FromAppError(err error) *APIError {
	if err == nil {
		return nil
	}
	var ae *appErr.AppError
	if errors.As(err, &ae) {
		return &APIError{Code: string(ae.Code), Message: ae.Message}
	}
	return &APIError{Code: string(appErr.CodeUnknown), Message: "internal error"}
}

// StatusFromError maps an error's code to the HTTP status for it.
func StatusFromError(err error) int {
	switch appErr.CodeOf(err) {
	case appErr.CodeInvalid:
		return http.StatusBadRequest
	case appErr.CodeUnauthorized:
		return http.StatusUnauthorized
	case appErr.CodeForbidden, appErr.CodeInsufficientCredits:
		return http.StatusForbidden
	case appErr.CodeNotFound:
		return http.StatusNotFound
	case appErr.CodeConflict:
		return http.StatusConflict
	case appErr.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
