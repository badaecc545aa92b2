package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/chiedozieu/website-builder/pkg/errors"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		code appErr.Code
		want int
	}{
		{appErr.CodeInvalid, http.StatusBadRequest},
		{appErr.CodeUnauthorized, http.StatusUnauthorized},
		{appErr.CodeForbidden, http.StatusForbidden},
		{appErr.CodeInsufficientCredits, http.StatusForbidden},
		{appErr.CodeNotFound, http.StatusNotFound},
		{appErr.CodeConflict, http.StatusConflict},
		{appErr.CodeUnavailable, http.StatusServiceUnavailable},
		{appErr.CodeInternal, http.StatusInternalServerError},
		{appErr.CodeUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, StatusFromError(appErr.New(tt.code, "x")), string(tt.code))
	}
	require.Equal(t, http.StatusInternalServerError, StatusFromError(errors.New("plain")))
}

func TestFromAppError_RedactsCauses(t *testing.T) {
	cause := errors.New("connection refused to 10.0.0.4:5432")
	err := appErr.Wrap(cause, appErr.CodeInternal, "generation failed")

	apiErr := FromAppError(fmt.Errorf("handler: %w", err))
	require.Equal(t, "internal", apiErr.Code)
	require.Equal(t, "generation failed", apiErr.Message)
	require.NotContains(t, apiErr.Message, "10.0.0.4")

	plain := FromAppError(cause)
	require.Equal(t, "internal error", plain.Message)
}
