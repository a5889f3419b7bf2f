package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "shelfmap/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		category string
	}{
		{"validation", apperror.NewValidationError("store_id ausente"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", apperror.NewNotFoundError("página"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperror.NewConflictError("sessão encerrada"), http.StatusConflict, "CONFLICT"},
		{"unauthorized", apperror.NewUnauthorizedError("token"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"upstream", apperror.NewUpstreamError("backend", stderrors.New("502")), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"wrapped", fmt.Errorf("camada: %w", apperror.NewNotFoundError("loja")), http.StatusNotFound, "NOT_FOUND"},
		{"plain", stderrors.New("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, category, _ := apperror.MapToHTTPStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.category, category)
		})
	}
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := apperror.NewDBError("Falha ao listar prateleiras", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Falha ao listar prateleiras")
}
