package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfmap/internal/api/respond"
	"shelfmap/internal/domain"
	apperror "shelfmap/internal/errors"
	"shelfmap/internal/pkg/logger"
)

func TestHandle_Success(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	respond.Handle(rr, req, logger.NewNop(), respond.OKResponse{OK: true}, nil, http.StatusOK)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
}

func TestHandle_MapsWrappedAppErrors(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		category string
	}{
		{apperror.NewValidationError("missing store_id"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("contexto: %w", apperror.NewNotFoundError("página")), http.StatusNotFound, "NOT_FOUND"},
		{apperror.NewUpstreamError("backend", errors.New("503")), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{errors.New("qualquer"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		respond.Handle(rr, httptest.NewRequest(http.MethodGet, "/x", nil), logger.NewNop(), nil, tc.err, http.StatusOK)

		assert.Equal(t, tc.status, rr.Code)
		var body domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.False(t, body.OK)
		assert.Equal(t, tc.status, body.Code)
		assert.Equal(t, tc.category, body.Category)
	}
}

func TestDecode_InvalidJSON(t *testing.T) {
	var dst map[string]interface{}
	err := respond.Decode(httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{")), &dst)
	assert.IsType(t, &apperror.ValidationError{}, err)
}
