package shelf_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"shelfmap/internal/api/shelf"
	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/logger"
)

type MockShelfService struct {
	mock.Mock
}

func (m *MockShelfService) ListShelves(ctx context.Context, filter domain.ShelfFilter) ([]domain.Shelf, error) {
	args := m.Called(ctx, filter)
	shelves, _ := args.Get(0).([]domain.Shelf)
	return shelves, args.Error(1)
}

func TestListShelvesHandler_Success(t *testing.T) {
	svc := new(MockShelfService)
	h := shelf.NewHandler(svc, logger.NewNop())

	filter := domain.ShelfFilter{StoreID: 1, AreaID: "5", TempZone: "CHILL"}
	svc.On("ListShelves", mock.Anything, filter).Return([]domain.Shelf{
		{ID: 7, Code: "A1", Name: "Laticínios", TempZone: "CHILL", AreaID: "5", SortOrder: 1},
	}, nil)

	rr := httptest.NewRecorder()
	h.ListShelvesHandler(rr, httptest.NewRequest(http.MethodGet, "/inventory/api/shelves?store_id=1&area_id=5&temp_zone=CHILL", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"shelves":[{"id":7,"code":"A1","name":"Laticínios","temp_zone":"CHILL","area_id":5,"sort_order":1}]}`, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestListShelvesHandler_EmptyIsArray(t *testing.T) {
	svc := new(MockShelfService)
	h := shelf.NewHandler(svc, logger.NewNop())
	svc.On("ListShelves", mock.Anything, domain.ShelfFilter{StoreID: 2}).Return(nil, nil)

	rr := httptest.NewRecorder()
	h.ListShelvesHandler(rr, httptest.NewRequest(http.MethodGet, "/inventory/api/shelves?store_id=2", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true,"shelves":[]}`, rr.Body.String())
}

func TestListShelvesHandler_MissingStore(t *testing.T) {
	svc := new(MockShelfService)
	h := shelf.NewHandler(svc, logger.NewNop())

	for _, target := range []string{"/inventory/api/shelves", "/inventory/api/shelves?store_id=abc"} {
		rr := httptest.NewRecorder()
		h.ListShelvesHandler(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Contains(t, rr.Body.String(), `"ok":false`)
	}
	svc.AssertNotCalled(t, "ListShelves", mock.Anything, mock.Anything)
}
