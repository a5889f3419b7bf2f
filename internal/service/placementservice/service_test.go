package placementservice_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shelfmap/internal/domain"
	apperror "shelfmap/internal/errors"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/service/placementservice"
)

// MockPlacementRepository é uma implementação mock da interface PlacementRepository
type MockPlacementRepository struct {
	mock.Mock
}

func (m *MockPlacementRepository) ReorderShelf(ctx context.Context, req domain.ReorderRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlacementRepository) SaveAssignments(ctx context.Context, req domain.SaveAssignmentsRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockPlacementRepository) GetItemLocation(ctx context.Context, storeID, itemID int64) (domain.ItemLocation, error) {
	args := m.Called(ctx, storeID, itemID)
	return args.Get(0).(domain.ItemLocation), args.Error(1)
}

func (m *MockPlacementRepository) ListShelfItems(ctx context.Context, storeID int64, orderBy string) ([]domain.ShelfItem, error) {
	args := m.Called(ctx, storeID, orderBy)
	return args.Get(0).([]domain.ShelfItem), args.Error(1)
}

func (m *MockPlacementRepository) ListAssignments(ctx context.Context, storeID int64) ([]domain.AssignmentRow, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]domain.AssignmentRow), args.Error(1)
}

func (m *MockPlacementRepository) GetSortConfig(ctx context.Context, storeID int64) (*domain.SortConfig, error) {
	args := m.Called(ctx, storeID)
	cfg, _ := args.Get(0).(*domain.SortConfig)
	return cfg, args.Error(1)
}

func (m *MockPlacementRepository) SaveSortConfig(ctx context.Context, storeID int64, cfg domain.SortConfig) error {
	return m.Called(ctx, storeID, cfg).Error(0)
}

type MockSectionRepository struct {
	mock.Mock
}

func (m *MockSectionRepository) ListSections(ctx context.Context, storeID int64) ([]domain.ShelfSection, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]domain.ShelfSection), args.Error(1)
}

func newService() (*placementservice.Service, *MockPlacementRepository, *MockSectionRepository) {
	repo := new(MockPlacementRepository)
	sections := new(MockSectionRepository)
	return placementservice.NewService(repo, sections, logger.NewNop()), repo, sections
}

// --- Testes para ReorderItems ---

func TestReorderItems_Success(t *testing.T) {
	svc, repo, _ := newService()
	req := domain.ReorderRequest{StoreID: 1, ShelfID: 7, ItemIDs: []int64{103, 101, 102}}
	repo.On("ReorderShelf", mock.Anything, req).Return(int64(3), nil)

	require.NoError(t, svc.ReorderItems(context.Background(), req))
	repo.AssertExpectations(t)
}

func TestReorderItems_Fail_MissingParams(t *testing.T) {
	svc, repo, _ := newService()

	for _, req := range []domain.ReorderRequest{
		{ShelfID: 7, ItemIDs: []int64{1}},
		{StoreID: 1, ItemIDs: []int64{1}},
		{StoreID: 1, ShelfID: 7},
		{StoreID: 1, ShelfID: 7, ItemIDs: []int64{}},
		{StoreID: 1, ShelfID: 7, ItemIDs: []int64{1, 0}},
	} {
		err := svc.ReorderItems(context.Background(), req)
		assert.IsType(t, &apperror.ValidationError{}, err, "%+v", req)
	}
	repo.AssertNotCalled(t, "ReorderShelf", mock.Anything, mock.Anything)
}

func TestReorderItems_Fail_Duplicate(t *testing.T) {
	svc, repo, _ := newService()

	err := svc.ReorderItems(context.Background(), domain.ReorderRequest{StoreID: 1, ShelfID: 7, ItemIDs: []int64{1, 2, 1}})

	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "ReorderShelf", mock.Anything, mock.Anything)
}

func TestReorderItems_Fail_RepoError(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("ReorderShelf", mock.Anything, mock.Anything).Return(int64(0), apperror.NewDBError("Falha", errors.New("timeout")))

	err := svc.ReorderItems(context.Background(), domain.ReorderRequest{StoreID: 1, ShelfID: 7, ItemIDs: []int64{1}})
	assert.IsType(t, &apperror.InternalError{}, err)
}

// --- Testes para SaveAssignments ---

func TestSaveAssignments(t *testing.T) {
	svc, repo, _ := newService()
	good := domain.SaveAssignmentsRequest{StoreID: 1, Rows: []domain.AssignmentInput{{ItemID: 10, TempZone: "CHILL", AreaID: "5", ShelfID: "7"}}}
	repo.On("SaveAssignments", mock.Anything, good).Return(nil)

	require.NoError(t, svc.SaveAssignments(context.Background(), good))

	badZone := domain.SaveAssignmentsRequest{StoreID: 1, Rows: []domain.AssignmentInput{{ItemID: 10, TempZone: "QUENTE"}}}
	assert.IsType(t, &apperror.ValidationError{}, svc.SaveAssignments(context.Background(), badZone))

	badShelf := domain.SaveAssignmentsRequest{StoreID: 1, Rows: []domain.AssignmentInput{{ItemID: 10, ShelfID: "A1"}}}
	assert.IsType(t, &apperror.ValidationError{}, svc.SaveAssignments(context.Background(), badShelf))

	repo.AssertNumberOfCalls(t, "SaveAssignments", 1)
}

// --- Testes para Layout ---

func TestLayout_GroupsItemsBySection(t *testing.T) {
	svc, repo, sections := newService()
	cfg := &domain.SortConfig{SortKey: domain.SortByItemName, SortDir: "asc"}

	repo.On("GetSortConfig", mock.Anything, int64(1)).Return(cfg, nil)
	sections.On("ListSections", mock.Anything, int64(1)).Return([]domain.ShelfSection{
		{Shelf: domain.Shelf{ID: 7, Code: "A1"}, Items: []domain.ShelfItem{}},
		{Shelf: domain.Shelf{ID: 8, Code: "B1"}, Items: []domain.ShelfItem{}},
	}, nil)
	repo.On("ListShelfItems", mock.Anything, int64(1), "i.name asc, i.code asc").Return([]domain.ShelfItem{
		{ShelfID: 7, ItemID: 101}, {ShelfID: 7, ItemID: 102}, {ShelfID: 8, ItemID: 201}, {ShelfID: 99, ItemID: 999},
	}, nil)
	repo.On("ListAssignments", mock.Anything, int64(1)).Return([]domain.AssignmentRow{{ItemID: 101}}, nil)

	layout, err := svc.Layout(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, layout.Sections, 2)
	assert.Len(t, layout.Sections[0].Items, 2)
	assert.Len(t, layout.Sections[1].Items, 1)
	assert.Len(t, layout.Assignments, 1)
	repo.AssertExpectations(t)
}

func TestLayout_DefaultOrderWithoutConfig(t *testing.T) {
	svc, repo, sections := newService()

	repo.On("GetSortConfig", mock.Anything, int64(1)).Return(nil, nil)
	sections.On("ListSections", mock.Anything, int64(1)).Return([]domain.ShelfSection{}, nil)
	repo.On("ListShelfItems", mock.Anything, int64(1), "i.code").Return([]domain.ShelfItem{}, nil)
	repo.On("ListAssignments", mock.Anything, int64(1)).Return([]domain.AssignmentRow{}, nil)

	_, err := svc.Layout(context.Background(), 1)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

// --- Testes para configuração de ordenação ---

func TestSaveSortConfig(t *testing.T) {
	svc, repo, _ := newService()
	repo.On("SaveSortConfig", mock.Anything, int64(1), domain.SortConfig{SortKey: "item_code", SortDir: "desc", SortKey2: "item_name", SortDir2: "asc"}).Return(nil)

	require.NoError(t, svc.SaveSortConfig(context.Background(), 1, domain.SortConfig{SortKey: "item_code", SortDir: "desc", SortKey2: "item_name"}))

	err := svc.SaveSortConfig(context.Background(), 1, domain.SortConfig{SortKey: "price", SortDir: "asc"})
	assert.IsType(t, &apperror.ValidationError{}, err)

	err = svc.SaveSortConfig(context.Background(), 0, domain.SortConfig{SortKey: "item_code", SortDir: "asc"})
	assert.IsType(t, &apperror.ValidationError{}, err)

	repo.AssertNumberOfCalls(t, "SaveSortConfig", 1)
}

func TestGetItemLocation_RequiresIDs(t *testing.T) {
	svc, repo, _ := newService()
	_, err := svc.GetItemLocation(context.Background(), 1, 0)
	assert.IsType(t, &apperror.ValidationError{}, err)
	repo.AssertNotCalled(t, "GetItemLocation", mock.Anything, mock.Anything, mock.Anything)
}
