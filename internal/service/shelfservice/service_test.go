package shelfservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shelfmap/internal/domain"
	apperror "shelfmap/internal/errors"
	"shelfmap/internal/pkg/cache"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/service/shelfservice"
)

// MockShelfRepository é uma implementação mock da interface ShelfRepository
type MockShelfRepository struct {
	mock.Mock
}

func (m *MockShelfRepository) ListShelves(ctx context.Context, filter domain.ShelfFilter) ([]domain.Shelf, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shelf), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) GetInt(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCache) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

var shelves = []domain.Shelf{
	{ID: 1, Code: "A1", TempZone: "CHILL", AreaID: "5", SortOrder: 1},
	{ID: 2, Code: "A2", TempZone: "CHILL", AreaID: "5", SortOrder: 2},
}

func TestListShelves_MissingStore(t *testing.T) {
	repo := new(MockShelfRepository)
	svc := shelfservice.NewService(repo, nil, 0, logger.NewNop())

	_, err := svc.ListShelves(context.Background(), domain.ShelfFilter{})

	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "missing store_id")
	repo.AssertNotCalled(t, "ListShelves", mock.Anything, mock.Anything)
}

func TestListShelves_CacheHit(t *testing.T) {
	repo := new(MockShelfRepository)
	c := new(MockCache)
	payload, _ := json.Marshal(shelves)
	c.On("Get", mock.Anything, "shelfmap:shelves:3").Return(string(payload), nil)

	svc := shelfservice.NewService(repo, c, time.Minute, logger.NewNop())
	got, err := svc.ListShelves(context.Background(), domain.ShelfFilter{StoreID: 3})

	require.NoError(t, err)
	assert.Equal(t, shelves, got)
	repo.AssertNotCalled(t, "ListShelves", mock.Anything, mock.Anything)
}

func TestListShelves_CacheMissLoadsAndStores(t *testing.T) {
	repo := new(MockShelfRepository)
	repo.On("ListShelves", mock.Anything, domain.ShelfFilter{StoreID: 3}).Return(shelves, nil).Once()

	c := new(MockCache)
	c.On("Get", mock.Anything, "shelfmap:shelves:3").Return("", cache.ErrCacheMiss)
	c.On("Set", mock.Anything, "shelfmap:shelves:3", mock.Anything, time.Minute).Return(nil)

	svc := shelfservice.NewService(repo, c, time.Minute, logger.NewNop())
	got, err := svc.ListShelves(context.Background(), domain.ShelfFilter{StoreID: 3})

	require.NoError(t, err)
	assert.Equal(t, shelves, got)
	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestListShelves_CacheErrorFallsBackToRepository(t *testing.T) {
	repo := new(MockShelfRepository)
	repo.On("ListShelves", mock.Anything, mock.Anything).Return(shelves, nil)

	c := new(MockCache)
	c.On("Get", mock.Anything, mock.Anything).Return("", errors.New("redis fora"))
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis fora"))

	svc := shelfservice.NewService(repo, c, time.Minute, logger.NewNop())
	got, err := svc.ListShelves(context.Background(), domain.ShelfFilter{StoreID: 3})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestListShelves_FilteredBypassesCache(t *testing.T) {
	filter := domain.ShelfFilter{StoreID: 3, TempZone: "CHILL"}
	repo := new(MockShelfRepository)
	repo.On("ListShelves", mock.Anything, filter).Return(shelves[:1], nil)
	c := new(MockCache)

	svc := shelfservice.NewService(repo, c, time.Minute, logger.NewNop())
	got, err := svc.ListShelves(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, got, 1)
	c.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestListShelves_ConcurrentLoadsShareOneQuery(t *testing.T) {
	release := make(chan struct{})
	repo := new(MockShelfRepository)
	repo.On("ListShelves", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(shelves, nil).Once()

	c := new(MockCache)
	c.On("Get", mock.Anything, mock.Anything).Return("", cache.ErrCacheMiss)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := shelfservice.NewService(repo, c, time.Minute, logger.NewNop())

	var (
		wg      sync.WaitGroup
		started sync.WaitGroup
	)
	results := make([][]domain.Shelf, 5)
	for i := range results {
		wg.Add(1)
		started.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			results[i], _ = svc.ListShelves(context.Background(), domain.ShelfFilter{StoreID: 3})
		}(i)
	}
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, shelves, r)
	}
	repo.AssertNumberOfCalls(t, "ListShelves", 1)
}

func TestListShelves_SharedLoadIgnoresCallerCancellation(t *testing.T) {
	var loadCtx context.Context
	repo := new(MockShelfRepository)
	repo.On("ListShelves", mock.Anything, domain.ShelfFilter{StoreID: 3}).
		Run(func(args mock.Arguments) { loadCtx = args.Get(0).(context.Context) }).
		Return(shelves, nil).Once()

	c := new(MockCache)
	c.On("Get", mock.Anything, mock.Anything).Return("", cache.ErrCacheMiss)
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := shelfservice.NewService(repo, c, time.Minute, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := svc.ListShelves(ctx, domain.ShelfFilter{StoreID: 3})
	require.NoError(t, err)
	assert.Equal(t, shelves, got)
	require.NotNil(t, loadCtx)
	assert.NoError(t, loadCtx.Err())
}
