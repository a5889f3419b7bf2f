package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"shelfmap/internal/catalog"
	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchShelves(ctx context.Context, storeID string) ([]domain.Shelf, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Shelf), args.Error(1)
}

var sample = []domain.Shelf{
	{ID: 1, Code: "A1", TempZone: "CHILL", AreaID: "5"},
	{ID: 2, Code: "B1", TempZone: "FREEZE", AreaID: "5"},
	{ID: 3, Code: "A2", TempZone: "CHILL", AreaID: "5"},
	{ID: 4, Code: "C1", TempZone: "CHILL", AreaID: "6"},
	{ID: 5, Code: "X", TempZone: "", AreaID: ""},
}

func TestCandidates_MatchBothFieldsInCatalogOrder(t *testing.T) {
	cat := catalog.New(sample)

	for _, tc := range []struct {
		zone, area string
		want       []int64
	}{
		{"CHILL", "5", []int64{1, 3}},
		{"CHILL", "6", []int64{4}},
		{"FREEZE", "6", nil},
		{"AMB", "5", nil},
		{"", "", []int64{5}},
	} {
		var got []int64
		for _, s := range cat.Candidates(tc.zone, tc.area) {
			got = append(got, s.ID)
		}
		assert.Equal(t, tc.want, got, "zone=%q area=%q", tc.zone, tc.area)
	}
}

func TestCandidates_ReturnsCopy(t *testing.T) {
	cat := catalog.New(sample)
	got := cat.Candidates("CHILL", "5")
	got[0].Code = "mexido"

	again := cat.Candidates("CHILL", "5")
	assert.Equal(t, "A1", again[0].Code)
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var cat *catalog.Catalog
	assert.Nil(t, cat.Candidates("CHILL", "5"))
	assert.Zero(t, cat.Len())
	_, ok := cat.Lookup(1)
	assert.False(t, ok)
}

func TestCatalog_Lookup(t *testing.T) {
	cat := catalog.New(sample)
	s, ok := cat.Lookup(4)
	require.True(t, ok)
	assert.Equal(t, "C1", s.Code)
	assert.Equal(t, 5, cat.Len())
}

func TestLoader_LoadsOnce(t *testing.T) {
	f := new(MockFetcher)
	f.On("FetchShelves", mock.Anything, "42").Return(sample, nil).Once()

	l := catalog.NewLoader(f, "42", time.Second, logger.NewNop())
	assert.Nil(t, l.Catalog())

	l.Start()
	l.Start()
	require.NoError(t, l.Wait(context.Background()))

	assert.Equal(t, 5, l.Catalog().Len())
	assert.False(t, l.Degraded())
	f.AssertExpectations(t)
}

func TestLoader_FailureDegradesToEmptyCatalog(t *testing.T) {
	f := new(MockFetcher)
	f.On("FetchShelves", mock.Anything, "42").Return(nil, errors.New("resposta malformada"))

	l := catalog.NewLoader(f, "42", time.Second, logger.NewNop())
	l.Start()
	<-l.Done()

	require.NotNil(t, l.Catalog())
	assert.Zero(t, l.Catalog().Len())
	assert.True(t, l.Degraded())
}

func TestLoader_WaitHonoursContext(t *testing.T) {
	release := make(chan struct{})
	f := new(MockFetcher)
	f.On("FetchShelves", mock.Anything, "42").
		Run(func(mock.Arguments) { <-release }).
		Return(sample, nil)

	l := catalog.NewLoader(f, "42", 0, logger.NewNop())
	l.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Wait(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, l.Wait(context.Background()))
}
