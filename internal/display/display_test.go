package display_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfmap/internal/display"
	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/optional"
)

func rowsOf(ids ...int64) []display.Row {
	rows := make([]display.Row, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, display.Row{ItemID: optional.Some(id)})
	}
	return rows
}

func TestSection_Reorder(t *testing.T) {
	s := display.NewSection(7, "A1", rowsOf(101, 102, 103))
	s.Reorder([]int64{103, 101, 102})
	assert.Equal(t, []int64{103, 101, 102}, s.ItemIDs())
}

func TestSection_ReorderSkipsUnknownAndKeepsUnlisted(t *testing.T) {
	rows := append(rowsOf(1, 2), display.Row{Code: "sem-id"})
	rows = append(rows, rowsOf(3, 4)...)
	s := display.NewSection(7, "A1", rows)

	s.Reorder([]int64{4, 999, 2})

	got := s.Rows()
	require.Len(t, got, 5)
	assert.Equal(t, []int64{4, 2, 1, 3}, s.ItemIDs())
	assert.Equal(t, "sem-id", got[3].Code)
}

func TestSection_CloneIsIndependent(t *testing.T) {
	s := display.NewSection(7, "A1", rowsOf(1, 2))
	c := s.Clone()
	c.Reorder([]int64{2, 1})

	assert.Equal(t, []int64{1, 2}, s.ItemIDs())
	assert.Equal(t, []int64{2, 1}, c.ItemIDs())
}

func TestBoard_FromLayout(t *testing.T) {
	layout := domain.StoreLayout{
		StoreID: 1,
		Sections: []domain.ShelfSection{
			{
				Shelf:    domain.Shelf{ID: 7, Code: "A1", TempZone: "CHILL"},
				AreaName: "Câmara",
				Items:    []domain.ShelfItem{{ItemID: 101, Code: "101"}, {ItemID: 0, Code: "??"}, {ItemID: 102}},
			},
			{Shelf: domain.Shelf{ID: 8, Code: "B1"}},
		},
	}

	b := display.FromLayout(layout)
	require.Len(t, b.Sections(), 2)

	s, ok := b.Section(7)
	require.True(t, ok)
	assert.Equal(t, "A1 / CHILL / Câmara", s.Header)
	assert.Len(t, s.Rows(), 3)
	assert.Equal(t, []int64{101, 102}, s.ItemIDs())

	assert.True(t, b.ProjectOrder(7, []int64{102, 101}))
	assert.Equal(t, []int64{102, 101}, s.ItemIDs())
	assert.False(t, b.ProjectOrder(99, []int64{1}))
}

func TestSection_MarshalJSON(t *testing.T) {
	s := display.NewSection(7, "A1", []display.Row{{ItemID: optional.Some(int64(5)), Code: "X"}, {Code: "Y"}})
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shelf_id":7,"header":"A1","rows":[{"item_id":5,"code":"X","name":""},{"item_id":null,"code":"Y","name":""}]}`, string(out))

	var back display.Section
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, int64(7), back.ShelfID)
	assert.Equal(t, []int64{5}, back.ItemIDs())
	assert.Len(t, back.Rows(), 2)
}
