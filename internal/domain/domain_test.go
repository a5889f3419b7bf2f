package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfmap/internal/domain"
)

func TestRef_DecodesNumbersStringsAndNull(t *testing.T) {
	var shelves []domain.Shelf
	payload := `[
		{"id": 1, "code": "A1", "temp_zone": "CHILL", "area_id": 5},
		{"id": 2, "code": "A2", "temp_zone": "CHILL", "area_id": "5"},
		{"id": 3, "code": "A3", "temp_zone": null, "area_id": null},
		{"id": 4, "code": "A4"}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &shelves))

	assert.Equal(t, domain.Ref("5"), shelves[0].AreaID)
	assert.Equal(t, shelves[0].AreaID, shelves[1].AreaID)
	assert.Equal(t, domain.Ref(""), shelves[2].AreaID)
	assert.Equal(t, "", shelves[2].TempZone)
	assert.True(t, shelves[3].AreaID.IsZero())
}

func TestRef_Marshal(t *testing.T) {
	out, err := json.Marshal(map[string]domain.Ref{"a": "5", "b": "", "c": "X-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 5, "b": null, "c": "X-1"}`, string(out))

	id, ok := domain.Ref("12").Int64()
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	_, ok = domain.Ref("").Int64()
	assert.False(t, ok)
	assert.Equal(t, domain.Ref(""), domain.RefFromInt(0))
}

func TestShelf_Label(t *testing.T) {
	assert.Equal(t, "A1", domain.Shelf{Code: "A1"}.Label())
	assert.Equal(t, "A1", domain.Shelf{Code: "A1", Name: "   "}.Label())
	assert.Equal(t, "A1 Laticínios", domain.Shelf{Code: "A1", Name: " Laticínios "}.Label())
}

func TestNormalizeTempZone(t *testing.T) {
	assert.Equal(t, domain.ZoneAmbient, domain.NormalizeTempZone("常温"))
	assert.Equal(t, domain.ZoneChilled, domain.NormalizeTempZone("冷蔵"))
	assert.Equal(t, domain.ZoneFrozen, domain.NormalizeTempZone("FREEZE"))
	assert.Equal(t, domain.ZoneAmbient, domain.NormalizeTempZone("その他"))
	assert.Equal(t, domain.ZoneAmbient, domain.NormalizeTempZone(""))
}

func TestSortConfig_OrderBy(t *testing.T) {
	var none *domain.SortConfig
	assert.Equal(t, "i.code", none.OrderBy())

	cfg := &domain.SortConfig{SortKey: domain.SortByItemName, SortDir: "desc"}
	assert.Equal(t, "i.name desc, i.code asc", cfg.OrderBy())

	cfg.SortKey2 = domain.SortByItemCode
	assert.Equal(t, "i.name desc, i.code asc, i.code asc", cfg.OrderBy())

	bogus := &domain.SortConfig{SortKey: "price; DROP TABLE items", SortDir: "asc"}
	assert.Equal(t, "i.code asc", bogus.OrderBy())
}

func TestReorderRequest_DuplicateItem(t *testing.T) {
	_, dup := domain.ReorderRequest{ItemIDs: []int64{1, 2, 3}}.DuplicateItem()
	assert.False(t, dup)

	id, dup := domain.ReorderRequest{ItemIDs: []int64{1, 2, 1}}.DuplicateItem()
	assert.True(t, dup)
	assert.Equal(t, int64(1), id)
}

func TestShelfSection_Header(t *testing.T) {
	section := domain.ShelfSection{
		Shelf:    domain.Shelf{Code: "A1", Name: "Laticínios", TempZone: domain.ZoneChilled},
		AreaName: "Câmara 1",
	}
	assert.Equal(t, "A1 Laticínios / CHILL / Câmara 1", section.Header())
}
