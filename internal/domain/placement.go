package domain

import (
	"fmt"
	"strings"
)

// Faixas de temperatura reconhecidas.
const (
	ZoneAmbient = "AMB"
	ZoneChilled = "CHILL"
	ZoneFrozen  = "FREEZE"
)

// TempZones lista as faixas na ordem exibida nos seletores.
var TempZones = []string{ZoneAmbient, ZoneChilled, ZoneFrozen}

// NormalizeTempZone converte a faixa do cadastro de itens (que ainda pode vir em japonês)
// para o código canônico. Valores desconhecidos caem em AMB.
func NormalizeTempZone(raw string) string {
	switch strings.TrimSpace(raw) {
	case "常温", ZoneAmbient:
		return ZoneAmbient
	case "冷蔵", ZoneChilled:
		return ZoneChilled
	case "冷凍", ZoneFrozen:
		return ZoneFrozen
	default:
		return ZoneAmbient
	}
}

// ShelfItem é um item mapeado (ativo) numa prateleira, já na ordem persistida.
type ShelfItem struct {
	ShelfID   int64  `json:"shelf_id"`
	ItemID    int64  `json:"item_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// ShelfSection é uma prateleira com seus itens, como a tela de localizações a exibe.
type ShelfSection struct {
	Shelf    Shelf       `json:"shelf"`
	AreaName string      `json:"area_name"`
	Items    []ShelfItem `json:"items"`
}

// Header resume a prateleira para o cabeçalho do editor de ordem.
func (s ShelfSection) Header() string {
	parts := []string{s.Shelf.Label()}
	if s.Shelf.TempZone != "" {
		parts = append(parts, s.Shelf.TempZone)
	}
	if s.AreaName != "" {
		parts = append(parts, s.AreaName)
	}
	return strings.Join(parts, " / ")
}

// AssignmentRow é a linha de atribuição já gravada para um item da loja:
// faixa, área e prateleira que a tela renderiza antes de qualquer interação.
type AssignmentRow struct {
	ItemID   int64  `json:"item_id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	TempZone string `json:"temp_zone"`
	AreaID   Ref    `json:"area_id"`
	ShelfID  Ref    `json:"shelf_id"`
}

// StoreLayout é tudo o que a tela de localizações de uma loja precisa renderizar.
type StoreLayout struct {
	StoreID     int64           `json:"store_id"`
	Sections    []ShelfSection  `json:"sections"`
	Assignments []AssignmentRow `json:"assignments"`
}

// ReorderRequest é o corpo do endpoint de gravação de ordem.
type ReorderRequest struct {
	StoreID int64   `json:"store_id" validate:"required,gt=0"`
	ShelfID int64   `json:"shelf_id" validate:"required,gt=0"`
	ItemIDs []int64 `json:"item_ids" validate:"required,min=1,dive,gt=0"`
}

// DuplicateItem devolve o primeiro item repetido da lista, se houver.
func (r ReorderRequest) DuplicateItem() (int64, bool) {
	seen := make(map[int64]struct{}, len(r.ItemIDs))
	for _, id := range r.ItemIDs {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}

// AssignmentInput é uma linha enviada pela tela de localizações ao salvar.
type AssignmentInput struct {
	ItemID   int64  `json:"item_id" validate:"required,gt=0"`
	TempZone string `json:"temp_zone" validate:"omitempty,oneof=AMB CHILL FREEZE"`
	AreaID   Ref    `json:"area_id"`
	ShelfID  Ref    `json:"shelf_id"`
}

// SaveAssignmentsRequest grava as preferências e o mapeamento de prateleira de vários itens.
type SaveAssignmentsRequest struct {
	StoreID int64             `json:"store_id" validate:"required,gt=0"`
	Rows    []AssignmentInput `json:"rows" validate:"required,min=1,dive"`
}

// ItemLocation é a localização resolvida de um item numa loja.
// Campos nil significam "sem informação".
type ItemLocation struct {
	TempZone  *string `json:"temp_zone"`
	AreaName  *string `json:"area_name"`
	ShelfCode *string `json:"shelf_code"`
	ShelfName *string `json:"shelf_name"`
}

// Chaves de ordenação aceitas na configuração por loja.
const (
	SortByItemCode = "item_code"
	SortByItemName = "item_name"
)

var sortColumns = map[string]string{
	SortByItemCode: "i.code",
	SortByItemName: "i.name",
}

// SortConfig é a ordenação secundária dos itens de uma prateleira (após sort_order).
type SortConfig struct {
	SortKey  string `json:"sort_key" validate:"required,oneof=item_code item_name"`
	SortDir  string `json:"sort_dir" validate:"required,oneof=asc desc"`
	SortKey2 string `json:"sort_key2,omitempty" validate:"omitempty,oneof=item_code item_name"`
	SortDir2 string `json:"sort_dir2,omitempty" validate:"omitempty,oneof=asc desc"`
}

// OrderBy monta a cláusula ORDER BY a partir de colunas conhecidas.
// Sem configuração a ordem legada é i.code.
func (c *SortConfig) OrderBy() string {
	if c == nil {
		return "i.code"
	}

	var parts []string
	if col, ok := sortColumns[c.SortKey]; ok {
		parts = append(parts, fmt.Sprintf("%s %s", col, direction(c.SortDir)))
	}
	if col, ok := sortColumns[c.SortKey2]; ok {
		parts = append(parts, fmt.Sprintf("%s %s", col, direction(c.SortDir2)))
	}
	parts = append(parts, "i.code asc")
	return strings.Join(parts, ", ")
}

func direction(dir string) string {
	if strings.EqualFold(dir, "desc") {
		return "desc"
	}
	return "asc"
}
