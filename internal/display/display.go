// Package display guarda a projeção tipada da tela de localizações: as seções de
// prateleira com suas linhas de itens, na ordem em que aparecem.
package display

import (
	"encoding/json"

	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/optional"
)

// Row é uma linha da tabela de itens de uma prateleira.
// ItemID é None quando a linha não traz identificador recuperável.
type Row struct {
	ItemID optional.Value[int64] `json:"item_id"`
	Code   string                `json:"code"`
	Name   string                `json:"name"`
}

// Section é a tabela de itens de uma prateleira.
type Section struct {
	ShelfID int64  `json:"shelf_id"`
	Header  string `json:"header"`
	rows    []Row
}

// NewSection cria a seção com as linhas na ordem dada.
func NewSection(shelfID int64, header string, rows []Row) *Section {
	return &Section{ShelfID: shelfID, Header: header, rows: append([]Row(nil), rows...)}
}

// Rows devolve uma cópia das linhas na ordem atual.
func (s *Section) Rows() []Row {
	return append([]Row(nil), s.rows...)
}

// Clone devolve uma cópia independente da seção.
func (s *Section) Clone() *Section {
	return NewSection(s.ShelfID, s.Header, s.rows)
}

// Reorder reposiciona as linhas conforme ids. IDs sem linha são ignorados; linhas
// cujo ID não está na lista (ou sem ID) ficam depois, na ordem relativa que tinham;
// a projeção nunca remove linhas da página.
func (s *Section) Reorder(ids []int64) {
	byID := make(map[int64]int, len(s.rows))
	for i, r := range s.rows {
		if id, ok := r.ItemID.Get(); ok {
			if _, dup := byID[id]; !dup {
				byID[id] = i
			}
		}
	}

	used := make([]bool, len(s.rows))
	out := make([]Row, 0, len(s.rows))
	for _, id := range ids {
		i, ok := byID[id]
		if !ok || used[i] {
			continue
		}
		used[i] = true
		out = append(out, s.rows[i])
	}
	for i, r := range s.rows {
		if !used[i] {
			out = append(out, r)
		}
	}
	s.rows = out
}

// MarshalJSON inclui as linhas na ordem atual.
func (s *Section) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ShelfID int64  `json:"shelf_id"`
		Header  string `json:"header"`
		Rows    []Row  `json:"rows"`
	}{s.ShelfID, s.Header, s.rows})
}

// UnmarshalJSON lê o formato produzido por MarshalJSON.
func (s *Section) UnmarshalJSON(data []byte) error {
	var raw struct {
		ShelfID int64  `json:"shelf_id"`
		Header  string `json:"header"`
		Rows    []Row  `json:"rows"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Section{ShelfID: raw.ShelfID, Header: raw.Header, rows: raw.Rows}
	return nil
}

// ItemIDs devolve os IDs recuperáveis na ordem atual.
func (s *Section) ItemIDs() []int64 {
	ids := make([]int64, 0, len(s.rows))
	for _, r := range s.rows {
		if id, ok := r.ItemID.Get(); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Board é o conjunto de seções de uma página, na ordem de exibição.
type Board struct {
	sections []*Section
	byShelf  map[int64]*Section
}

// FromLayout projeta o layout da loja em seções de exibição.
func FromLayout(layout domain.StoreLayout) *Board {
	b := &Board{byShelf: make(map[int64]*Section, len(layout.Sections))}
	for _, sec := range layout.Sections {
		rows := make([]Row, 0, len(sec.Items))
		for _, it := range sec.Items {
			row := Row{Code: it.Code, Name: it.Name}
			if it.ItemID > 0 {
				row.ItemID = optional.Some(it.ItemID)
			}
			rows = append(rows, row)
		}
		b.add(NewSection(sec.Shelf.ID, sec.Header(), rows))
	}
	return b
}

func (b *Board) add(s *Section) {
	if _, dup := b.byShelf[s.ShelfID]; dup {
		return
	}
	b.sections = append(b.sections, s)
	b.byShelf[s.ShelfID] = s
}

// Section devolve a seção da prateleira, se exibida.
func (b *Board) Section(shelfID int64) (*Section, bool) {
	s, ok := b.byShelf[shelfID]
	return s, ok
}

// Sections devolve as seções na ordem de exibição.
func (b *Board) Sections() []*Section {
	return append([]*Section(nil), b.sections...)
}

// ProjectOrder aplica a ordem à seção da prateleira. Devolve false se ela não é exibida.
func (b *Board) ProjectOrder(shelfID int64, ids []int64) bool {
	s, ok := b.byShelf[shelfID]
	if !ok {
		return false
	}
	s.Reorder(ids)
	return true
}
