// Package reorder implementa o editor de ordem de uma prateleira: a lista editável,
// o arrasto que a reordena ao vivo e a gravação otimista da ordem final.
package reorder

import (
	"errors"

	"shelfmap/internal/display"
)

// ErrShelfNotDisplayed indica que a prateleira não tem seção na página.
var ErrShelfNotDisplayed = errors.New("prateleira não exibida na página")

// Entry é um item da lista de reordenação.
type Entry struct {
	ItemID int64  `json:"item_id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// List é a sequência editável de itens de uma prateleira numa sessão.
type List struct {
	entries []Entry
}

// NewList cria a lista na ordem dada.
func NewList(entries []Entry) *List {
	return &List{entries: append([]Entry(nil), entries...)}
}

// Entries devolve uma cópia das entradas na ordem atual.
func (l *List) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// ItemIDs devolve os IDs na ordem atual. É só isso que sai da sessão.
func (l *List) ItemIDs() []int64 {
	ids := make([]int64, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.ItemID
	}
	return ids
}

// Len é o número de entradas.
func (l *List) Len() int {
	return len(l.entries)
}

func (l *List) index(itemID int64) int {
	for i, e := range l.entries {
		if e.ItemID == itemID {
			return i
		}
	}
	return -1
}

// SectionSource entrega a seção exibida de uma prateleira.
type SectionSource interface {
	Section(shelfID int64) (*display.Section, bool)
}

// Build copia as linhas da seção, na ordem exibida, para uma nova lista.
// Linhas sem ID recuperável ficam de fora. Devolve também o cabeçalho da prateleira.
func Build(src SectionSource, shelfID int64) (*List, string, error) {
	section, ok := src.Section(shelfID)
	if !ok || section == nil {
		return nil, "", ErrShelfNotDisplayed
	}

	rows := section.Rows()
	entries := make([]Entry, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, r := range rows {
		id, ok := r.ItemID.Get()
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		entries = append(entries, Entry{ItemID: id, Code: r.Code, Name: r.Name})
	}
	return NewList(entries), section.Header, nil
}
