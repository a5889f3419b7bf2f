// Package catalog carrega o catálogo de prateleiras de uma loja uma única vez
// e responde às consultas de candidatos dos seletores.
package catalog

import (
	"context"

	"shelfmap/internal/domain"
)

// Fetcher busca as prateleiras de uma loja no endpoint de catálogo.
type Fetcher interface {
	FetchShelves(ctx context.Context, storeID string) ([]domain.Shelf, error)
}

// Catalog é o conjunto imutável de prateleiras de uma loja, na ordem em que chegou.
type Catalog struct {
	shelves []domain.Shelf
	byID    map[int64]int
}

// New monta o catálogo preservando a ordem recebida.
func New(shelves []domain.Shelf) *Catalog {
	c := &Catalog{
		shelves: append([]domain.Shelf(nil), shelves...),
		byID:    make(map[int64]int, len(shelves)),
	}
	for i, s := range c.shelves {
		if _, dup := c.byID[s.ID]; !dup {
			c.byID[s.ID] = i
		}
	}
	return c
}

// Empty é o catálogo usado quando a carga falha.
func Empty() *Catalog {
	return New(nil)
}

// Candidates devolve as prateleiras cuja faixa e área são textualmente iguais às informadas,
// na ordem do catálogo. O slice devolvido é uma cópia.
func (c *Catalog) Candidates(zone, area string) []domain.Shelf {
	if c == nil {
		return nil
	}
	var out []domain.Shelf
	for _, s := range c.shelves {
		if s.TempZone == zone && s.AreaID.String() == area {
			out = append(out, s)
		}
	}
	return out
}

// Shelves devolve uma cópia de todas as prateleiras.
func (c *Catalog) Shelves() []domain.Shelf {
	if c == nil {
		return nil
	}
	return append([]domain.Shelf(nil), c.shelves...)
}

// Len é o número de prateleiras.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.shelves)
}

// Lookup busca uma prateleira pelo ID.
func (c *Catalog) Lookup(id int64) (domain.Shelf, bool) {
	if c == nil {
		return domain.Shelf{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return domain.Shelf{}, false
	}
	return c.shelves[i], true
}
