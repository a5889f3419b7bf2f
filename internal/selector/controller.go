// Package selector implementa os seletores em cascata de uma linha de atribuição:
// faixa de temperatura e área restringem as prateleiras oferecidas.
package selector

import (
	"errors"
	"strconv"

	"shelfmap/internal/catalog"
	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/optional"
)

var (
	// ErrNotACandidate indica uma prateleira fora das opções atuais do campo.
	ErrNotACandidate = errors.New("prateleira não está entre as opções disponíveis")
	// ErrFieldDisabled indica seleção num campo em estado de placeholder.
	ErrFieldDisabled = errors.New("campo de prateleira desabilitado")
)

// Row é uma linha de atribuição. Entradas None (ou Shelf nil) significam que a linha
// não tem aquele campo.
type Row struct {
	ItemID int64
	Zone   optional.Value[string]
	Area   optional.Value[string]
	Shelf  *ShelfField
}

// Controller mantém o campo de prateleira de uma linha coerente com faixa e área.
// Não é seguro para uso concorrente; quem o possui serializa as chamadas.
type Controller struct {
	row     *Row
	catalog *catalog.Catalog
}

// NewController liga o controlador a uma linha. Devolve false quando falta algum
// dos três campos; a linha é então ignorada.
func NewController(row *Row, cat *catalog.Catalog) (*Controller, bool) {
	if row == nil || !row.Zone.IsSome() || !row.Area.IsSome() || row.Shelf == nil {
		return nil, false
	}
	return &Controller{row: row, catalog: cat}, true
}

// Bind cria um controlador para cada linha bem formada e faz a passada inicial
// preservando a prateleira já renderizada.
func Bind(rows []*Row, cat *catalog.Catalog) []*Controller {
	controllers := make([]*Controller, 0, len(rows))
	for _, row := range rows {
		c, ok := NewController(row, cat)
		if !ok {
			continue
		}
		c.Refresh(false)
		controllers = append(controllers, c)
	}
	return controllers
}

// Row devolve a linha controlada.
func (c *Controller) Row() *Row {
	return c.row
}

// Field devolve uma cópia do campo de prateleira atual.
func (c *Controller) Field() *ShelfField {
	return c.row.Shelf.Clone()
}

// OnConstraintChanged recalcula o campo descartando a seleção anterior.
func (c *Controller) OnConstraintChanged() {
	c.Refresh(true)
}

// SetZone grava a faixa escolhida e recalcula o campo.
func (c *Controller) SetZone(zone string) {
	c.row.Zone = optional.Some(zone)
	c.OnConstraintChanged()
}

// SetArea grava a área escolhida e recalcula o campo.
func (c *Controller) SetArea(area string) {
	c.row.Area = optional.Some(area)
	c.OnConstraintChanged()
}

// Refresh reconstrói o campo de prateleira. Com clear=false a seleção anterior
// sobrevive se ainda for candidata; caso contrário o campo volta ao branco.
func (c *Controller) Refresh(clear bool) {
	prior := ""
	if !clear {
		prior = c.row.Shelf.Value()
	}

	zone := c.row.Zone.OrElse("")
	if c.catalog == nil || zone == "" {
		*c.row.Shelf = *placeholder(PromptZone)
		return
	}
	area := c.row.Area.OrElse("")
	if area == "" {
		*c.row.Shelf = *placeholder(PromptArea)
		return
	}

	candidates := c.catalog.Candidates(zone, area)
	options := make([]Option, 0, len(candidates)+1)
	options = append(options, Option{})

	selected := 0
	for _, s := range candidates {
		value := strconv.FormatInt(s.ID, 10)
		if prior != "" && value == prior && selected == 0 {
			selected = len(options)
		}
		options = append(options, optionFor(s, value))
	}
	options[selected].Selected = true

	*c.row.Shelf = ShelfField{Options: options}
}

// SelectShelf seleciona uma das opções atuais; "" volta ao branco.
func (c *Controller) SelectShelf(value string) error {
	field := c.row.Shelf
	if field.Disabled {
		return ErrFieldDisabled
	}

	idx := -1
	for i, o := range field.Options {
		if o.Value == value && !o.Disabled {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotACandidate
	}
	for i := range field.Options {
		field.Options[i].Selected = i == idx
	}
	return nil
}

func optionFor(s domain.Shelf, value string) Option {
	return Option{Label: s.Label(), Value: value}
}
