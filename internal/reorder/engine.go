package reorder

import (
	"errors"

	"shelfmap/internal/pkg/metrics"
	"shelfmap/internal/pkg/optional"
)

var (
	// ErrDragInProgress indica que já existe uma entrada sendo arrastada.
	ErrDragInProgress = errors.New("já existe um item sendo arrastado")
	// ErrUnknownEntry indica um item que não está na lista.
	ErrUnknownEntry = errors.New("item não está na lista")
)

// Box é a caixa vertical da entrada sob o ponteiro.
type Box struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// EntryView é uma entrada com a marca de "sendo movida".
type EntryView struct {
	Entry
	Dragging bool `json:"dragging"`
}

// Engine é a máquina de estados do arrasto sobre uma lista.
// No máximo uma entrada é arrastada por vez.
type Engine struct {
	list    *List
	dragged optional.Value[int64]
}

// NewEngine cria o motor ocioso sobre a lista.
func NewEngine(list *List) *Engine {
	return &Engine{list: list}
}

// PickUp começa a arrastar a entrada.
func (e *Engine) PickUp(itemID int64) error {
	if e.dragged.IsSome() {
		return ErrDragInProgress
	}
	if e.list.index(itemID) < 0 {
		return ErrUnknownEntry
	}
	e.dragged = optional.Some(itemID)
	return nil
}

// Hover reposiciona a entrada arrastada antes de overID, se o ponteiro está na metade
// de cima da caixa, ou depois dela. Devolve true quando a lista mudou.
func (e *Engine) Hover(overID int64, pointerY float64, box Box) bool {
	dragged, ok := e.dragged.Get()
	if !ok || overID == dragged {
		return false
	}

	from := e.list.index(dragged)
	over := e.list.index(overID)
	if from < 0 || over < 0 {
		return false
	}

	entries := e.list.entries
	moving := entries[from]
	rest := make([]Entry, 0, len(entries))
	rest = append(rest, entries[:from]...)
	rest = append(rest, entries[from+1:]...)

	at := over
	if from < over {
		at--
	}
	if pointerY-box.Top >= box.Height/2 {
		at++
	}

	if at == from {
		return false
	}

	next := make([]Entry, 0, len(entries))
	next = append(next, rest[:at]...)
	next = append(next, moving)
	next = append(next, rest[at:]...)
	e.list.entries = next
	metrics.RecordDragMove()
	return true
}

// Drop encerra o arrasto. A arrumação atual passa a ser a ordem candidata.
// Devolve false se não havia arrasto.
func (e *Engine) Drop() bool {
	if !e.dragged.IsSome() {
		return false
	}
	e.dragged = optional.None[int64]()
	return true
}

// Dragging devolve o item arrastado, se houver.
func (e *Engine) Dragging() (int64, bool) {
	return e.dragged.Get()
}

// View devolve a lista atual com a marca de arrasto.
func (e *Engine) View() []EntryView {
	dragged, dragging := e.dragged.Get()
	out := make([]EntryView, len(e.list.entries))
	for i, entry := range e.list.entries {
		out[i] = EntryView{Entry: entry, Dragging: dragging && entry.ItemID == dragged}
	}
	return out
}
