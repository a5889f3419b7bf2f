package reorder

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionClosed indica operação numa sessão já gravada ou cancelada.
var ErrSessionClosed = errors.New("sessão de reordenação encerrada")

// State é a fase de uma sessão de edição.
type State string

const (
	StateOpen      State = "open"
	StateCommitted State = "committed"
	StateCancelled State = "cancelled"
)

// Snapshot é a visão imutável de uma sessão num instante.
type Snapshot struct {
	ID      string      `json:"id"`
	StoreID int64       `json:"store_id"`
	ShelfID int64       `json:"shelf_id"`
	Header  string      `json:"header"`
	State   State       `json:"state"`
	Unsaved bool        `json:"unsaved"`
	Error   string      `json:"error,omitempty"`
	Entries []EntryView `json:"entries"`
}

// Session é uma edição de ordem de uma prateleira, do abrir ao gravar ou cancelar.
// Todas as operações são serializadas pelo mutex da sessão.
type Session struct {
	ID      string
	StoreID int64
	ShelfID int64
	Header  string

	mu         sync.Mutex
	list       *List
	engine     *Engine
	state      State
	committing bool
	unsaved    bool
	lastErr    string
	listeners  []func(Snapshot)
}

// NewSession abre uma sessão sobre a lista.
func NewSession(storeID, shelfID int64, header string, list *List) *Session {
	return &Session{
		ID:      uuid.NewString(),
		StoreID: storeID,
		ShelfID: shelfID,
		Header:  header,
		list:    list,
		engine:  NewEngine(list),
		state:   StateOpen,
	}
}

// OnChange registra um ouvinte chamado, fora do lock, a cada mudança visível.
func (s *Session) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot devolve o estado atual.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:      s.ID,
		StoreID: s.StoreID,
		ShelfID: s.ShelfID,
		Header:  s.Header,
		State:   s.state,
		Unsaved: s.unsaved,
		Error:   s.lastErr,
		Entries: s.engine.View(),
	}
}

// State devolve a fase atual.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Unsaved indica que a ordem exibida ainda não foi aceita pelo backend.
func (s *Session) Unsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaved
}

// PickUp começa a arrastar um item.
func (s *Session) PickUp(itemID int64) error {
	return s.mutate(func() (bool, error) {
		if err := s.engine.PickUp(itemID); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Hover move o item arrastado conforme a posição do ponteiro sobre overID.
func (s *Session) Hover(overID int64, pointerY float64, box Box) (bool, error) {
	var moved bool
	err := s.mutate(func() (bool, error) {
		moved = s.engine.Hover(overID, pointerY, box)
		return moved, nil
	})
	return moved, err
}

// Drop solta o item arrastado.
func (s *Session) Drop() error {
	return s.mutate(func() (bool, error) {
		return s.engine.Drop(), nil
	})
}

// Cancel fecha a sessão sem gravar nem tocar na página.
func (s *Session) Cancel() error {
	return s.mutate(func() (bool, error) {
		s.engine.Drop()
		s.state = StateCancelled
		return true, nil
	})
}

// mutate roda fn com a sessão aberta e avisa os ouvintes se fn relatar mudança.
// Enquanto uma gravação está em voo a lista enviada não pode mudar.
func (s *Session) mutate(fn func() (bool, error)) error {
	s.mu.Lock()
	switch {
	case s.state != StateOpen:
		s.mu.Unlock()
		return ErrSessionClosed
	case s.committing:
		s.mu.Unlock()
		return ErrCommitInProgress
	}
	changed, err := fn()
	snap, listeners := s.changedLocked(changed && err == nil)
	s.mu.Unlock()

	emit(listeners, snap)
	return err
}

func (s *Session) changedLocked(changed bool) (Snapshot, []func(Snapshot)) {
	if !changed || len(s.listeners) == 0 {
		return Snapshot{}, nil
	}
	return s.snapshotLocked(), slices.Clone(s.listeners)
}

func emit(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}

// beginCommit captura a ordem candidata e marca a sessão como gravando.
func (s *Session) beginCommit() ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.state != StateOpen:
		return nil, ErrSessionClosed
	case s.committing:
		return nil, ErrCommitInProgress
	}
	if _, dragging := s.engine.Dragging(); dragging {
		return nil, ErrDragInProgress
	}
	s.committing = true
	return s.list.ItemIDs(), nil
}

func (s *Session) finishCommit(failure string) Snapshot {
	s.mu.Lock()
	s.committing = false
	if failure == "" {
		s.state = StateCommitted
		s.unsaved = false
		s.lastErr = ""
	} else {
		s.unsaved = true
		s.lastErr = failure
	}
	snap := s.snapshotLocked()
	listeners := slices.Clone(s.listeners)
	s.mu.Unlock()

	emit(listeners, snap)
	return snap
}
