// Package workspace mantém as páginas do editor de localizações abertas pelos
// operadores: cada página liga o catálogo, os seletores em cascata, a projeção
// das prateleiras e as sessões de reordenação de uma loja.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shelfmap/internal/catalog"
	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/reorder"
)

// Tipos de evento publicados no tópico de cada sessão.
const (
	EventSessionChanged = "session_changed"
	EventCommitFailed   = "commit_failed"
)

// ErrPageNotFound indica página inexistente ou expirada.
var ErrPageNotFound = errors.New("página do editor não encontrada")

// LayoutFetcher busca o que a página exibe: seções de prateleira e linhas de atribuição.
type LayoutFetcher interface {
	FetchLayout(ctx context.Context, storeID int64) (domain.StoreLayout, error)
}

// AssignmentSaver grava as atribuições de uma página.
type AssignmentSaver interface {
	SaveAssignments(ctx context.Context, req domain.SaveAssignmentsRequest) error
}

// Publisher entrega eventos aos navegadores inscritos num tópico.
type Publisher interface {
	Publish(topic, eventType string, data interface{}) int
	CloseTopic(topic string)
}

// Deps são os colaboradores das páginas.
type Deps struct {
	Layout    LayoutFetcher
	Shelves   catalog.Fetcher
	Committer reorder.Committer
	Saver     AssignmentSaver
	Publisher Publisher

	CatalogTimeout time.Duration
	CommitTimeout  time.Duration
	TTL            time.Duration

	Logger logger.Logger
	Now    func() time.Time
}

// CommitFailure é o corpo do evento de falha de gravação.
type CommitFailure struct {
	Message string           `json:"message"`
	Session reorder.Snapshot `json:"session"`
}

type hubNotifier struct {
	publisher Publisher
}

// CommitFailed publica o aviso bloqueante de falha para os inscritos na sessão.
func (n hubNotifier) CommitFailed(snap reorder.Snapshot, _ error) {
	if n.publisher == nil {
		return
	}
	n.publisher.Publish(snap.ID, EventCommitFailed, CommitFailure{Message: reorder.FailureMessage, Session: snap})
}

// Registry guarda as páginas abertas.
type Registry struct {
	deps  Deps
	mu    sync.Mutex
	pages map[string]*Page
}

// NewRegistry cria o registro de páginas.
func NewRegistry(deps Deps) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &Registry{deps: deps, pages: make(map[string]*Page)}
}

// Open busca o layout da loja, cria a página e dispara a carga do catálogo.
// A página volta imediatamente; os seletores ficam pendentes até o catálogo chegar.
func (r *Registry) Open(ctx context.Context, storeID int64) (*Page, error) {
	if storeID <= 0 {
		return nil, fmt.Errorf("store_id inválido: %d", storeID)
	}

	layout, err := r.deps.Layout.FetchLayout(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar o layout da loja %d: %w", storeID, err)
	}

	p := newPage(storeID, layout, r.deps)
	rows := len(p.rows)
	r.mu.Lock()
	r.pages[p.ID] = p
	r.mu.Unlock()

	p.start()
	r.deps.Logger.Info("Página do editor aberta.", map[string]interface{}{
		"page_id":  p.ID,
		"store_id": storeID,
		"rows":     rows,
		"sections": len(layout.Sections),
	})
	return p, nil
}

// Get busca uma página aberta.
func (r *Registry) Get(id string) (*Page, error) {
	r.mu.Lock()
	p, ok := r.pages[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrPageNotFound
	}
	return p, nil
}

// Close descarta a página e cancela suas sessões.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	p, ok := r.pages[id]
	delete(r.pages, id)
	r.mu.Unlock()
	if !ok {
		return ErrPageNotFound
	}
	p.closeSessions()
	return nil
}

// Len é o número de páginas abertas.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pages)
}

// Sweep descarta as páginas sem uso há mais que o TTL. Devolve quantas saíram.
func (r *Registry) Sweep() int {
	if r.deps.TTL <= 0 {
		return 0
	}
	cutoff := r.deps.Now().Add(-r.deps.TTL)

	r.mu.Lock()
	var expired []*Page
	for id, p := range r.pages {
		if p.idleSince().Before(cutoff) {
			expired = append(expired, p)
			delete(r.pages, id)
		}
	}
	r.mu.Unlock()

	for _, p := range expired {
		p.closeSessions()
	}
	if len(expired) > 0 {
		r.deps.Logger.Info("Páginas ociosas descartadas.", map[string]interface{}{"count": len(expired)})
	}
	return len(expired)
}

// Run varre as páginas ociosas periodicamente até ctx terminar.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
