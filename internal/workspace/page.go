package workspace

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelfmap/internal/catalog"
	"shelfmap/internal/display"
	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/pkg/optional"
	"shelfmap/internal/reorder"
	"shelfmap/internal/selector"
)

var (
	ErrRowNotFound     = errors.New("linha de atribuição não encontrada")
	ErrRowNotEditable  = errors.New("linha de atribuição sem campos editáveis")
	ErrSessionNotFound = errors.New("sessão de reordenação não encontrada")
	ErrNothingToSave   = errors.New("nenhuma linha de atribuição para gravar")
	ErrCatalogDegraded = errors.New("catálogo de prateleiras indisponível; atribuições não podem ser gravadas")
)

// Field identifica um dos três campos de uma linha de atribuição.
type Field string

const (
	FieldZone  Field = "zone"
	FieldArea  Field = "area"
	FieldShelf Field = "shelf"
)

// RowView é uma linha de atribuição como o navegador a renderiza.
type RowView struct {
	ItemID   int64                `json:"item_id"`
	Code     string               `json:"code"`
	Name     string               `json:"name"`
	Zone     string               `json:"zone"`
	Area     string               `json:"area"`
	Shelf    *selector.ShelfField `json:"shelf"`
	Editable bool                 `json:"editable"`
}

// View é o estado completo de uma página.
type View struct {
	ID       string             `json:"id"`
	StoreID  int64              `json:"store_id"`
	Ready    bool               `json:"ready"`
	Degraded bool               `json:"degraded"`
	Rows     []RowView          `json:"rows"`
	Sections []*display.Section `json:"sections"`
	Sessions []reorder.Snapshot `json:"sessions"`
}

type pageRow struct {
	row  *selector.Row
	code string
	name string
	// edited marca faixa ou área alteradas pelo operador antes do catálogo chegar.
	edited bool
}

// Page é a tela de localizações de uma loja aberta por um operador.
// Substitui o DOM: a exibição é uma projeção deste objeto.
type Page struct {
	ID      string
	StoreID int64

	mu          sync.Mutex
	board       *display.Board
	rows        []*pageRow
	byItem      map[int64]*pageRow
	controllers map[int64]*selector.Controller
	bound       bool
	sessions    map[string]*reorder.Session
	lastSeen    time.Time

	ready       chan struct{}
	loader      *catalog.Loader
	coordinator *reorder.Coordinator
	saver       AssignmentSaver
	publisher   Publisher
	saveTimeout time.Duration
	now         func() time.Time
	logger      logger.Logger
}

func newPage(storeID int64, layout domain.StoreLayout, deps Deps) *Page {
	p := &Page{
		ID:          uuid.NewString(),
		StoreID:     storeID,
		board:       display.FromLayout(layout),
		byItem:      make(map[int64]*pageRow, len(layout.Assignments)),
		controllers: make(map[int64]*selector.Controller),
		sessions:    make(map[string]*reorder.Session),
		lastSeen:    deps.Now(),
		ready:       make(chan struct{}),
		saver:       deps.Saver,
		publisher:   deps.Publisher,
		saveTimeout: deps.CommitTimeout,
		now:         deps.Now,
	}
	p.logger = deps.Logger.With(map[string]interface{}{"page_id": p.ID, "store_id": storeID})

	for _, a := range layout.Assignments {
		if a.ItemID <= 0 {
			continue
		}
		if _, dup := p.byItem[a.ItemID]; dup {
			continue
		}
		pr := &pageRow{
			row: &selector.Row{
				ItemID: a.ItemID,
				Zone:   optional.Some(a.TempZone),
				Area:   optional.Some(a.AreaID.String()),
				Shelf:  selector.RenderedField(a.ShelfID.String()),
			},
			code: a.Code,
			name: a.Name,
		}
		p.rows = append(p.rows, pr)
		p.byItem[a.ItemID] = pr
	}

	p.loader = catalog.NewLoader(deps.Shelves, fmt.Sprint(storeID), deps.CatalogTimeout, p.logger)
	p.coordinator = reorder.NewCoordinator(deps.Committer, p, hubNotifier{publisher: deps.Publisher}, deps.CommitTimeout, p.logger)
	return p
}

// start dispara a carga do catálogo e liga os controladores quando ela termina.
func (p *Page) start() {
	p.loader.Start()
	go p.bindWhenLoaded()
}

func (p *Page) bindWhenLoaded() {
	<-p.loader.Done()

	p.mu.Lock()
	rows := make([]*selector.Row, len(p.rows))
	for i, pr := range p.rows {
		rows[i] = pr.row
	}
	// Sem catálogo os campos ficam no placeholder de faixa indefinidamente.
	cat := p.loader.Catalog()
	if p.loader.Degraded() {
		cat = nil
	}
	for _, c := range selector.Bind(rows, cat) {
		p.controllers[c.Row().ItemID] = c
		if p.byItem[c.Row().ItemID].edited {
			c.OnConstraintChanged()
		}
	}
	p.bound = true
	p.mu.Unlock()

	close(p.ready)
	p.logger.Debug("Seletores de prateleira ligados.", map[string]interface{}{"rows": len(rows), "degraded": p.loader.Degraded()})
}

// Ready fecha quando os seletores foram ligados ao catálogo.
func (p *Page) Ready() <-chan struct{} {
	return p.ready
}

// Wait bloqueia até a página ficar pronta ou ctx expirar.
func (p *Page) Wait(ctx context.Context) error {
	select {
	case <-p.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// View devolve uma cópia do estado da página.
func (p *Page) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := View{
		ID:       p.ID,
		StoreID:  p.StoreID,
		Ready:    p.bound,
		Degraded: p.bound && p.loader.Degraded(),
		Rows:     make([]RowView, 0, len(p.rows)),
	}
	for _, pr := range p.rows {
		v.Rows = append(v.Rows, p.rowViewLocked(pr))
	}
	for _, s := range p.board.Sections() {
		v.Sections = append(v.Sections, s.Clone())
	}

	ids := make([]string, 0, len(p.sessions))
	for id := range p.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		v.Sessions = append(v.Sessions, p.sessions[id].Snapshot())
	}
	return v
}

func (p *Page) rowViewLocked(pr *pageRow) RowView {
	rv := RowView{
		ItemID: pr.row.ItemID,
		Code:   pr.code,
		Name:   pr.name,
		Zone:   pr.row.Zone.OrElse(""),
		Area:   pr.row.Area.OrElse(""),
	}
	if !p.bound {
		rv.Shelf = selector.PendingField()
		return rv
	}
	_, rv.Editable = p.controllers[pr.row.ItemID]
	rv.Shelf = pr.row.Shelf.Clone()
	return rv
}

// SetField aplica a mudança do operador num campo da linha. Antes de o catálogo
// chegar, faixa e área são gravadas mas o campo de prateleira segue pendente;
// na ligação essas linhas descartam a prateleira exibida.
func (p *Page) SetField(itemID int64, field Field, value string) (RowView, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touchLocked()

	pr, ok := p.byItem[itemID]
	if !ok {
		return RowView{}, ErrRowNotFound
	}

	if !p.bound {
		switch field {
		case FieldZone:
			pr.row.Zone = optional.Some(value)
			pr.edited = true
		case FieldArea:
			pr.row.Area = optional.Some(value)
			pr.edited = true
		case FieldShelf:
			return RowView{}, selector.ErrFieldDisabled
		default:
			return RowView{}, fmt.Errorf("campo desconhecido %q", field)
		}
		return p.rowViewLocked(pr), nil
	}

	c, ok := p.controllers[itemID]
	if !ok {
		return RowView{}, ErrRowNotEditable
	}
	switch field {
	case FieldZone:
		c.SetZone(value)
	case FieldArea:
		c.SetArea(value)
	case FieldShelf:
		if err := c.SelectShelf(value); err != nil {
			return RowView{}, err
		}
	default:
		return RowView{}, fmt.Errorf("campo desconhecido %q", field)
	}
	return p.rowViewLocked(pr), nil
}

// SaveAssignments envia faixa, área e prateleira de todas as linhas.
func (p *Page) SaveAssignments(ctx context.Context) error {
	p.mu.Lock()
	p.touchLocked()
	if p.bound && p.loader.Degraded() {
		p.mu.Unlock()
		return ErrCatalogDegraded
	}
	req := domain.SaveAssignmentsRequest{StoreID: p.StoreID}
	for _, pr := range p.rows {
		req.Rows = append(req.Rows, domain.AssignmentInput{
			ItemID:   pr.row.ItemID,
			TempZone: pr.row.Zone.OrElse(""),
			AreaID:   domain.Ref(pr.row.Area.OrElse("")),
			ShelfID:  domain.Ref(pr.row.Shelf.Value()),
		})
	}
	p.mu.Unlock()

	if len(req.Rows) == 0 {
		return ErrNothingToSave
	}

	if p.saveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.saveTimeout)
		defer cancel()
	}
	if err := p.saver.SaveAssignments(ctx, req); err != nil {
		return fmt.Errorf("falha ao gravar as atribuições: %w", err)
	}
	p.logger.Info("Atribuições gravadas.", map[string]interface{}{"rows": len(req.Rows)})
	return nil
}

// Section entrega uma cópia da seção exibida da prateleira.
func (p *Page) Section(shelfID int64) (*display.Section, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.board.Section(shelfID)
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// ProjectOrder reordena a seção exibida da prateleira.
func (p *Page) ProjectOrder(shelfID int64, ids []int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.board.ProjectOrder(shelfID, ids)
}

// OpenSession abre o editor de ordem de uma prateleira a partir da ordem exibida.
func (p *Page) OpenSession(shelfID int64) (*reorder.Session, error) {
	list, header, err := reorder.Build(p, shelfID)
	if err != nil {
		return nil, err
	}

	s := reorder.NewSession(p.StoreID, shelfID, header, list)
	if p.publisher != nil {
		s.OnChange(func(snap reorder.Snapshot) {
			p.publisher.Publish(snap.ID, EventSessionChanged, snap)
		})
	}

	p.mu.Lock()
	p.touchLocked()
	p.sessions[s.ID] = s
	p.mu.Unlock()

	p.logger.Debug("Sessão de reordenação aberta.", map[string]interface{}{"session_id": s.ID, "shelf_id": shelfID, "items": list.Len()})
	return s, nil
}

// Session busca uma sessão aberta da página.
func (p *Page) Session(id string) (*reorder.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.touchLocked()
	s, ok := p.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// CommitSession grava a ordem da sessão. No sucesso a sessão é encerrada; na falha
// ela continua aberta para nova tentativa, com a página já reordenada.
func (p *Page) CommitSession(ctx context.Context, id string) (reorder.Snapshot, error) {
	s, err := p.Session(id)
	if err != nil {
		return reorder.Snapshot{}, err
	}

	if err := p.coordinator.Commit(ctx, s); err != nil {
		return s.Snapshot(), err
	}
	p.forget(id)
	return s.Snapshot(), nil
}

// CancelSession fecha a sessão sem gravar.
func (p *Page) CancelSession(id string) error {
	s, err := p.Session(id)
	if err != nil {
		return err
	}
	if err := s.Cancel(); err != nil {
		return err
	}
	p.forget(id)
	return nil
}

func (p *Page) forget(id string) {
	p.mu.Lock()
	delete(p.sessions, id)
	p.mu.Unlock()
	if p.publisher != nil {
		p.publisher.CloseTopic(id)
	}
}

func (p *Page) closeSessions() {
	p.mu.Lock()
	ids := make([]string, 0, len(p.sessions))
	for id, s := range p.sessions {
		_ = s.Cancel()
		ids = append(ids, id)
	}
	p.sessions = make(map[string]*reorder.Session)
	p.mu.Unlock()

	if p.publisher != nil {
		for _, id := range ids {
			p.publisher.CloseTopic(id)
		}
	}
}

func (p *Page) touchLocked() {
	p.lastSeen = p.now()
}

func (p *Page) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}
