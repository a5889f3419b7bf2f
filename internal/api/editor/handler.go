// Package editor expõe as páginas do editor de localizações: seletores em cascata,
// sessões de reordenação por arrasto e o canal websocket de cada sessão.
package editor

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"shelfmap/internal/api/respond"
	apperror "shelfmap/internal/errors"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/reorder"
	"shelfmap/internal/selector"
	"shelfmap/internal/websocket"
	"shelfmap/internal/workspace"
)

// Pages é o registro de páginas abertas.
type Pages interface {
	Open(ctx context.Context, storeID int64) (*workspace.Page, error)
	Get(id string) (*workspace.Page, error)
	Close(id string) error
}

// Handler agrupa os handlers do editor.
type Handler struct {
	Pages       Pages
	Hub         *websocket.Hub
	Logger      logger.Logger
	WaitTimeout time.Duration
}

// NewHandler cria o Handler do editor.
func NewHandler(pages Pages, hub *websocket.Hub, log logger.Logger) *Handler {
	return &Handler{
		Pages:       pages,
		Hub:         hub,
		Logger:      log,
		WaitTimeout: 15 * time.Second,
	}
}

// OpenPageRequest abre uma página para uma loja.
type OpenPageRequest struct {
	StoreID int64 `json:"store_id" example:"1"`
}

// FieldRequest é o novo valor de um campo da linha.
type FieldRequest struct {
	Value string `json:"value" example:"5"`
}

// OpenSessionRequest abre o editor de ordem de uma prateleira.
type OpenSessionRequest struct {
	ShelfID int64 `json:"shelf_id" example:"7"`
}

// PickUpRequest inicia o arrasto de um item.
type PickUpRequest struct {
	ItemID int64 `json:"item_id" example:"101"`
}

// HoverRequest descreve o ponteiro sobre a entrada item_id.
type HoverRequest struct {
	ItemID   int64   `json:"item_id" example:"103"`
	PointerY float64 `json:"pointer_y" example:"130"`
	Top      float64 `json:"top" example:"100"`
	Height   float64 `json:"height" example:"40"`
}

// HoverResponse informa se a lista mudou.
type HoverResponse struct {
	Moved   bool             `json:"moved"`
	Session reorder.Snapshot `json:"session"`
}

// CommitResponse é o resultado da gravação da ordem.
type CommitResponse struct {
	Saved   bool             `json:"saved"`
	Message string           `json:"message,omitempty"`
	Session reorder.Snapshot `json:"session"`
}

// Mount registra as rotas do editor no subrouter informado.
func (h *Handler) Mount(r *mux.Router) {
	r.HandleFunc("/pages", h.OpenPageHandler).Methods(http.MethodPost)
	r.HandleFunc("/pages/{page}", h.GetPageHandler).Methods(http.MethodGet)
	r.HandleFunc("/pages/{page}", h.ClosePageHandler).Methods(http.MethodDelete)
	r.HandleFunc("/pages/{page}/save", h.SavePageHandler).Methods(http.MethodPost)
	r.HandleFunc("/pages/{page}/rows/{item}/{field}", h.SetFieldHandler).Methods(http.MethodPut)
	r.HandleFunc("/pages/{page}/sessions", h.OpenSessionHandler).Methods(http.MethodPost)
	r.HandleFunc("/pages/{page}/sessions/{session}/pickup", h.PickUpHandler).Methods(http.MethodPost)
	r.HandleFunc("/pages/{page}/sessions/{session}/hover", h.HoverHandler).Methods(http.MethodPost)
	r.HandleFunc("/pages/{page}/sessions/{session}/drop", h.DropHandler).Methods(http.MethodPost)
	r.HandleFunc("/pages/{page}/sessions/{session}/commit", h.CommitHandler).Methods(http.MethodPost)
	r.HandleFunc("/pages/{page}/sessions/{session}", h.CancelSessionHandler).Methods(http.MethodDelete)
	r.HandleFunc("/pages/{page}/sessions/{session}/ws", h.SessionSocketHandler).Methods(http.MethodGet)
}

// translate converte os erros do editor para a taxonomia HTTP.
func translate(err error) error {
	var appErr apperror.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, workspace.ErrPageNotFound),
		errors.Is(err, workspace.ErrSessionNotFound),
		errors.Is(err, workspace.ErrRowNotFound),
		errors.Is(err, reorder.ErrShelfNotDisplayed),
		errors.Is(err, reorder.ErrUnknownEntry):
		return apperror.NewNotFoundError(err.Error())
	case errors.Is(err, reorder.ErrSessionClosed),
		errors.Is(err, reorder.ErrDragInProgress),
		errors.Is(err, reorder.ErrCommitInProgress),
		errors.Is(err, selector.ErrFieldDisabled),
		errors.Is(err, workspace.ErrRowNotEditable),
		errors.Is(err, workspace.ErrCatalogDegraded):
		return apperror.NewConflictError(err.Error())
	case errors.Is(err, selector.ErrNotACandidate),
		errors.Is(err, workspace.ErrNothingToSave):
		return apperror.NewValidationError(err.Error())
	default:
		return apperror.NewUpstreamError(err.Error(), err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	respond.Handle(w, r, h.Logger, nil, translate(err), http.StatusOK)
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) (*workspace.Page, bool) {
	p, err := h.Pages.Get(mux.Vars(r)["page"])
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*workspace.Page, *reorder.Session, bool) {
	p, ok := h.page(w, r)
	if !ok {
		return nil, nil, false
	}
	s, err := p.Session(mux.Vars(r)["session"])
	if err != nil {
		h.fail(w, r, err)
		return nil, nil, false
	}
	return p, s, true
}

// OpenPageHandler lida com a requisição POST /v1/editor/pages.
// @Summary Abre uma página do editor de localizações
// @Description Carrega o layout da loja e dispara a carga do catálogo em segundo plano. Os campos de prateleira ficam pendentes até o catálogo chegar.
// @Tags editor
// @Accept json
// @Produce json
// @Param request body OpenPageRequest true "Loja"
// @Success 201 {object} workspace.View "Página aberta"
// @Failure 400 {object} domain.ErrorResponse "store_id inválido"
// @Failure 502 {object} domain.ErrorResponse "Falha ao carregar o layout"
// @Security ApiKeyAuth
// @Router /v1/editor/pages [post]
func (h *Handler) OpenPageHandler(w http.ResponseWriter, r *http.Request) {
	var req OpenPageRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.StoreID <= 0 {
		h.fail(w, r, apperror.NewValidationError("missing store_id"))
		return
	}

	p, err := h.Pages.Open(r.Context(), req.StoreID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, p.View(), nil, http.StatusCreated)
}

// GetPageHandler lida com a requisição GET /v1/editor/pages/{page}.
// @Summary Estado da página do editor
// @Description Com wait=1 a resposta aguarda a ligação dos seletores ao catálogo.
// @Tags editor
// @Produce json
// @Param page path string true "ID da página"
// @Param wait query bool false "Aguardar o catálogo"
// @Success 200 {object} workspace.View "Página"
// @Failure 404 {object} domain.ErrorResponse "Página não encontrada"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page} [get]
func (h *Handler) GetPageHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		ctx, cancel := context.WithTimeout(r.Context(), h.WaitTimeout)
		defer cancel()
		if err := p.Wait(ctx); err != nil {
			h.Logger.Debug("Página ainda sem catálogo ao fim da espera.", map[string]interface{}{"page_id": p.ID})
		}
	}
	respond.Handle(w, r, h.Logger, p.View(), nil, http.StatusOK)
}

// ClosePageHandler lida com a requisição DELETE /v1/editor/pages/{page}.
// @Summary Fecha a página do editor
// @Tags editor
// @Param page path string true "ID da página"
// @Success 204 "Nenhum conteúdo"
// @Failure 404 {object} domain.ErrorResponse "Página não encontrada"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page} [delete]
func (h *Handler) ClosePageHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.Pages.Close(mux.Vars(r)["page"]); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, nil, nil, http.StatusNoContent)
}

// SetFieldHandler lida com a requisição PUT /v1/editor/pages/{page}/rows/{item}/{field}.
// @Summary Altera faixa, área ou prateleira de uma linha
// @Description Mudar faixa ou área recalcula as prateleiras candidatas; a seleção anterior só permanece se ainda for candidata.
// @Tags editor
// @Accept json
// @Produce json
// @Param page path string true "ID da página"
// @Param item path int true "ID do item"
// @Param field path string true "zone, area ou shelf"
// @Param request body FieldRequest true "Novo valor"
// @Success 200 {object} workspace.RowView "Linha atualizada"
// @Failure 400 {object} domain.ErrorResponse "Campo ou valor inválido"
// @Failure 404 {object} domain.ErrorResponse "Página ou linha não encontrada"
// @Failure 409 {object} domain.ErrorResponse "Campo de prateleira desabilitado"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/rows/{item}/{field} [put]
func (h *Handler) SetFieldHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	itemID, err := strconv.ParseInt(vars["item"], 10, 64)
	if err != nil || itemID <= 0 {
		h.fail(w, r, apperror.NewValidationError("item inválido"))
		return
	}
	field := workspace.Field(vars["field"])
	switch field {
	case workspace.FieldZone, workspace.FieldArea, workspace.FieldShelf:
	default:
		h.fail(w, r, apperror.NewValidationError("campo deve ser zone, area ou shelf"))
		return
	}

	var req FieldRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	row, err := p.SetField(itemID, field, req.Value)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, row, nil, http.StatusOK)
}

// SavePageHandler lida com a requisição POST /v1/editor/pages/{page}/save.
// @Summary Grava as atribuições da página
// @Tags editor
// @Produce json
// @Param page path string true "ID da página"
// @Success 200 {object} respond.OKResponse "Atribuições gravadas"
// @Failure 409 {object} domain.ErrorResponse "Catálogo indisponível"
// @Failure 502 {object} domain.ErrorResponse "Backend recusou a gravação"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/save [post]
func (h *Handler) SavePageHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	if err := p.SaveAssignments(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, respond.OKResponse{OK: true}, nil, http.StatusOK)
}

// OpenSessionHandler lida com a requisição POST /v1/editor/pages/{page}/sessions.
// @Summary Abre o editor de ordem de uma prateleira
// @Description A lista parte da ordem exibida na página; linhas sem ID de item são ignoradas.
// @Tags editor
// @Accept json
// @Produce json
// @Param page path string true "ID da página"
// @Param request body OpenSessionRequest true "Prateleira"
// @Success 201 {object} reorder.Snapshot "Sessão aberta"
// @Failure 404 {object} domain.ErrorResponse "Prateleira não exibida"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/sessions [post]
func (h *Handler) OpenSessionHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}

	var req OpenSessionRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	s, err := p.OpenSession(req.ShelfID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, s.Snapshot(), nil, http.StatusCreated)
}

// PickUpHandler lida com a requisição POST .../sessions/{session}/pickup.
// @Summary Inicia o arrasto de um item
// @Tags editor
// @Accept json
// @Produce json
// @Param page path string true "ID da página"
// @Param session path string true "ID da sessão"
// @Param request body PickUpRequest true "Item arrastado"
// @Success 200 {object} reorder.Snapshot "Sessão"
// @Failure 409 {object} domain.ErrorResponse "Arrasto já em andamento ou sessão encerrada"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/sessions/{session}/pickup [post]
func (h *Handler) PickUpHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req PickUpRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := s.PickUp(req.ItemID); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, s.Snapshot(), nil, http.StatusOK)
}

// HoverHandler lida com a requisição POST .../sessions/{session}/hover.
// @Summary Move o item arrastado conforme o ponteiro
// @Description Na metade superior da entrada o item vai antes dela; na inferior, depois.
// @Tags editor
// @Accept json
// @Produce json
// @Param page path string true "ID da página"
// @Param session path string true "ID da sessão"
// @Param request body HoverRequest true "Posição do ponteiro"
// @Success 200 {object} HoverResponse "Resultado"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/sessions/{session}/hover [post]
func (h *Handler) HoverHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req HoverRequest
	if err := respond.Decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	moved, err := s.Hover(req.ItemID, req.PointerY, reorder.Box{Top: req.Top, Height: req.Height})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, HoverResponse{Moved: moved, Session: s.Snapshot()}, nil, http.StatusOK)
}

// DropHandler lida com a requisição POST .../sessions/{session}/drop.
// @Summary Solta o item arrastado
// @Tags editor
// @Produce json
// @Param page path string true "ID da página"
// @Param session path string true "ID da sessão"
// @Success 200 {object} reorder.Snapshot "Sessão"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/sessions/{session}/drop [post]
func (h *Handler) DropHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Drop(); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, s.Snapshot(), nil, http.StatusOK)
}

// CommitHandler lida com a requisição POST .../sessions/{session}/commit.
// @Summary Grava a ordem final da prateleira
// @Description A página é reordenada antes da gravação. Na falha a sessão continua aberta e marcada como não salva.
// @Tags editor
// @Produce json
// @Param page path string true "ID da página"
// @Param session path string true "ID da sessão"
// @Success 200 {object} CommitResponse "Ordem gravada"
// @Failure 409 {object} domain.ErrorResponse "Arrasto ou gravação em andamento"
// @Failure 502 {object} CommitResponse "Backend recusou a gravação"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/sessions/{session}/commit [post]
func (h *Handler) CommitHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}

	snap, err := p.CommitSession(r.Context(), mux.Vars(r)["session"])
	if errors.Is(err, reorder.ErrCommitFailed) {
		respond.JSON(w, h.Logger, http.StatusBadGateway, CommitResponse{Saved: false, Message: reorder.FailureMessage, Session: snap})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, CommitResponse{Saved: true, Session: snap}, nil, http.StatusOK)
}

// CancelSessionHandler lida com a requisição DELETE .../sessions/{session}.
// @Summary Fecha o editor de ordem sem gravar
// @Tags editor
// @Param page path string true "ID da página"
// @Param session path string true "ID da sessão"
// @Success 204 "Nenhum conteúdo"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/sessions/{session} [delete]
func (h *Handler) CancelSessionHandler(w http.ResponseWriter, r *http.Request) {
	p, ok := h.page(w, r)
	if !ok {
		return
	}
	if err := p.CancelSession(mux.Vars(r)["session"]); err != nil {
		h.fail(w, r, err)
		return
	}
	respond.Handle(w, r, h.Logger, nil, nil, http.StatusNoContent)
}

// SessionSocketHandler lida com a requisição GET .../sessions/{session}/ws.
// @Summary Canal websocket da sessão
// @Description Envia session_changed a cada mudança da lista e commit_failed quando a gravação falha.
// @Tags editor
// @Param page path string true "ID da página"
// @Param session path string true "ID da sessão"
// @Success 101 "Switching Protocols"
// @Security ApiKeyAuth
// @Router /v1/editor/pages/{page}/sessions/{session}/ws [get]
func (h *Handler) SessionSocketHandler(w http.ResponseWriter, r *http.Request) {
	_, s, ok := h.session(w, r)
	if !ok {
		return
	}
	initial := &websocket.Event{Type: workspace.EventSessionChanged, Topic: s.ID, Data: s.Snapshot()}
	websocket.ServeWs(h.Hub, s.ID, initial, w, r)
}
