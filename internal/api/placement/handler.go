package placement

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"shelfmap/internal/api/respond"
	"shelfmap/internal/domain"
	apperror "shelfmap/internal/errors"
	"shelfmap/internal/pkg/logger"
)

// PlacementService define o contrato que o Handler espera da camada de Serviço.
type PlacementService interface {
	ReorderItems(ctx context.Context, req domain.ReorderRequest) error
	SaveAssignments(ctx context.Context, req domain.SaveAssignmentsRequest) error
	GetItemLocation(ctx context.Context, storeID, itemID int64) (domain.ItemLocation, error)
	Layout(ctx context.Context, storeID int64) (domain.StoreLayout, error)
	GetSortConfig(ctx context.Context, storeID int64) (*domain.SortConfig, error)
	SaveSortConfig(ctx context.Context, storeID int64, cfg domain.SortConfig) error
}

// Handler agrupa os handlers de ordem, atribuições e layout das prateleiras.
type Handler struct {
	Service PlacementService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PlacementService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ItemLocationResponse é o corpo da consulta de localização de um item.
type ItemLocationResponse struct {
	OK bool `json:"ok" example:"true"`
	domain.ItemLocation
}

// SortConfigResponse é o corpo da consulta de ordenação da loja; config nulo quando não configurada.
type SortConfigResponse struct {
	OK     bool               `json:"ok" example:"true"`
	Config *domain.SortConfig `json:"config"`
}

// SortConfigRequest é o corpo da gravação de ordenação.
type SortConfigRequest struct {
	StoreID int64 `json:"store_id"`
	domain.SortConfig
}

func queryID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ReorderItemsHandler lida com a requisição POST /inventory/reorder-items.
// @Summary Grava a ordem dos itens de uma prateleira
// @Description Define sort_order = 1..n para os mapeamentos ativos, na ordem de item_ids, numa única transação.
// @Tags placement
// @Accept json
// @Produce json
// @Param request body domain.ReorderRequest true "Loja, prateleira e ordem final dos itens"
// @Success 200 {object} respond.OKResponse "Ordem gravada"
// @Failure 400 {object} domain.ErrorResponse "Parâmetros ausentes ou inválidos"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /inventory/reorder-items [post]
func (h *Handler) ReorderItemsHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.ReorderRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	if err := h.Service.ReorderItems(r.Context(), req); err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	respond.Handle(w, r, h.Logger, respond.OKResponse{OK: true}, nil, http.StatusOK)
}

// SaveAssignmentsHandler lida com a requisição POST /inventory/locations/save.
// @Summary Grava as atribuições de localização
// @Description Grava faixa e área como preferência do item e troca o mapeamento ativo de prateleira quando uma é escolhida.
// @Tags placement
// @Accept json
// @Produce json
// @Param request body domain.SaveAssignmentsRequest true "Linhas de atribuição"
// @Success 200 {object} respond.OKResponse "Atribuições gravadas"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /inventory/locations/save [post]
func (h *Handler) SaveAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveAssignmentsRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	if err := h.Service.SaveAssignments(r.Context(), req); err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	respond.Handle(w, r, h.Logger, respond.OKResponse{OK: true}, nil, http.StatusOK)
}

// ItemLocationHandler lida com a requisição GET /inventory/api/item-location.
// @Summary Consulta a localização de um item
// @Description Faixa de temperatura (preferência ou cadastro normalizado), nome da área e prateleira ativa do item.
// @Tags placement
// @Produce json
// @Param store_id query int true "ID da loja"
// @Param item_id query int true "ID do item"
// @Success 200 {object} ItemLocationResponse "Localização do item"
// @Failure 400 {object} domain.ErrorResponse "store_id/item_id ausentes"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /inventory/api/item-location [get]
func (h *Handler) ItemLocationHandler(w http.ResponseWriter, r *http.Request) {
	storeID, okStore := queryID(r, "store_id")
	itemID, okItem := queryID(r, "item_id")
	if !okStore || !okItem {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("missing store_id/item_id"), http.StatusOK)
		return
	}

	loc, err := h.Service.GetItemLocation(r.Context(), storeID, itemID)
	if err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	respond.Handle(w, r, h.Logger, ItemLocationResponse{OK: true, ItemLocation: loc}, nil, http.StatusOK)
}

// LayoutHandler lida com a requisição GET /inventory/api/layout.
// @Summary Layout de localizações da loja
// @Description Seções de prateleira com itens na ordem gravada e as linhas de atribuição dos itens da loja.
// @Tags placement
// @Produce json
// @Param store_id query int true "ID da loja"
// @Success 200 {object} domain.StoreLayout "Layout da loja"
// @Failure 400 {object} domain.ErrorResponse "store_id ausente"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /inventory/api/layout [get]
func (h *Handler) LayoutHandler(w http.ResponseWriter, r *http.Request) {
	storeID, ok := queryID(r, "store_id")
	if !ok {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("missing store_id"), http.StatusOK)
		return
	}

	layout, err := h.Service.Layout(r.Context(), storeID)
	if err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	respond.Handle(w, r, h.Logger, layout, nil, http.StatusOK)
}

// GetSortConfigHandler lida com a requisição GET /inventory/locations/sort.
// @Summary Consulta a ordenação de itens da loja
// @Tags placement
// @Produce json
// @Param store_id query int true "ID da loja"
// @Success 200 {object} SortConfigResponse "Ordenação configurada (config nulo quando ausente)"
// @Failure 400 {object} domain.ErrorResponse "store_id ausente"
// @Router /inventory/locations/sort [get]
func (h *Handler) GetSortConfigHandler(w http.ResponseWriter, r *http.Request) {
	storeID, ok := queryID(r, "store_id")
	if !ok {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("missing store_id"), http.StatusOK)
		return
	}

	cfg, err := h.Service.GetSortConfig(r.Context(), storeID)
	if err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	respond.Handle(w, r, h.Logger, SortConfigResponse{OK: true, Config: cfg}, nil, http.StatusOK)
}

// SaveSortConfigHandler lida com a requisição POST /inventory/locations/sort.
// @Summary Grava a ordenação de itens da loja
// @Description Chave principal e secundária (item_code, item_name) com direção asc/desc.
// @Tags placement
// @Accept json
// @Produce json
// @Param request body SortConfigRequest true "Ordenação"
// @Success 200 {object} respond.OKResponse "Ordenação gravada"
// @Failure 400 {object} domain.ErrorResponse "Chave ou direção inválida"
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou inválido"
// @Security ApiKeyAuth
// @Router /inventory/locations/sort [post]
func (h *Handler) SaveSortConfigHandler(w http.ResponseWriter, r *http.Request) {
	var req SortConfigRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	if err := h.Service.SaveSortConfig(r.Context(), req.StoreID, req.SortConfig); err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	respond.Handle(w, r, h.Logger, respond.OKResponse{OK: true}, nil, http.StatusOK)
}
