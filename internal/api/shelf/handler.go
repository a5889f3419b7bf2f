package shelf

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

// ShelfService define o contrato que o Handler espera da camada de Serviço.
type ShelfService interface {
	ListShelves(ctx context.Context, filter domain.ShelfFilter) ([]domain.Shelf, error)
}

// Handler agrupa os handlers do catálogo de prateleiras.
type Handler struct {
	Service ShelfService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ShelfService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ListShelvesHandler lida com a requisição GET /inventory/api/shelves.
// @Summary Lista o catálogo de prateleiras
// @Description Retorna as prateleiras ativas da loja, ordenadas por sort_order e código. Filtros opcionais por área e faixa de temperatura.
// @Tags shelves
// @Produce json
// @Param store_id query int true "ID da loja"
// @Param area_id query string false "ID da área"
// @Param temp_zone query string false "Faixa de temperatura (AMB, CHILL, FREEZE)"
// @Success 200 {object} domain.ShelfCatalogResponse "Catálogo de prateleiras"
// @Failure 400 {object} domain.ErrorResponse "store_id ausente"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /inventory/api/shelves [get]
func (h *Handler) ListShelvesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	storeID, err := strconv.ParseInt(strings.TrimSpace(q.Get("store_id")), 10, 64)
	if err != nil || storeID <= 0 {
		respond.Handle(w, r, h.Logger, nil, apperror.NewValidationError("missing store_id"), http.StatusOK)
		return
	}

	filter := domain.ShelfFilter{
		StoreID:  storeID,
		AreaID:   strings.TrimSpace(q.Get("area_id")),
		TempZone: strings.TrimSpace(q.Get("temp_zone")),
	}

	shelves, err := h.Service.ListShelves(r.Context(), filter)
	if err != nil {
		respond.Handle(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	if shelves == nil {
		shelves = []domain.Shelf{}
	}

	respond.Handle(w, r, h.Logger, domain.ShelfCatalogResponse{OK: true, Shelves: shelves}, nil, http.StatusOK)
}
