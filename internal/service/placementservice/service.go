package placementservice

import (
	"context"
	"fmt"

	"shelfmap/internal/domain"
	apperror "shelfmap/internal/errors"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/pkg/validation"
)

// PlacementRepository define o contrato que o Serviço de Atribuições espera da camada de Persistência.
type PlacementRepository interface {
	ReorderShelf(ctx context.Context, req domain.ReorderRequest) (int64, error)
	SaveAssignments(ctx context.Context, req domain.SaveAssignmentsRequest) error
	GetItemLocation(ctx context.Context, storeID, itemID int64) (domain.ItemLocation, error)
	ListShelfItems(ctx context.Context, storeID int64, orderBy string) ([]domain.ShelfItem, error)
	ListAssignments(ctx context.Context, storeID int64) ([]domain.AssignmentRow, error)
	GetSortConfig(ctx context.Context, storeID int64) (*domain.SortConfig, error)
	SaveSortConfig(ctx context.Context, storeID int64, cfg domain.SortConfig) error
}

// SectionRepository lista as prateleiras de uma loja com o nome da área.
type SectionRepository interface {
	ListSections(ctx context.Context, storeID int64) ([]domain.ShelfSection, error)
}

// Service concentra as regras de gravação de ordem, atribuições e layout.
type Service struct {
	repo     PlacementRepository
	sections SectionRepository
	logger   logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Atribuições.
func NewService(repo PlacementRepository, sections SectionRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, sections: sections, logger: logger}
}

// ReorderItems grava a ordem final dos itens de uma prateleira.
func (s *Service) ReorderItems(ctx context.Context, req domain.ReorderRequest) error {
	s.logger.Debug("Iniciando reordenação no serviço.", map[string]interface{}{"store_id": req.StoreID, "shelf_id": req.ShelfID})

	if err := validation.Struct(req); err != nil {
		s.logger.Warn("Requisição de reordenação inválida.", map[string]interface{}{"error": err.Error()})
		return err
	}
	if id, dup := req.DuplicateItem(); dup {
		return apperror.NewValidationError(fmt.Sprintf("item_ids contém o item %d repetido", id))
	}

	updated, err := s.repo.ReorderShelf(ctx, req)
	if err != nil {
		s.logger.Error("Falha ao gravar a ordem no repositório.", err)
		return err
	}
	if updated < int64(len(req.ItemIDs)) {
		s.logger.Warn("Itens sem mapeamento ativo ignorados na reordenação.", map[string]interface{}{
			"shelf_id": req.ShelfID,
			"sent":     len(req.ItemIDs),
			"updated":  updated,
		})
	}
	return nil
}

// SaveAssignments grava faixa, área e prateleira dos itens de uma loja.
func (s *Service) SaveAssignments(ctx context.Context, req domain.SaveAssignmentsRequest) error {
	s.logger.Debug("Iniciando gravação de atribuições no serviço.", map[string]interface{}{"store_id": req.StoreID, "rows": len(req.Rows)})

	if err := validation.Struct(req); err != nil {
		s.logger.Warn("Requisição de atribuições inválida.", map[string]interface{}{"error": err.Error()})
		return err
	}
	for _, row := range req.Rows {
		if !row.AreaID.IsZero() {
			if _, ok := row.AreaID.Int64(); !ok {
				return apperror.NewValidationError(fmt.Sprintf("area_id inválido para o item %d", row.ItemID))
			}
		}
		if !row.ShelfID.IsZero() {
			if _, ok := row.ShelfID.Int64(); !ok {
				return apperror.NewValidationError(fmt.Sprintf("shelf_id inválido para o item %d", row.ItemID))
			}
		}
	}

	if err := s.repo.SaveAssignments(ctx, req); err != nil {
		s.logger.Error("Falha ao gravar atribuições no repositório.", err)
		return err
	}
	return nil
}

// GetItemLocation resolve a localização de um item.
func (s *Service) GetItemLocation(ctx context.Context, storeID, itemID int64) (domain.ItemLocation, error) {
	if storeID <= 0 || itemID <= 0 {
		return domain.ItemLocation{}, apperror.NewValidationError("missing store_id/item_id")
	}
	return s.repo.GetItemLocation(ctx, storeID, itemID)
}

// Layout monta a tela de localizações: seções com itens em ordem persistida e linhas de atribuição.
func (s *Service) Layout(ctx context.Context, storeID int64) (domain.StoreLayout, error) {
	s.logger.Debug("Montando layout da loja.", map[string]interface{}{"store_id": storeID})

	if storeID <= 0 {
		return domain.StoreLayout{}, apperror.NewValidationError("missing store_id")
	}

	cfg, err := s.repo.GetSortConfig(ctx, storeID)
	if err != nil {
		return domain.StoreLayout{}, err
	}
	sections, err := s.sections.ListSections(ctx, storeID)
	if err != nil {
		return domain.StoreLayout{}, err
	}
	items, err := s.repo.ListShelfItems(ctx, storeID, cfg.OrderBy())
	if err != nil {
		return domain.StoreLayout{}, err
	}
	assignments, err := s.repo.ListAssignments(ctx, storeID)
	if err != nil {
		return domain.StoreLayout{}, err
	}

	byShelf := make(map[int64]int, len(sections))
	for i := range sections {
		byShelf[sections[i].Shelf.ID] = i
	}
	for _, it := range items {
		i, ok := byShelf[it.ShelfID]
		if !ok {
			continue
		}
		sections[i].Items = append(sections[i].Items, it)
	}
	for i := range sections {
		if sections[i].Items == nil {
			sections[i].Items = []domain.ShelfItem{}
		}
	}
	if assignments == nil {
		assignments = []domain.AssignmentRow{}
	}

	s.logger.Info("Layout da loja montado.", map[string]interface{}{
		"store_id":    storeID,
		"sections":    len(sections),
		"items":       len(items),
		"assignments": len(assignments),
	})
	return domain.StoreLayout{StoreID: storeID, Sections: sections, Assignments: assignments}, nil
}

// GetSortConfig devolve a ordenação da loja; nil quando não configurada.
func (s *Service) GetSortConfig(ctx context.Context, storeID int64) (*domain.SortConfig, error) {
	if storeID <= 0 {
		return nil, apperror.NewValidationError("missing store_id")
	}
	return s.repo.GetSortConfig(ctx, storeID)
}

// SaveSortConfig valida e grava a ordenação da loja. Sem direção secundária, usa asc.
func (s *Service) SaveSortConfig(ctx context.Context, storeID int64, cfg domain.SortConfig) error {
	if storeID <= 0 {
		return apperror.NewValidationError("missing store_id")
	}
	if cfg.SortKey2 != "" && cfg.SortDir2 == "" {
		cfg.SortDir2 = "asc"
	}
	if cfg.SortKey2 == "" {
		cfg.SortDir2 = ""
	}
	if err := validation.Struct(cfg); err != nil {
		return err
	}
	return s.repo.SaveSortConfig(ctx, storeID, cfg)
}
