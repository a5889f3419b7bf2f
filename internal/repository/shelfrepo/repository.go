package shelfrepo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shelfmap/internal/domain"
	"shelfmap/internal/errors"
	"shelfmap/internal/pkg/logger"
)

// ShelfRepository lê as prateleiras e áreas cadastradas por loja.
type ShelfRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewShelfRepository cria e retorna uma nova instância do Repositório de Prateleiras.
func NewShelfRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ShelfRepository {
	return &ShelfRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// ListShelves busca as prateleiras ativas da loja, com filtros opcionais de área e faixa.
// A ordem é a configurada (sort_order) e, no empate, o código.
func (r *ShelfRepository) ListShelves(ctx context.Context, filter domain.ShelfFilter) ([]domain.Shelf, error) {
	r.logger.Debug("Iniciando ListShelves no repositório.", map[string]interface{}{
		"store_id":  filter.StoreID,
		"area_id":   filter.AreaID,
		"temp_zone": filter.TempZone,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	where := []string{"sh.store_id = $1", "sh.is_active = TRUE"}
	args := []interface{}{filter.StoreID}
	if filter.AreaID != "" {
		args = append(args, filter.AreaID)
		where = append(where, fmt.Sprintf("sh.area_id::text = $%d", len(args)))
	}
	if filter.TempZone != "" {
		args = append(args, filter.TempZone)
		where = append(where, fmt.Sprintf("sh.temp_zone = $%d", len(args)))
	}

	query := `
        SELECT sh.id, sh.code, COALESCE(sh.name, ''), sh.area_id, sh.temp_zone, sh.sort_order
        FROM store_shelves sh
        WHERE ` + strings.Join(where, " AND ") + `
        ORDER BY sh.sort_order, sh.code`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao executar ListShelves query.", err)
		return nil, errors.NewDBError("Falha ao buscar prateleiras", err)
	}
	defer rows.Close()

	shelves := []domain.Shelf{}
	for rows.Next() {
		var (
			s      domain.Shelf
			areaID sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &areaID, &s.TempZone, &s.SortOrder); err != nil {
			r.logger.Error("Falha ao mapear prateleira na iteração de ListShelves.", err)
			return nil, errors.NewDBError("Falha ao mapear prateleiras do DB", err)
		}
		s.AreaID = domain.RefFromInt(areaID.Int64)
		shelves = append(shelves, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das linhas de prateleiras.", err)
		return nil, errors.NewDBError("Erro após iteração de prateleiras", err)
	}

	r.logger.Info("ListShelves concluído com sucesso.", map[string]interface{}{"store_id": filter.StoreID, "total_shelves": len(shelves)})
	return shelves, nil
}

// ListSections busca as prateleiras ativas com o nome da área, na ordem da tela de
// localizações (área, depois prateleira). Os itens não são preenchidos aqui.
func (r *ShelfRepository) ListSections(ctx context.Context, storeID int64) ([]domain.ShelfSection, error) {
	r.logger.Debug("Iniciando ListSections no repositório.", map[string]interface{}{"store_id": storeID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT sh.id, sh.code, COALESCE(sh.name, ''), sh.area_id, sh.temp_zone, sh.sort_order, COALESCE(a.name, '')
        FROM store_shelves sh
        LEFT JOIN store_areas a ON a.id = sh.area_id
        WHERE sh.store_id = $1 AND sh.is_active = TRUE
        ORDER BY a.sort_order NULLS LAST, a.name, sh.sort_order, sh.code`

	rows, err := r.DB.QueryContext(ctxTimeout, query, storeID)
	if err != nil {
		r.logger.Error("Falha ao executar ListSections query.", err)
		return nil, errors.NewDBError("Falha ao buscar seções de prateleira", err)
	}
	defer rows.Close()

	sections := []domain.ShelfSection{}
	for rows.Next() {
		var (
			sec    domain.ShelfSection
			areaID sql.NullInt64
		)
		if err := rows.Scan(&sec.Shelf.ID, &sec.Shelf.Code, &sec.Shelf.Name, &areaID, &sec.Shelf.TempZone, &sec.Shelf.SortOrder, &sec.AreaName); err != nil {
			r.logger.Error("Falha ao mapear seção na iteração de ListSections.", err)
			return nil, errors.NewDBError("Falha ao mapear seções do DB", err)
		}
		sec.Shelf.AreaID = domain.RefFromInt(areaID.Int64)
		sec.Items = []domain.ShelfItem{}
		sections = append(sections, sec)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das seções.", err)
		return nil, errors.NewDBError("Erro após iteração de seções", err)
	}

	return sections, nil
}
