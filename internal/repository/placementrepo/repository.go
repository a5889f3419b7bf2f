package placementrepo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shelfmap/internal/domain"
	"shelfmap/internal/errors"
	"shelfmap/internal/pkg/logger"
)

// mappedSortOrder é a posição dada a um item recém-atribuído, depois dos já ordenados.
const mappedSortOrder = 100

// PlacementRepository grava e lê o mapeamento item → prateleira de cada loja.
type PlacementRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPlacementRepository cria e retorna uma nova instância do Repositório de Atribuições.
func NewPlacementRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PlacementRepository {
	return &PlacementRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

// ReorderShelf grava sort_order = 1..n para os mapeamentos ativos da prateleira, numa transação.
// IDs sem mapeamento ativo são ignorados. Devolve quantas linhas foram atualizadas.
func (r *PlacementRepository) ReorderShelf(ctx context.Context, req domain.ReorderRequest) (int64, error) {
	r.logger.Debug("Iniciando ReorderShelf no repositório.", map[string]interface{}{
		"store_id": req.StoreID,
		"shelf_id": req.ShelfID,
		"items":    len(req.ItemIDs),
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de reordenação.", err)
		return 0, errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	query := `
        UPDATE item_shelf_map
        SET sort_order = $1
        WHERE store_id = $2 AND shelf_id = $3 AND item_id = $4 AND is_active = TRUE`

	var updated int64
	for idx, itemID := range req.ItemIDs {
		res, err := tx.ExecContext(ctxTimeout, query, idx+1, req.StoreID, req.ShelfID, itemID)
		if err != nil {
			r.logger.Error("Falha ao atualizar sort_order.", err)
			return 0, errors.NewDBError("Falha ao gravar a ordem da prateleira", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			r.logger.Error("Falha ao verificar linhas afetadas após ReorderShelf.", err)
			return 0, errors.NewDBError("Falha ao verificar linhas afetadas", err)
		}
		updated += n
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar a reordenação.", err)
		return 0, errors.NewDBError("Falha ao commitar a ordem da prateleira", err)
	}

	r.logger.Info("Ordem da prateleira gravada.", map[string]interface{}{"shelf_id": req.ShelfID, "updated": updated})
	return updated, nil
}

// SaveAssignments grava as preferências (faixa e área, mesmo sem prateleira), desativa os
// mapeamentos atuais de cada item e cria o mapeamento novo quando há prateleira.
func (r *PlacementRepository) SaveAssignments(ctx context.Context, req domain.SaveAssignmentsRequest) error {
	r.logger.Debug("Iniciando SaveAssignments no repositório.", map[string]interface{}{"store_id": req.StoreID, "rows": len(req.Rows)})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	tx, err := r.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		r.logger.Error("Falha ao iniciar transação de atribuições.", err)
		return errors.NewDBError("Falha ao iniciar transação", err)
	}
	defer tx.Rollback()

	upsertPref := `
        INSERT INTO item_location_prefs (store_id, item_id, temp_zone, area_id, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (store_id, item_id)
        DO UPDATE SET temp_zone = EXCLUDED.temp_zone, area_id = EXCLUDED.area_id, updated_at = NOW()`

	deactivate := `
        UPDATE item_shelf_map
        SET is_active = FALSE
        WHERE store_id = $1 AND item_id = $2`

	insertMap := `
        INSERT INTO item_shelf_map (store_id, shelf_id, item_id, sort_order, is_active)
        VALUES ($1, $2, $3, $4, TRUE)`

	for _, row := range req.Rows {
		if _, err := tx.ExecContext(ctxTimeout, upsertPref, req.StoreID, row.ItemID, nullString(row.TempZone), nullRef(row.AreaID)); err != nil {
			r.logger.Error("Falha ao gravar preferência de localização.", err)
			return errors.NewDBError(fmt.Sprintf("Falha ao gravar preferência do item %d", row.ItemID), err)
		}
		if _, err := tx.ExecContext(ctxTimeout, deactivate, req.StoreID, row.ItemID); err != nil {
			r.logger.Error("Falha ao desativar mapeamentos do item.", err)
			return errors.NewDBError(fmt.Sprintf("Falha ao desativar mapeamentos do item %d", row.ItemID), err)
		}
		shelfID, ok := row.ShelfID.Int64()
		if !ok {
			continue
		}
		if _, err := tx.ExecContext(ctxTimeout, insertMap, req.StoreID, shelfID, row.ItemID, mappedSortOrder); err != nil {
			r.logger.Error("Falha ao inserir mapeamento de prateleira.", err)
			return errors.NewDBError(fmt.Sprintf("Falha ao mapear o item %d", row.ItemID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Falha ao commitar as atribuições.", err)
		return errors.NewDBError("Falha ao commitar as atribuições", err)
	}

	r.logger.Info("Atribuições gravadas.", map[string]interface{}{"store_id": req.StoreID, "rows": len(req.Rows)})
	return nil
}

// GetItemLocation resolve faixa, área e prateleira de um item numa loja.
// Item inexistente devolve uma localização toda nil.
func (r *PlacementRepository) GetItemLocation(ctx context.Context, storeID, itemID int64) (domain.ItemLocation, error) {
	r.logger.Debug("Buscando localização do item no repositório.", map[string]interface{}{"store_id": storeID, "item_id": itemID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT COALESCE(pref.temp_zone, ''), COALESCE(i.temp_zone, ''), a.name, sh.code, COALESCE(sh.name, '')
        FROM items i
        LEFT JOIN item_location_prefs pref ON pref.store_id = $1 AND pref.item_id = i.id
        LEFT JOIN item_shelf_map m ON m.store_id = $1 AND m.item_id = i.id AND m.is_active = TRUE
        LEFT JOIN store_shelves sh ON sh.id = m.shelf_id
        LEFT JOIN store_areas a ON a.id = sh.area_id
        WHERE i.id = $2
        LIMIT 1`

	var (
		prefZone, itemZone  string
		areaName, shelfCode sql.NullString
		shelfName           string
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, storeID, itemID).Scan(&prefZone, &itemZone, &areaName, &shelfCode, &shelfName)
	if err == sql.ErrNoRows {
		r.logger.Info("Item não encontrado para localização.", map[string]interface{}{"item_id": itemID})
		return domain.ItemLocation{}, nil
	}
	if err != nil {
		r.logger.Error("Falha ao buscar localização do item no DB.", err)
		return domain.ItemLocation{}, errors.NewDBError("Falha ao buscar localização do item", err)
	}

	zone := prefZone
	if zone == "" {
		zone = domain.NormalizeTempZone(itemZone)
	}
	loc := domain.ItemLocation{TempZone: &zone}
	if areaName.Valid {
		loc.AreaName = &areaName.String
	}
	if shelfCode.Valid {
		loc.ShelfCode = &shelfCode.String
		loc.ShelfName = &shelfName
	}
	return loc, nil
}

// ListShelfItems busca os itens mapeados (ativos) de todas as prateleiras da loja, por
// prateleira e sort_order. orderBy desempata e deve vir de domain.SortConfig.OrderBy.
func (r *PlacementRepository) ListShelfItems(ctx context.Context, storeID int64, orderBy string) ([]domain.ShelfItem, error) {
	r.logger.Debug("Iniciando ListShelfItems no repositório.", map[string]interface{}{"store_id": storeID, "order_by": orderBy})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT m.shelf_id, m.item_id, i.code, COALESCE(i.name, ''), m.sort_order
        FROM item_shelf_map m
        JOIN items i ON i.id = m.item_id
        WHERE m.store_id = $1 AND m.is_active = TRUE
        ORDER BY m.shelf_id, m.sort_order, ` + orderBy

	rows, err := r.DB.QueryContext(ctxTimeout, query, storeID)
	if err != nil {
		r.logger.Error("Falha ao executar ListShelfItems query.", err)
		return nil, errors.NewDBError("Falha ao buscar itens das prateleiras", err)
	}
	defer rows.Close()

	items := []domain.ShelfItem{}
	for rows.Next() {
		var it domain.ShelfItem
		if err := rows.Scan(&it.ShelfID, &it.ItemID, &it.Code, &it.Name, &it.SortOrder); err != nil {
			r.logger.Error("Falha ao mapear item na iteração de ListShelfItems.", err)
			return nil, errors.NewDBError("Falha ao mapear itens do DB", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração dos itens das prateleiras.", err)
		return nil, errors.NewDBError("Erro após iteração de itens", err)
	}
	return items, nil
}

// ListAssignments busca as linhas de atribuição dos itens da loja: a preferência gravada
// (ou a faixa do cadastro do item) e a prateleira do mapeamento ativo.
func (r *PlacementRepository) ListAssignments(ctx context.Context, storeID int64) ([]domain.AssignmentRow, error) {
	r.logger.Debug("Iniciando ListAssignments no repositório.", map[string]interface{}{"store_id": storeID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT i.id, i.code, COALESCE(i.name, ''), COALESCE(pref.temp_zone, ''), COALESCE(i.temp_zone, ''), pref.area_id, m.shelf_id
        FROM store_items si
        JOIN items i ON i.id = si.item_id
        LEFT JOIN item_location_prefs pref ON pref.store_id = si.store_id AND pref.item_id = i.id
        LEFT JOIN item_shelf_map m ON m.store_id = si.store_id AND m.item_id = i.id AND m.is_active = TRUE
        WHERE si.store_id = $1
        ORDER BY i.code`

	rows, err := r.DB.QueryContext(ctxTimeout, query, storeID)
	if err != nil {
		r.logger.Error("Falha ao executar ListAssignments query.", err)
		return nil, errors.NewDBError("Falha ao buscar atribuições", err)
	}
	defer rows.Close()

	out := []domain.AssignmentRow{}
	for rows.Next() {
		var (
			row                domain.AssignmentRow
			prefZone, itemZone string
			areaID, shelfID    sql.NullInt64
		)
		if err := rows.Scan(&row.ItemID, &row.Code, &row.Name, &prefZone, &itemZone, &areaID, &shelfID); err != nil {
			r.logger.Error("Falha ao mapear atribuição na iteração de ListAssignments.", err)
			return nil, errors.NewDBError("Falha ao mapear atribuições do DB", err)
		}
		row.TempZone = prefZone
		if row.TempZone == "" {
			row.TempZone = domain.NormalizeTempZone(itemZone)
		}
		row.AreaID = domain.RefFromInt(areaID.Int64)
		row.ShelfID = domain.RefFromInt(shelfID.Int64)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("Erro após iteração das atribuições.", err)
		return nil, errors.NewDBError("Erro após iteração de atribuições", err)
	}
	return out, nil
}

// GetSortConfig busca a ordenação configurada para a loja; nil quando não há.
func (r *PlacementRepository) GetSortConfig(ctx context.Context, storeID int64) (*domain.SortConfig, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT sort_key, sort_dir, sort_key2, sort_dir2
        FROM inventory_item_sort_config
        WHERE store_id = $1`

	var (
		cfg        domain.SortConfig
		key2, dir2 sql.NullString
	)
	err := r.DB.QueryRowContext(ctxTimeout, query, storeID).Scan(&cfg.SortKey, &cfg.SortDir, &key2, &dir2)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Falha ao buscar configuração de ordenação.", err)
		return nil, errors.NewDBError("Falha ao buscar configuração de ordenação", err)
	}
	cfg.SortKey2 = key2.String
	cfg.SortDir2 = dir2.String
	return &cfg, nil
}

// SaveSortConfig grava (upsert) a ordenação da loja.
func (r *PlacementRepository) SaveSortConfig(ctx context.Context, storeID int64, cfg domain.SortConfig) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO inventory_item_sort_config (store_id, sort_key, sort_dir, sort_key2, sort_dir2, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (store_id)
        DO UPDATE SET sort_key = EXCLUDED.sort_key, sort_dir = EXCLUDED.sort_dir,
                      sort_key2 = EXCLUDED.sort_key2, sort_dir2 = EXCLUDED.sort_dir2, updated_at = NOW()`

	if _, err := r.DB.ExecContext(ctxTimeout, query, storeID, cfg.SortKey, cfg.SortDir, nullString(cfg.SortKey2), nullString(cfg.SortDir2)); err != nil {
		r.logger.Error("Falha ao gravar configuração de ordenação.", err)
		return errors.NewDBError("Falha ao gravar configuração de ordenação", err)
	}

	r.logger.Info("Configuração de ordenação gravada.", map[string]interface{}{"store_id": storeID, "sort_key": cfg.SortKey})
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullRef(ref domain.Ref) sql.NullInt64 {
	id, ok := ref.Int64()
	return sql.NullInt64{Int64: id, Valid: ok}
}
