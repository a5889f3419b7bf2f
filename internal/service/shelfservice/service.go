package shelfservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"shelfmap/internal/domain"
	apperror "shelfmap/internal/errors"
	"shelfmap/internal/pkg/cache"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/pkg/metrics"
)

// ShelfRepository define o contrato que o Serviço de Prateleiras espera da camada de Persistência.
type ShelfRepository interface {
	ListShelves(ctx context.Context, filter domain.ShelfFilter) ([]domain.Shelf, error)
}

// Service atende o endpoint de catálogo. O catálogo completo da loja (sem filtros) fica
// no Redis por alguns segundos; cargas simultâneas da mesma loja viram uma só consulta.
type Service struct {
	repo   ShelfRepository
	cache  cache.Client
	ttl    time.Duration
	group  singleflight.Group
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Prateleiras.
// cacheClient pode ser nil; ttl <= 0 desliga o cache.
func NewService(repo ShelfRepository, cacheClient cache.Client, ttl time.Duration, logger logger.Logger) *Service {
	return &Service{repo: repo, cache: cacheClient, ttl: ttl, logger: logger}
}

func cacheKey(storeID int64) string {
	return fmt.Sprintf("shelfmap:shelves:%d", storeID)
}

// ListShelves devolve as prateleiras ativas da loja na ordem configurada.
func (s *Service) ListShelves(ctx context.Context, filter domain.ShelfFilter) ([]domain.Shelf, error) {
	s.logger.Debug("Iniciando busca do catálogo de prateleiras no serviço.", map[string]interface{}{"store_id": filter.StoreID})

	if filter.StoreID <= 0 {
		s.logger.Warn("Busca de prateleiras sem store_id.", nil)
		return nil, apperror.NewValidationError("missing store_id")
	}

	if !filter.Unfiltered() || !s.cacheEnabled() {
		return s.repo.ListShelves(ctx, filter)
	}

	key := cacheKey(filter.StoreID)
	if shelves, ok := s.fromCache(ctx, key); ok {
		return shelves, nil
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		// A carga é compartilhada: o cancelamento de quem chegou primeiro não derruba os demais.
		// O repositório aplica seu próprio timeout.
		loadCtx := context.WithoutCancel(ctx)
		shelves, err := s.repo.ListShelves(loadCtx, filter)
		if err != nil {
			return nil, err
		}
		s.toCache(loadCtx, key, shelves)
		return shelves, nil
	})
	if err != nil {
		s.logger.Error("Falha ao buscar prateleiras no repositório.", err)
		return nil, err
	}
	if shared {
		s.logger.Debug("Carga de catálogo compartilhada entre requisições.", map[string]interface{}{"store_id": filter.StoreID})
	}

	shelves := v.([]domain.Shelf)
	return append([]domain.Shelf(nil), shelves...), nil
}

func (s *Service) cacheEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

func (s *Service) fromCache(ctx context.Context, key string) ([]domain.Shelf, bool) {
	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == cache.ErrCacheMiss:
		metrics.RecordCacheRequest("miss")
		return nil, false
	case err != nil:
		metrics.RecordCacheRequest("error")
		s.logger.Warn("Falha ao ler catálogo do cache.", map[string]interface{}{"key": key, "error": err.Error()})
		return nil, false
	}

	var shelves []domain.Shelf
	if err := json.Unmarshal([]byte(raw), &shelves); err != nil {
		metrics.RecordCacheRequest("error")
		s.logger.Warn("Catálogo inválido no cache; descartando.", map[string]interface{}{"key": key, "error": err.Error()})
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	metrics.RecordCacheRequest("hit")
	return shelves, true
}

func (s *Service) toCache(ctx context.Context, key string, shelves []domain.Shelf) {
	payload, err := json.Marshal(shelves)
	if err != nil {
		s.logger.Error("Falha ao serializar catálogo para o cache.", err)
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("Falha ao gravar catálogo no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
