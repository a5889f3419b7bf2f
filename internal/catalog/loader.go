package catalog

import (
	"context"
	"sync"
	"time"

	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/pkg/metrics"
)

// Loader busca o catálogo de uma loja exatamente uma vez.
// Falhas nunca chegam ao chamador: o resultado passa a ser o catálogo vazio.
type Loader struct {
	fetcher Fetcher
	storeID string
	timeout time.Duration
	logger  logger.Logger

	once     sync.Once
	done     chan struct{}
	catalog  *Catalog
	degraded bool
}

// NewLoader cria o loader. timeout limita a busca; zero significa sem limite próprio.
func NewLoader(fetcher Fetcher, storeID string, timeout time.Duration, log logger.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		storeID: storeID,
		timeout: timeout,
		logger:  log,
		done:    make(chan struct{}),
	}
}

// Start dispara a busca em segundo plano. Chamadas seguintes não fazem nada.
// A busca usa um contexto próprio: quem abriu a página pode ir embora sem cancelá-la.
func (l *Loader) Start() {
	l.once.Do(func() {
		go l.run()
	})
}

func (l *Loader) run() {
	ctx := context.Background()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	shelves, err := l.fetcher.FetchShelves(ctx, l.storeID)
	if err != nil {
		l.logger.Error("Falha ao carregar o catálogo de prateleiras; seguindo com catálogo vazio.", err)
		l.catalog = Empty()
		l.degraded = true
	} else {
		l.catalog = New(shelves)
		l.logger.Debug("Catálogo de prateleiras carregado.", map[string]interface{}{"store_id": l.storeID, "shelves": len(shelves)})
	}
	metrics.RecordCatalogLoad(l.degraded)
	close(l.done)
}

// Done fecha quando a busca termina, com sucesso ou não.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait bloqueia até a busca terminar ou ctx expirar.
func (l *Loader) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Catalog devolve o catálogo carregado, ou nil enquanto a busca não terminou.
func (l *Loader) Catalog() *Catalog {
	select {
	case <-l.done:
		return l.catalog
	default:
		return nil
	}
}

// Degraded indica que a busca falhou e o catálogo é o vazio.
func (l *Loader) Degraded() bool {
	select {
	case <-l.done:
		return l.degraded
	default:
		return false
	}
}
