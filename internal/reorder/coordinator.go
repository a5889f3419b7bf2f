package reorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelfmap/internal/domain"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/pkg/metrics"
)

// FailureMessage é o aviso mostrado ao operador quando a gravação falha.
const FailureMessage = "Failed to save order."

var (
	// ErrCommitFailed envolve a causa de uma gravação recusada; a sessão segue aberta.
	ErrCommitFailed = errors.New("falha ao gravar a ordem")
	// ErrCommitInProgress indica uma segunda gravação concorrente na mesma sessão.
	ErrCommitInProgress = errors.New("gravação já em andamento")
)

// Committer envia a ordem final ao backend numa única requisição.
type Committer interface {
	CommitOrder(ctx context.Context, req domain.ReorderRequest) error
}

// Projector aplica a ordem à página exibida.
type Projector interface {
	ProjectOrder(shelfID int64, ids []int64) bool
}

// Notifier recebe o aviso bloqueante de falha de gravação.
type Notifier interface {
	CommitFailed(snap Snapshot, err error)
}

// Coordinator grava a ordem de uma sessão: primeiro na página, depois no backend.
type Coordinator struct {
	committer Committer
	projector Projector
	notifier  Notifier
	timeout   time.Duration
	logger    logger.Logger
}

// NewCoordinator cria o coordenador. notifier pode ser nil.
func NewCoordinator(committer Committer, projector Projector, notifier Notifier, timeout time.Duration, log logger.Logger) *Coordinator {
	return &Coordinator{
		committer: committer,
		projector: projector,
		notifier:  notifier,
		timeout:   timeout,
		logger:    log,
	}
}

// Commit projeta a ordem da sessão na página e a envia ao backend.
// Em caso de falha a página não é revertida: a sessão fica aberta, marcada como não salva.
func (c *Coordinator) Commit(ctx context.Context, s *Session) error {
	ids, err := s.beginCommit()
	if err != nil {
		return err
	}

	if !c.projector.ProjectOrder(s.ShelfID, ids) {
		c.logger.Debug("Prateleira sem seção na página; nada a projetar.", map[string]interface{}{"shelf_id": s.ShelfID})
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := domain.ReorderRequest{StoreID: s.StoreID, ShelfID: s.ShelfID, ItemIDs: ids}
	if err := c.committer.CommitOrder(ctx, req); err != nil {
		snap := s.finishCommit(FailureMessage)
		metrics.RecordCommit(false)
		c.logger.Error(fmt.Sprintf("Falha ao gravar a ordem da prateleira %d (sessão %s).", s.ShelfID, s.ID), err)
		if c.notifier != nil {
			c.notifier.CommitFailed(snap, err)
		}
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	s.finishCommit("")
	metrics.RecordCommit(true)
	c.logger.Info("Ordem da prateleira gravada.", map[string]interface{}{
		"store_id": s.StoreID,
		"shelf_id": s.ShelfID,
		"items":    len(ids),
	})
	return nil
}
