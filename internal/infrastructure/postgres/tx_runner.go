package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var _ repository.EinTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db DB
}

// NewTxRunner construye el runner sobre la base de escritura.
func NewTxRunner(db DB) *TxRunner {
	return &TxRunner{db: db}
}

// RunEin inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunEin(ctx context.Context, fn func(
	apps repository.EinApplicationRepository,
	entities repository.BusinessEntityRepository,
) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewEinApplicationRepository(tx), NewBusinessEntityRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
