package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// MailItemFilter filtros del listado de correo.
type MailItemFilter struct {
	BusinessEntityIDs []string
	Status            string
	Category          string
}

// MailboxRepository puerto del buzón digital: suscripciones, piezas y acciones.
type MailboxRepository interface {
	CreateSubscription(ctx context.Context, s *entity.MailboxSubscription) error
	GetSubscriptionByEntity(ctx context.Context, businessEntityID string) (*entity.MailboxSubscription, error)
	UpdateSubscription(ctx context.Context, s *entity.MailboxSubscription) error

	CreateItem(ctx context.Context, m *entity.MailItem) error
	GetItem(ctx context.Context, id string) (*entity.MailItem, error)
	ListItems(ctx context.Context, f MailItemFilter) ([]*entity.MailItem, error)
	UpdateItem(ctx context.Context, m *entity.MailItem) error

	CreateAction(ctx context.Context, a *entity.MailAction) error
	GetAction(ctx context.Context, id string) (*entity.MailAction, error)
	ListActionsByItem(ctx context.Context, mailItemID string) ([]*entity.MailAction, error)
	// ListActionsByStatus lista todas si status es vacío (cola del operador).
	ListActionsByStatus(ctx context.Context, status string) ([]*entity.MailAction, error)
	UpdateAction(ctx context.Context, a *entity.MailAction) error
}
