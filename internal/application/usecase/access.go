package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

// Actor identidad del usuario autenticado que ejecuta el caso de uso.
type Actor struct {
	UserID    string
	Role      string
	IPAddress string
}

// IsAdmin los admins pueden operar sobre entidades de cualquier cliente.
func (a Actor) IsAdmin() bool { return a.Role == entity.RoleAdmin }

// ownership resuelve entidades de negocio comprobando que pertenecen al actor.
type ownership struct {
	entities repository.BusinessEntityRepository
}

// entity devuelve la entidad si existe y el actor es su dueño (o admin).
func (o ownership) entity(ctx context.Context, actor Actor, id string) (*entity.BusinessEntity, error) {
	e, err := o.entities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsAdmin() && e.OwnerUserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return e, nil
}

// entityIDs ids sobre los que listar: la entidad pedida o todas las del actor.
func (o ownership) entityIDs(ctx context.Context, actor Actor, businessEntityID string) ([]string, error) {
	if businessEntityID != "" {
		if _, err := o.entity(ctx, actor, businessEntityID); err != nil {
			return nil, err
		}
		return []string{businessEntityID}, nil
	}
	list, err := o.entities.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(list))
	for _, e := range list {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

const dateLayout = "2006-01-02"

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
