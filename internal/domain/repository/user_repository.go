package repository

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// UserFilter filtros del listado de clientes en la consola admin.
type UserFilter struct {
	Role   string
	Search string // coincide con nombre, email o empresa
	Active *bool
	Limit  int
	Offset int
}

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	SetActive(ctx context.Context, id string, active bool) error
	// List devuelve la página pedida y el total sin paginar.
	List(ctx context.Context, f UserFilter) ([]*entity.User, int, error)
}
