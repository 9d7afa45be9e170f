package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var (
	_ repository.UserRepository           = (*UserRepository)(nil)
	_ repository.BusinessEntityRepository = (*BusinessEntityRepository)(nil)
)

// UserRepository usuarios con email único (sin distinguir mayúsculas).
type UserRepository struct{ t *table[entity.User] }

func NewUserRepository() *UserRepository { return &UserRepository{t: newTable[entity.User]()} }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	if _, dup := r.t.find(func(x entity.User) bool { return strings.EqualFold(x.Email, u.Email) }); dup {
		return domain.ErrEmailAlreadyExists
	}
	r.t.insert(u.ID, *u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.t.get(id); ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.t.find(func(x entity.User) bool { return strings.EqualFold(x.Email, email) }); ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	if other, dup := r.t.find(func(x entity.User) bool { return strings.EqualFold(x.Email, u.Email) }); dup && other.ID != u.ID {
		return domain.ErrEmailAlreadyExists
	}
	return r.t.update(u.ID, *u)
}

func (r *UserRepository) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.t.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	u.IsActive = active
	return r.t.update(id, u)
}

func (r *UserRepository) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	search := strings.ToLower(f.Search)
	rows := newestFirst(r.t.filter(func(u entity.User) bool {
		if f.Role != "" && u.Role != f.Role {
			return false
		}
		if f.Active != nil && u.IsActive != *f.Active {
			return false
		}
		if search == "" {
			return true
		}
		hay := strings.ToLower(u.FirstName + " " + u.LastName + " " + u.Email + " " + u.CompanyName)
		return strings.Contains(hay, search)
	}))
	total := len(rows)
	start := min(f.Offset, total)
	end := total
	if f.Limit > 0 {
		end = min(start+f.Limit, total)
	}
	return ptrs(rows[start:end]), total, nil
}

// BusinessEntityRepository entidades de negocio. El dueño debe existir si se pasa users.
type BusinessEntityRepository struct {
	t     *table[entity.BusinessEntity]
	users *UserRepository
}

func NewBusinessEntityRepository(users *UserRepository) *BusinessEntityRepository {
	return &BusinessEntityRepository{t: newTable[entity.BusinessEntity](), users: users}
}

func (r *BusinessEntityRepository) Create(_ context.Context, e *entity.BusinessEntity) error {
	if r.users != nil {
		if _, ok := r.users.t.get(e.OwnerUserID); !ok {
			return domain.ErrNotFound
		}
	}
	r.t.insert(e.ID, *e)
	return nil
}

func (r *BusinessEntityRepository) GetByID(_ context.Context, id string) (*entity.BusinessEntity, error) {
	if e, ok := r.t.get(id); ok {
		return &e, nil
	}
	return nil, nil
}

func (r *BusinessEntityRepository) ListByOwner(_ context.Context, ownerUserID string) ([]*entity.BusinessEntity, error) {
	return ptrs(newestFirst(r.t.filter(func(e entity.BusinessEntity) bool { return e.OwnerUserID == ownerUserID }))), nil
}

func (r *BusinessEntityRepository) Update(_ context.Context, e *entity.BusinessEntity) error {
	return r.t.update(e.ID, *e)
}

func (r *BusinessEntityRepository) SetEIN(_ context.Context, id, ein string) error {
	e, ok := r.t.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	e.EIN = ein
	return r.t.update(id, e)
}
