package memory

import (
	"context"

	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var (
	_ repository.MailboxRepository     = (*MailboxRepository)(nil)
	_ repository.BookkeepingRepository = (*BookkeepingRepository)(nil)
)

// MailboxRepository buzón: una suscripción por entidad.
type MailboxRepository struct {
	subs    *table[entity.MailboxSubscription]
	items   *table[entity.MailItem]
	actions *table[entity.MailAction]
}

func NewMailboxRepository() *MailboxRepository {
	return &MailboxRepository{
		subs:    newTable[entity.MailboxSubscription](),
		items:   newTable[entity.MailItem](),
		actions: newTable[entity.MailAction](),
	}
}

func (r *MailboxRepository) CreateSubscription(_ context.Context, s *entity.MailboxSubscription) error {
	if _, dup := r.subs.find(func(x entity.MailboxSubscription) bool { return x.BusinessEntityID == s.BusinessEntityID }); dup {
		return domain.ErrDuplicate
	}
	r.subs.insert(s.ID, *s)
	return nil
}

func (r *MailboxRepository) GetSubscriptionByEntity(_ context.Context, businessEntityID string) (*entity.MailboxSubscription, error) {
	if s, ok := r.subs.find(func(x entity.MailboxSubscription) bool { return x.BusinessEntityID == businessEntityID }); ok {
		return &s, nil
	}
	return nil, nil
}

func (r *MailboxRepository) UpdateSubscription(_ context.Context, s *entity.MailboxSubscription) error {
	return r.subs.update(s.ID, *s)
}

func (r *MailboxRepository) CreateItem(_ context.Context, m *entity.MailItem) error {
	r.items.insert(m.ID, *m)
	return nil
}

func (r *MailboxRepository) GetItem(_ context.Context, id string) (*entity.MailItem, error) {
	if m, ok := r.items.get(id); ok {
		return &m, nil
	}
	return nil, nil
}

func (r *MailboxRepository) ListItems(_ context.Context, f repository.MailItemFilter) ([]*entity.MailItem, error) {
	return ptrs(newestFirst(r.items.filter(func(m entity.MailItem) bool {
		return lo.Contains(f.BusinessEntityIDs, m.BusinessEntityID) &&
			(f.Status == "" || m.Status == f.Status) &&
			(f.Category == "" || m.Category == f.Category)
	}))), nil
}

func (r *MailboxRepository) UpdateItem(_ context.Context, m *entity.MailItem) error {
	return r.items.update(m.ID, *m)
}

func (r *MailboxRepository) CreateAction(_ context.Context, a *entity.MailAction) error {
	if _, ok := r.items.get(a.MailItemID); !ok {
		return domain.ErrNotFound
	}
	r.actions.insert(a.ID, *a)
	return nil
}

func (r *MailboxRepository) GetAction(_ context.Context, id string) (*entity.MailAction, error) {
	if a, ok := r.actions.get(id); ok {
		return &a, nil
	}
	return nil, nil
}

func (r *MailboxRepository) ListActionsByItem(_ context.Context, mailItemID string) ([]*entity.MailAction, error) {
	return ptrs(r.actions.filter(func(a entity.MailAction) bool { return a.MailItemID == mailItemID })), nil
}

func (r *MailboxRepository) ListActionsByStatus(_ context.Context, status string) ([]*entity.MailAction, error) {
	return ptrs(r.actions.filter(func(a entity.MailAction) bool { return status == "" || a.Status == status })), nil
}

func (r *MailboxRepository) UpdateAction(_ context.Context, a *entity.MailAction) error {
	return r.actions.update(a.ID, *a)
}

// BookkeepingRepository una suscripción de contabilidad por entidad.
type BookkeepingRepository struct{ t *table[entity.BookkeepingSubscription] }

func NewBookkeepingRepository() *BookkeepingRepository {
	return &BookkeepingRepository{t: newTable[entity.BookkeepingSubscription]()}
}

func (r *BookkeepingRepository) Create(_ context.Context, s *entity.BookkeepingSubscription) error {
	if _, dup := r.t.find(func(x entity.BookkeepingSubscription) bool { return x.BusinessEntityID == s.BusinessEntityID }); dup {
		return domain.ErrDuplicate
	}
	r.t.insert(s.ID, *s)
	return nil
}

func (r *BookkeepingRepository) GetByEntity(_ context.Context, businessEntityID string) (*entity.BookkeepingSubscription, error) {
	if s, ok := r.t.find(func(x entity.BookkeepingSubscription) bool { return x.BusinessEntityID == businessEntityID }); ok {
		return &s, nil
	}
	return nil, nil
}

func (r *BookkeepingRepository) Update(_ context.Context, s *entity.BookkeepingSubscription) error {
	return r.t.update(s.ID, *s)
}
