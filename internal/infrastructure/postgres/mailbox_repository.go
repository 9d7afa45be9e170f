package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

var _ repository.MailboxRepository = (*MailboxRepo)(nil)

const (
	mailboxSubColumns = `id, business_entity_id, plan, monthly_price, COALESCE(forwarding_address, ''),
		status, started_at, created_at, updated_at`
	mailItemColumns = `id, business_entity_id, subscription_id, sender, COALESCE(subject, ''), category,
		priority, status, COALESCE(scan_document_id::text, ''), received_at, created_at, updated_at`
	mailActionColumns = `id, mail_item_id, requested_by, action, status, COALESCE(forwarding_address, ''),
		COALESCE(notes, ''), completed_at, created_at, updated_at`
)

// MailboxRepo buzón digital: suscripciones, piezas de correo y acciones.
type MailboxRepo struct {
	db Querier
}

// NewMailboxRepository construye el repositorio.
func NewMailboxRepository(db Querier) *MailboxRepo {
	return &MailboxRepo{db: db}
}

// ── Suscripción ──────────────────────────────────────────────────────────────

func scanMailboxSub(row scanner) (*entity.MailboxSubscription, error) {
	var s entity.MailboxSubscription
	if err := row.Scan(&s.ID, &s.BusinessEntityID, &s.Plan, &s.MonthlyPrice, &s.ForwardingAddress,
		&s.Status, &s.StartedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSubscription una por entidad; repetida → domain.ErrDuplicate.
func (r *MailboxRepo) CreateSubscription(ctx context.Context, s *entity.MailboxSubscription) error {
	const query = `
		INSERT INTO mailbox_subscriptions (id, business_entity_id, plan, monthly_price, forwarding_address,
			status, started_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, s.ID, s.BusinessEntityID, s.Plan, s.MonthlyPrice, nullIfEmpty(s.ForwardingAddress),
		s.Status, s.StartedAt, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert mailbox subscription: %w", err)
	}
	return nil
}

// GetSubscriptionByEntity nil, nil si la entidad no tiene suscripción.
func (r *MailboxRepo) GetSubscriptionByEntity(ctx context.Context, businessEntityID string) (*entity.MailboxSubscription, error) {
	s, err := scanMailboxSub(r.db.QueryRow(ctx,
		`SELECT `+mailboxSubColumns+` FROM mailbox_subscriptions WHERE business_entity_id = $1`, businessEntityID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mailbox subscription: %w", err)
	}
	return s, nil
}

// UpdateSubscription cambia plan, precio, dirección o estado.
func (r *MailboxRepo) UpdateSubscription(ctx context.Context, s *entity.MailboxSubscription) error {
	const query = `
		UPDATE mailbox_subscriptions SET plan = $2, monthly_price = $3, forwarding_address = $4,
			status = $5, started_at = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, s.ID, s.Plan, s.MonthlyPrice, nullIfEmpty(s.ForwardingAddress), s.Status,
		s.StartedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update mailbox subscription: %w", err)
	}
	return requireAffected(tag)
}

// ── Piezas de correo ─────────────────────────────────────────────────────────

func scanMailItem(row scanner) (*entity.MailItem, error) {
	var m entity.MailItem
	if err := row.Scan(&m.ID, &m.BusinessEntityID, &m.SubscriptionID, &m.Sender, &m.Subject, &m.Category,
		&m.Priority, &m.Status, &m.ScanDocumentID, &m.ReceivedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateItem registra una pieza recibida.
func (r *MailboxRepo) CreateItem(ctx context.Context, m *entity.MailItem) error {
	const query = `
		INSERT INTO mail_items (id, business_entity_id, subscription_id, sender, subject, category, priority,
			status, scan_document_id, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query, m.ID, m.BusinessEntityID, m.SubscriptionID, m.Sender, nullIfEmpty(m.Subject),
		m.Category, m.Priority, m.Status, nullIfEmpty(m.ScanDocumentID), m.ReceivedAt, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert mail item: %w", err)
	}
	return nil
}

// GetItem nil, nil si no existe.
func (r *MailboxRepo) GetItem(ctx context.Context, id string) (*entity.MailItem, error) {
	m, err := scanMailItem(r.db.QueryRow(ctx, `SELECT `+mailItemColumns+` FROM mail_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mail item: %w", err)
	}
	return m, nil
}

// ListItems piezas de las entidades indicadas, más recientes primero.
func (r *MailboxRepo) ListItems(ctx context.Context, f repository.MailItemFilter) ([]*entity.MailItem, error) {
	if len(f.BusinessEntityIDs) == 0 {
		return nil, nil
	}
	args := []any{f.BusinessEntityIDs}
	where := []string{"business_entity_id::text = ANY($1)"}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	rows, err := r.db.Query(ctx, `SELECT `+mailItemColumns+` FROM mail_items WHERE `+
		strings.Join(where, " AND ")+` ORDER BY received_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list mail items: %w", err)
	}
	defer rows.Close()

	var list []*entity.MailItem
	for rows.Next() {
		m, err := scanMailItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mail item: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// UpdateItem cambia estado y escaneo asociado.
func (r *MailboxRepo) UpdateItem(ctx context.Context, m *entity.MailItem) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE mail_items SET status = $2, scan_document_id = $3, updated_at = $4 WHERE id = $1`,
		m.ID, m.Status, nullIfEmpty(m.ScanDocumentID), m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update mail item: %w", err)
	}
	return requireAffected(tag)
}

// ── Acciones ─────────────────────────────────────────────────────────────────

func scanMailAction(row scanner) (*entity.MailAction, error) {
	var a entity.MailAction
	if err := row.Scan(&a.ID, &a.MailItemID, &a.RequestedBy, &a.Action, &a.Status, &a.ForwardingAddress,
		&a.Notes, &a.CompletedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *MailboxRepo) listActions(ctx context.Context, where string, arg any) ([]*entity.MailAction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+mailActionColumns+` FROM mail_actions WHERE `+where+` ORDER BY created_at`, arg)
	if err != nil {
		return nil, fmt.Errorf("list mail actions: %w", err)
	}
	defer rows.Close()

	var list []*entity.MailAction
	for rows.Next() {
		a, err := scanMailAction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mail action: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CreateAction registra la acción pedida por el cliente.
func (r *MailboxRepo) CreateAction(ctx context.Context, a *entity.MailAction) error {
	const query = `
		INSERT INTO mail_actions (id, mail_item_id, requested_by, action, status, forwarding_address, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, a.ID, a.MailItemID, a.RequestedBy, a.Action, a.Status,
		nullIfEmpty(a.ForwardingAddress), nullIfEmpty(a.Notes), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert mail action: %w", err)
	}
	return nil
}

// GetAction nil, nil si no existe.
func (r *MailboxRepo) GetAction(ctx context.Context, id string) (*entity.MailAction, error) {
	a, err := scanMailAction(r.db.QueryRow(ctx, `SELECT `+mailActionColumns+` FROM mail_actions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mail action: %w", err)
	}
	return a, nil
}

// ListActionsByItem historial de acciones de una pieza.
func (r *MailboxRepo) ListActionsByItem(ctx context.Context, mailItemID string) ([]*entity.MailAction, error) {
	return r.listActions(ctx, "mail_item_id = $1", mailItemID)
}

// ListActionsByStatus cola del operador; todas si status es vacío.
func (r *MailboxRepo) ListActionsByStatus(ctx context.Context, status string) ([]*entity.MailAction, error) {
	return r.listActions(ctx, "($1 = '' OR status = $1)", status)
}

// UpdateAction cambia el estado y la fecha de cierre.
func (r *MailboxRepo) UpdateAction(ctx context.Context, a *entity.MailAction) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE mail_actions SET status = $2, notes = $3, completed_at = $4, updated_at = $5 WHERE id = $1`,
		a.ID, a.Status, nullIfEmpty(a.Notes), a.CompletedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update mail action: %w", err)
	}
	return requireAffected(tag)
}
