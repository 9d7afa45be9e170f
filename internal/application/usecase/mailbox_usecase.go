package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

const resourceMailAction = "mail_action"

var mailboxPlans = []dto.PlanOption{
	{
		ID:           entity.MailboxPlanBasic,
		Name:         "Basic",
		MonthlyPrice: decimal.RequireFromString("9.99"),
		Features:     []string{"Mail notifications", "Envelope scans", "30-day storage"},
	},
	{
		ID:           entity.MailboxPlanPremium,
		Name:         "Premium",
		MonthlyPrice: decimal.RequireFromString("29.99"),
		Features:     []string{"Full content scans", "Mail forwarding", "Shredding", "1-year storage"},
	},
	{
		ID:           entity.MailboxPlanBusiness,
		Name:         "Business",
		MonthlyPrice: decimal.RequireFromString("59.99"),
		Features:     []string{"Unlimited scans", "Priority forwarding", "Check deposits", "Unlimited storage"},
	},
}

// MailboxUseCase buzón digital: suscripción, correo recibido y acciones sobre cada pieza.
type MailboxUseCase struct {
	mail  repository.MailboxRepository
	docs  *DocumentUseCase
	audit *Auditor
	own   ownership
	now   func() time.Time
}

// NewMailboxUseCase construye el caso de uso. docs gestiona los escaneos.
func NewMailboxUseCase(mail repository.MailboxRepository, entities repository.BusinessEntityRepository, docs *DocumentUseCase, audit *Auditor) *MailboxUseCase {
	return &MailboxUseCase{
		mail:  mail,
		docs:  docs,
		audit: audit,
		own:   ownership{entities: entities},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Plans catálogo estático de planes del buzón.
func (uc *MailboxUseCase) Plans() []dto.PlanOption { return mailboxPlans }

// ── Suscripción ─────────────────────────────────────────────────────────────

// GetSubscription suscripción de la entidad (domain.ErrNotFound si no hay).
func (uc *MailboxUseCase) GetSubscription(ctx context.Context, actor Actor, businessEntityID string) (*dto.MailboxSubscriptionResponse, error) {
	if _, err := uc.own.entity(ctx, actor, businessEntityID); err != nil {
		return nil, err
	}
	s, err := uc.mail.GetSubscriptionByEntity(ctx, businessEntityID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toMailboxSubscriptionResponse(s), nil
}

// Subscribe activa el buzón. Con una suscripción activa → domain.ErrConflict;
// una cancelada o pausada se reactiva con el nuevo plan.
func (uc *MailboxUseCase) Subscribe(ctx context.Context, actor Actor, businessEntityID string, in dto.CreateMailboxSubscriptionRequest) (*dto.MailboxSubscriptionResponse, error) {
	if _, err := uc.own.entity(ctx, actor, businessEntityID); err != nil {
		return nil, err
	}
	existing, err := uc.mail.GetSubscriptionByEntity(ctx, businessEntityID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	if existing != nil {
		if existing.Status == entity.SubscriptionActive {
			return nil, fmt.Errorf("%w: mailbox subscription already active", domain.ErrConflict)
		}
		existing.Plan = in.Plan
		existing.MonthlyPrice = planPrice(mailboxPlans, in.Plan)
		existing.ForwardingAddress = strings.TrimSpace(in.ForwardingAddress)
		existing.Status = entity.SubscriptionActive
		existing.StartedAt = now
		existing.UpdatedAt = now
		if err := uc.mail.UpdateSubscription(ctx, existing); err != nil {
			return nil, err
		}
		return toMailboxSubscriptionResponse(existing), nil
	}
	s := &entity.MailboxSubscription{
		ID:                uuid.New().String(),
		BusinessEntityID:  businessEntityID,
		Plan:              in.Plan,
		MonthlyPrice:      planPrice(mailboxPlans, in.Plan),
		ForwardingAddress: strings.TrimSpace(in.ForwardingAddress),
		Status:            entity.SubscriptionActive,
		StartedAt:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.mail.CreateSubscription(ctx, s); err != nil {
		return nil, err
	}
	return toMailboxSubscriptionResponse(s), nil
}

// UpdateSubscription cambio de plan, dirección de reenvío o estado.
func (uc *MailboxUseCase) UpdateSubscription(ctx context.Context, actor Actor, businessEntityID string, in dto.UpdateMailboxSubscriptionRequest) (*dto.MailboxSubscriptionResponse, error) {
	if _, err := uc.own.entity(ctx, actor, businessEntityID); err != nil {
		return nil, err
	}
	s, err := uc.mail.GetSubscriptionByEntity(ctx, businessEntityID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Plan != nil {
		s.Plan = *in.Plan
		s.MonthlyPrice = planPrice(mailboxPlans, s.Plan)
	}
	if in.ForwardingAddress != nil {
		s.ForwardingAddress = strings.TrimSpace(*in.ForwardingAddress)
	}
	if in.Status != nil {
		s.Status = *in.Status
	}
	s.UpdatedAt = uc.now()
	if err := uc.mail.UpdateSubscription(ctx, s); err != nil {
		return nil, err
	}
	return toMailboxSubscriptionResponse(s), nil
}

// ── Correo ──────────────────────────────────────────────────────────────────

// ListItems correo de una entidad o de todas las del actor.
func (uc *MailboxUseCase) ListItems(ctx context.Context, actor Actor, in dto.MailItemListRequest) ([]dto.MailItemResponse, error) {
	ids, err := uc.own.entityIDs(ctx, actor, in.BusinessEntityID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []dto.MailItemResponse{}, nil
	}
	list, err := uc.mail.ListItems(ctx, repository.MailItemFilter{BusinessEntityIDs: ids, Status: in.Status, Category: in.Category})
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(m *entity.MailItem, _ int) dto.MailItemResponse { return *toMailItemResponse(m) }), nil
}

// GetItem devuelve la pieza y la marca como leída la primera vez que la ve su dueño.
func (uc *MailboxUseCase) GetItem(ctx context.Context, actor Actor, id string) (*dto.MailItemResponse, error) {
	m, err := uc.loadItem(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if m.Status == entity.MailStatusUnread && !actor.IsAdmin() {
		m.Status = entity.MailStatusRead
		m.UpdatedAt = uc.now()
		if err := uc.mail.UpdateItem(ctx, m); err != nil {
			return nil, err
		}
	}
	return toMailItemResponse(m), nil
}

// UpdateItem cambia el estado (leído, archivado).
func (uc *MailboxUseCase) UpdateItem(ctx context.Context, actor Actor, id string, in dto.UpdateMailItemRequest) (*dto.MailItemResponse, error) {
	m, err := uc.loadItem(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	m.Status = in.Status
	m.UpdatedAt = uc.now()
	if err := uc.mail.UpdateItem(ctx, m); err != nil {
		return nil, err
	}
	return toMailItemResponse(m), nil
}

// Scan abre el escaneo de la pieza (domain.ErrNotFound si no se escaneó).
func (uc *MailboxUseCase) Scan(ctx context.Context, actor Actor, id string) (io.ReadCloser, *entity.Document, error) {
	m, err := uc.loadItem(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	if m.ScanDocumentID == "" {
		return nil, nil, domain.ErrNotFound
	}
	return uc.docs.Download(ctx, actor, m.ScanDocumentID)
}

// ── Acciones ────────────────────────────────────────────────────────────────

// RequestAction solicita reenviar, destruir, escanear o recoger una pieza.
//   - forward exige dirección (la del request o la de la suscripción).
//   - una acción abierta del mismo tipo → domain.ErrConflict.
//   - shred con un reenvío abierto, o forward con una destrucción abierta → domain.ErrConflict.
//   - pieza archivada, o ya reenviada o destruida → domain.ErrConflict.
func (uc *MailboxUseCase) RequestAction(ctx context.Context, actor Actor, itemID string, in dto.CreateMailActionRequest) (*dto.MailActionResponse, error) {
	m, err := uc.loadItem(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}
	if m.Status == entity.MailStatusArchived {
		return nil, fmt.Errorf("%w: item is archived", domain.ErrConflict)
	}
	actions, err := uc.mail.ListActionsByItem(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		if a.Status == entity.ActionStatusCompleted && leavesMailbox(a.Action) {
			return nil, fmt.Errorf("%w: item was already %s", domain.ErrConflict, pastTense(a.Action))
		}
		if !a.IsOpen() {
			continue
		}
		if a.Action == in.Action {
			return nil, fmt.Errorf("%w: a %s request is already pending for this item", domain.ErrConflict, in.Action)
		}
		if leavesMailbox(in.Action) && leavesMailbox(a.Action) {
			return nil, fmt.Errorf("%w: item has a pending %s request", domain.ErrConflict, a.Action)
		}
	}

	address := strings.TrimSpace(in.ForwardingAddress)
	if in.Action == entity.MailActionForward && address == "" {
		sub, err := uc.mail.GetSubscriptionByEntity(ctx, m.BusinessEntityID)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			address = sub.ForwardingAddress
		}
		if address == "" {
			return nil, validate.Errors{}.Add("forwardingAddress", "is required for forward requests")
		}
	}
	if in.Action != entity.MailActionForward {
		address = ""
	}

	now := uc.now()
	a := &entity.MailAction{
		ID:                uuid.New().String(),
		MailItemID:        m.ID,
		RequestedBy:       actor.UserID,
		Action:            in.Action,
		Status:            entity.ActionStatusPending,
		ForwardingAddress: address,
		Notes:             strings.TrimSpace(in.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.mail.CreateAction(ctx, a); err != nil {
		return nil, err
	}
	return toMailActionResponse(a), nil
}

// ListActions historial de acciones de una pieza.
func (uc *MailboxUseCase) ListActions(ctx context.Context, actor Actor, itemID string) ([]dto.MailActionResponse, error) {
	m, err := uc.loadItem(ctx, actor, itemID)
	if err != nil {
		return nil, err
	}
	list, err := uc.mail.ListActionsByItem(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(a *entity.MailAction, _ int) dto.MailActionResponse { return *toMailActionResponse(a) }), nil
}

// ── Operador (admin) ────────────────────────────────────────────────────────

// AdminCreateItem registra correo entrante, con escaneo opcional.
// La entidad debe tener una suscripción activa (domain.ErrConflict si no).
func (uc *MailboxUseCase) AdminCreateItem(ctx context.Context, actor Actor, in dto.CreateMailItemRequest, scan *FileUpload) (*dto.MailItemResponse, error) {
	be, err := uc.own.entity(ctx, actor, in.BusinessEntityID)
	if err != nil {
		return nil, err
	}
	sub, err := uc.mail.GetSubscriptionByEntity(ctx, be.ID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.Status != entity.SubscriptionActive {
		return nil, fmt.Errorf("%w: business entity has no active mailbox subscription", domain.ErrConflict)
	}
	received := uc.now()
	if in.ReceivedAt != "" {
		t, err := parseDate(in.ReceivedAt)
		if err != nil {
			return nil, validate.Errors{}.Add("receivedAt", "must be a date formatted as YYYY-MM-DD")
		}
		received = *t
	}
	priority := in.Priority
	if priority == "" {
		priority = entity.MailPriorityNormal
	}
	now := uc.now()
	m := &entity.MailItem{
		ID:               uuid.New().String(),
		BusinessEntityID: be.ID,
		SubscriptionID:   sub.ID,
		Sender:           strings.TrimSpace(in.Sender),
		Subject:          strings.TrimSpace(in.Subject),
		Category:         in.Category,
		Priority:         priority,
		Status:           entity.MailStatusUnread,
		ReceivedAt:       received,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if scan != nil {
		doc, err := uc.docs.store(ctx, actor, be, entity.DocCategoryMailScan, *scan)
		if err != nil {
			return nil, err
		}
		m.ScanDocumentID = doc.ID
	}
	if err := uc.mail.CreateItem(ctx, m); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "mail_item.create", "mail_item", m.ID, map[string]any{"businessEntityId": be.ID})
	return toMailItemResponse(m), nil
}

// AdminListActions cola de trabajo del operador.
func (uc *MailboxUseCase) AdminListActions(ctx context.Context, status string) ([]dto.MailActionResponse, error) {
	list, err := uc.mail.ListActionsByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(a *entity.MailAction, _ int) dto.MailActionResponse { return *toMailActionResponse(a) }), nil
}

// AdminUpdateAction avanza una acción. Al completarse fija completed_at; un reenvío o
// destrucción completados archivan la pieza.
func (uc *MailboxUseCase) AdminUpdateAction(ctx context.Context, actor Actor, id string, in dto.UpdateMailActionRequest) (*dto.MailActionResponse, error) {
	a, err := uc.mail.GetAction(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if !a.IsOpen() && in.Status != a.Status {
		return nil, fmt.Errorf("%w: action is already %s", domain.ErrConflict, a.Status)
	}
	now := uc.now()
	a.Status = in.Status
	if in.Notes != "" {
		a.Notes = strings.TrimSpace(in.Notes)
	}
	if a.Status == entity.ActionStatusCompleted && a.CompletedAt == nil {
		a.CompletedAt = &now
	}
	a.UpdatedAt = now
	if err := uc.mail.UpdateAction(ctx, a); err != nil {
		return nil, err
	}
	if a.Status == entity.ActionStatusCompleted && leavesMailbox(a.Action) {
		if err := uc.archiveItem(ctx, a.MailItemID); err != nil {
			return nil, err
		}
	}
	uc.audit.Record(ctx, actor, "mail_action.status", resourceMailAction, a.ID, map[string]any{"status": a.Status, "action": a.Action})
	return toMailActionResponse(a), nil
}

// leavesMailbox acciones tras las cuales la pieza ya no está en el buzón.
func leavesMailbox(action string) bool {
	return action == entity.MailActionForward || action == entity.MailActionShred
}

func pastTense(action string) string {
	if action == entity.MailActionShred {
		return "shredded"
	}
	return "forwarded"
}

func (uc *MailboxUseCase) archiveItem(ctx context.Context, id string) error {
	m, err := uc.mail.GetItem(ctx, id)
	if err != nil || m == nil {
		return err
	}
	m.Status = entity.MailStatusArchived
	m.UpdatedAt = uc.now()
	return uc.mail.UpdateItem(ctx, m)
}

func (uc *MailboxUseCase) loadItem(ctx context.Context, actor Actor, id string) (*entity.MailItem, error) {
	m, err := uc.mail.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.own.entity(ctx, actor, m.BusinessEntityID); err != nil {
		return nil, err
	}
	return m, nil
}

func toMailboxSubscriptionResponse(s *entity.MailboxSubscription) *dto.MailboxSubscriptionResponse {
	return &dto.MailboxSubscriptionResponse{
		ID:                s.ID,
		BusinessEntityID:  s.BusinessEntityID,
		Plan:              s.Plan,
		MonthlyPrice:      s.MonthlyPrice,
		ForwardingAddress: s.ForwardingAddress,
		Status:            s.Status,
		StartedAt:         s.StartedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func toMailItemResponse(m *entity.MailItem) *dto.MailItemResponse {
	return &dto.MailItemResponse{
		ID:               m.ID,
		BusinessEntityID: m.BusinessEntityID,
		Sender:           m.Sender,
		Subject:          m.Subject,
		Category:         m.Category,
		Priority:         m.Priority,
		Status:           m.Status,
		HasScan:          m.ScanDocumentID != "",
		ReceivedAt:       m.ReceivedAt,
		CreatedAt:        m.CreatedAt,
	}
}

func toMailActionResponse(a *entity.MailAction) *dto.MailActionResponse {
	return &dto.MailActionResponse{
		ID:                a.ID,
		MailItemID:        a.MailItemID,
		RequestedBy:       a.RequestedBy,
		Action:            a.Action,
		Status:            a.Status,
		ForwardingAddress: a.ForwardingAddress,
		Notes:             a.Notes,
		CompletedAt:       a.CompletedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
