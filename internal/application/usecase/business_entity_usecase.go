package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/reference"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

const resourceBusinessEntity = "business_entity"

// BusinessEntityUseCase alta y edición de las empresas de un cliente.
type BusinessEntityUseCase struct {
	entities repository.BusinessEntityRepository
	users    repository.UserRepository
	audit    *Auditor
	own      ownership
}

// NewBusinessEntityUseCase construye el caso de uso.
func NewBusinessEntityUseCase(entities repository.BusinessEntityRepository, users repository.UserRepository, audit *Auditor) *BusinessEntityUseCase {
	return &BusinessEntityUseCase{entities: entities, users: users, audit: audit, own: ownership{entities: entities}}
}

// List entidades del actor. Un admin puede listar las de otro dueño con ownerID.
func (uc *BusinessEntityUseCase) List(ctx context.Context, actor Actor, ownerID string) ([]dto.BusinessEntityResponse, error) {
	owner := actor.UserID
	if actor.IsAdmin() && ownerID != "" {
		owner = ownerID
	}
	list, err := uc.entities.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return toBusinessEntityResponses(list), nil
}

// Create crea la entidad en estado pending. El estado se guarda con su nombre canónico.
func (uc *BusinessEntityUseCase) Create(ctx context.Context, actor Actor, in dto.CreateBusinessEntityRequest) (*dto.BusinessEntityResponse, error) {
	owner := actor.UserID
	if in.OwnerUserID != "" && in.OwnerUserID != actor.UserID {
		if !actor.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		u, err := uc.users.GetByID(ctx, in.OwnerUserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, validate.Errors{}.Add("ownerUserId", "does not exist")
		}
		owner = u.ID
	}
	state, ok := reference.CanonicalState(in.State)
	if !ok {
		return nil, validate.Errors{}.Add("state", "must be a US state name or postal code")
	}
	formation, err := parseDate(in.FormationDate)
	if err != nil {
		return nil, validate.Errors{}.Add("formationDate", "must be a date formatted as YYYY-MM-DD")
	}
	now := time.Now().UTC()
	e := &entity.BusinessEntity{
		ID:            uuid.New().String(),
		OwnerUserID:   owner,
		LegalName:     strings.TrimSpace(in.LegalName),
		EntityType:    in.EntityType,
		State:         state,
		Status:        entity.EntityStatusPending,
		FormationDate: formation,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.entities.Create(ctx, e); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		uc.audit.Record(ctx, actor, "business_entity.create", resourceBusinessEntity, e.ID, map[string]any{"ownerUserId": owner})
	}
	return toBusinessEntityResponse(e), nil
}

// Get devuelve la entidad si el actor tiene acceso.
func (uc *BusinessEntityUseCase) Get(ctx context.Context, actor Actor, id string) (*dto.BusinessEntityResponse, error) {
	e, err := uc.own.entity(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toBusinessEntityResponse(e), nil
}

// Update edición parcial. El cambio de estado (status) queda reservado a admins.
func (uc *BusinessEntityUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateBusinessEntityRequest) (*dto.BusinessEntityResponse, error) {
	e, err := uc.own.entity(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.LegalName != nil {
		e.LegalName = strings.TrimSpace(*in.LegalName)
	}
	if in.EntityType != nil {
		e.EntityType = *in.EntityType
	}
	if in.State != nil {
		state, ok := reference.CanonicalState(*in.State)
		if !ok {
			return nil, validate.Errors{}.Add("state", "must be a US state name or postal code")
		}
		e.State = state
	}
	if in.FormationDate != nil {
		formation, err := parseDate(*in.FormationDate)
		if err != nil {
			return nil, validate.Errors{}.Add("formationDate", "must be a date formatted as YYYY-MM-DD")
		}
		e.FormationDate = formation
	}
	if in.Status != nil && *in.Status != e.Status {
		if !actor.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		e.Status = *in.Status
	}
	e.UpdatedAt = time.Now().UTC()
	if err := uc.entities.Update(ctx, e); err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		uc.audit.Record(ctx, actor, "business_entity.update", resourceBusinessEntity, e.ID, map[string]any{"status": e.Status})
	}
	return toBusinessEntityResponse(e), nil
}

func toBusinessEntityResponse(e *entity.BusinessEntity) *dto.BusinessEntityResponse {
	return &dto.BusinessEntityResponse{
		ID:            e.ID,
		OwnerUserID:   e.OwnerUserID,
		LegalName:     e.LegalName,
		EntityType:    e.EntityType,
		State:         e.State,
		StateCode:     reference.StateCode(e.State),
		Status:        e.Status,
		FormationDate: formatDate(e.FormationDate),
		EIN:           e.EIN,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func toBusinessEntityResponses(list []*entity.BusinessEntity) []dto.BusinessEntityResponse {
	out := make([]dto.BusinessEntityResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toBusinessEntityResponse(e))
	}
	return out
}
