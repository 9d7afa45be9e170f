package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/reference"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

const resourceEin = "ein_application"

const taxIDMessage = "must be a valid SSN (NNN-NN-NNNN) or ITIN (9NN-NN-NNNN)"

// EinUseCase solicitudes de EIN: borrador del cliente, envío y revisión admin.
// El SSN/ITIN se cifra con el vault antes de persistirse y nunca se devuelve en claro.
type EinUseCase struct {
	apps  repository.EinApplicationRepository
	tx    repository.EinTxRunner
	vault ports.SecretVault
	audit *Auditor
	own   ownership
	now   func() time.Time
}

// NewEinUseCase construye el caso de uso.
func NewEinUseCase(apps repository.EinApplicationRepository, entities repository.BusinessEntityRepository, tx repository.EinTxRunner, vault ports.SecretVault, audit *Auditor) *EinUseCase {
	return &EinUseCase{
		apps:  apps,
		tx:    tx,
		vault: vault,
		audit: audit,
		own:   ownership{entities: entities},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetByBusinessEntity solicitud de la entidad (domain.ErrNotFound si no hay).
func (uc *EinUseCase) GetByBusinessEntity(ctx context.Context, actor Actor, businessEntityID string) (*dto.EinApplicationResponse, error) {
	if _, err := uc.own.entity(ctx, actor, businessEntityID); err != nil {
		return nil, err
	}
	app, err := uc.apps.GetByBusinessEntity(ctx, businessEntityID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	return toEinResponse(app), nil
}

// Create crea el borrador. Solo hay una solicitud por entidad: la segunda → domain.ErrDuplicate.
func (uc *EinUseCase) Create(ctx context.Context, actor Actor, businessEntityID string, in dto.EinApplicationRequest) (*dto.EinApplicationResponse, error) {
	be, err := uc.own.entity(ctx, actor, businessEntityID)
	if err != nil {
		return nil, err
	}
	if be.EIN != "" {
		return nil, fmt.Errorf("%w: business entity already has an EIN", domain.ErrConflict)
	}
	existing, err := uc.apps.GetByBusinessEntity(ctx, be.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := uc.now()
	app := &entity.EinApplication{
		ID:               uuid.New().String(),
		BusinessEntityID: be.ID,
		LegalName:        be.LegalName,
		EntityType:       be.EntityType,
		MailingState:     be.State,
		Status:           entity.EINStatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.apply(app, in); err != nil {
		return nil, err
	}
	if err := uc.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return toEinResponse(app), nil
}

// Update edita un borrador. Cualquier otro estado → domain.ErrConflict.
func (uc *EinUseCase) Update(ctx context.Context, actor Actor, id string, in dto.EinApplicationRequest) (*dto.EinApplicationResponse, error) {
	app, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !app.CanEdit() {
		return nil, fmt.Errorf("%w: application is %s", domain.ErrConflict, app.Status)
	}
	if err := uc.apply(app, in); err != nil {
		return nil, err
	}
	app.UpdatedAt = uc.now()
	if err := uc.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	return toEinResponse(app), nil
}

// Submit envía el borrador si tiene todos los campos obligatorios.
func (uc *EinUseCase) Submit(ctx context.Context, actor Actor, id string) (*dto.EinApplicationResponse, error) {
	app, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !app.CanEdit() {
		return nil, fmt.Errorf("%w: application is %s", domain.ErrConflict, app.Status)
	}
	if missing := app.MissingForSubmit(); len(missing) > 0 {
		errs := validate.Errors{}
		for _, f := range missing {
			errs.Add(f, "is required")
		}
		return nil, errs
	}
	now := uc.now()
	app.Status = entity.EINStatusSubmitted
	app.SubmittedAt = &now
	app.UpdatedAt = now
	if err := uc.apps.Update(ctx, app); err != nil {
		return nil, err
	}
	return toEinResponse(app), nil
}

// AdminList cola de revisión, filtrada por estado si status no es vacío.
func (uc *EinUseCase) AdminList(ctx context.Context, status string) ([]dto.EinApplicationResponse, error) {
	list, err := uc.apps.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(a *entity.EinApplication, _ int) dto.EinApplicationResponse { return *toEinResponse(a) }), nil
}

// AdminSetStatus avanza la revisión. Aprobar exige el EIN y lo copia a la entidad en la
// misma transacción; rechazar exige un motivo.
func (uc *EinUseCase) AdminSetStatus(ctx context.Context, actor Actor, id string, in dto.EinStatusRequest) (*dto.EinApplicationResponse, error) {
	switch in.Status {
	case entity.EINStatusApproved:
		if !entity.IsValidEIN(in.EINNumber) {
			return nil, validate.Errors{}.Add("einNumber", "is required to approve (NN-NNNNNNN)")
		}
	case entity.EINStatusRejected:
		if strings.TrimSpace(in.RejectionReason) == "" {
			return nil, validate.Errors{}.Add("rejectionReason", "is required to reject")
		}
	}

	var app *entity.EinApplication
	err := uc.tx.RunEin(ctx, func(apps repository.EinApplicationRepository, entities repository.BusinessEntityRepository) error {
		var err error
		app, err = apps.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if app == nil {
			return domain.ErrNotFound
		}
		if !app.CanTransitionTo(in.Status) {
			return fmt.Errorf("%w: cannot move application from %s to %s", domain.ErrConflict, app.Status, in.Status)
		}
		app.Status = in.Status
		app.UpdatedAt = uc.now()
		switch in.Status {
		case entity.EINStatusApproved:
			app.EINNumber = in.EINNumber
			app.RejectionReason = ""
		case entity.EINStatusRejected:
			app.RejectionReason = strings.TrimSpace(in.RejectionReason)
		}
		if err := apps.Update(ctx, app); err != nil {
			return err
		}
		if in.Status == entity.EINStatusApproved {
			return entities.SetEIN(ctx, app.BusinessEntityID, app.EINNumber)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "ein.status", resourceEin, app.ID, map[string]any{"status": app.Status})
	return toEinResponse(app), nil
}

func (uc *EinUseCase) load(ctx context.Context, actor Actor, id string) (*entity.EinApplication, error) {
	app, err := uc.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.own.entity(ctx, actor, app.BusinessEntityID); err != nil {
		return nil, err
	}
	return app, nil
}

// apply copia los campos presentes. El identificador fiscal se valida, se cifra y solo se
// conservan los 4 últimos dígitos en claro.
func (uc *EinUseCase) apply(app *entity.EinApplication, in dto.EinApplicationRequest) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&app.LegalName, in.LegalName)
	set(&app.TradeName, in.TradeName)
	set(&app.EntityType, in.EntityType)
	set(&app.ResponsiblePartyName, in.ResponsiblePartyName)
	set(&app.ResponsiblePartyTitle, in.ResponsiblePartyTitle)
	set(&app.ReasonForApplying, in.ReasonForApplying)
	set(&app.PrincipalActivity, in.PrincipalActivity)
	set(&app.MailingLine1, in.MailingLine1)
	set(&app.MailingCity, in.MailingCity)
	set(&app.MailingZip, in.MailingZip)
	if in.MailingState != nil {
		state, ok := reference.CanonicalState(*in.MailingState)
		if !ok {
			return validate.Errors{}.Add("mailingState", "must be a US state name or postal code")
		}
		app.MailingState = state
	}
	if in.NumberOfEmployees != nil {
		app.NumberOfEmployees = *in.NumberOfEmployees
	}
	if in.BusinessStartDate != nil {
		start, err := parseDate(*in.BusinessStartDate)
		if err != nil {
			return validate.Errors{}.Add("businessStartDate", "must be a date formatted as YYYY-MM-DD")
		}
		app.BusinessStartDate = start
	}

	kind := app.ResponsiblePartyTaxIDType
	if in.ResponsiblePartyTaxIDType != nil {
		kind = *in.ResponsiblePartyTaxIDType
	}
	if kind == "" {
		kind = entity.TaxIDTypeSSN
	}
	var plain string
	switch {
	case in.ResponsiblePartyTaxID != nil && strings.TrimSpace(*in.ResponsiblePartyTaxID) != "":
		plain = *in.ResponsiblePartyTaxID
	case kind != app.ResponsiblePartyTaxIDType && app.ResponsiblePartyTaxIDCipher != "":
		// cambio de tipo sin nuevo número: revalidar el guardado
		stored, err := uc.vault.Decrypt(app.ResponsiblePartyTaxIDCipher)
		if err != nil {
			return err
		}
		plain = stored
	default:
		return nil
	}
	normalized, ok := entity.NormalizeTaxID(kind, plain)
	if !ok {
		return validate.Errors{}.Add("responsiblePartyTaxId", taxIDMessage)
	}
	cipher, err := uc.vault.Encrypt(normalized)
	if err != nil {
		return err
	}
	app.ResponsiblePartyTaxIDCipher = cipher
	app.ResponsiblePartyTaxIDType = kind
	app.ResponsiblePartyLast4 = normalized[len(normalized)-4:]
	return nil
}

func toEinResponse(a *entity.EinApplication) *dto.EinApplicationResponse {
	return &dto.EinApplicationResponse{
		ID:                          a.ID,
		BusinessEntityID:            a.BusinessEntityID,
		LegalName:                   a.LegalName,
		TradeName:                   a.TradeName,
		EntityType:                  a.EntityType,
		ResponsiblePartyName:        a.ResponsiblePartyName,
		ResponsiblePartyTitle:       a.ResponsiblePartyTitle,
		ResponsiblePartyTaxIDMasked: a.MaskedTaxID(),
		ResponsiblePartyTaxIDType:   a.ResponsiblePartyTaxIDType,
		ReasonForApplying:           a.ReasonForApplying,
		BusinessStartDate:           formatDate(a.BusinessStartDate),
		NumberOfEmployees:           a.NumberOfEmployees,
		PrincipalActivity:           a.PrincipalActivity,
		MailingLine1:                a.MailingLine1,
		MailingCity:                 a.MailingCity,
		MailingState:                a.MailingState,
		MailingZip:                  a.MailingZip,
		Status:                      a.Status,
		EINNumber:                   a.EINNumber,
		RejectionReason:             a.RejectionReason,
		SubmittedAt:                 a.SubmittedAt,
		CreatedAt:                   a.CreatedAt,
		UpdatedAt:                   a.UpdatedAt,
	}
}
