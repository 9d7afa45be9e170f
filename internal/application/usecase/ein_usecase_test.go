package usecase

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/pii"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

func newEin(t *testing.T, f *fixture) (*EinUseCase, *memory.EinApplicationRepository) {
	t.Helper()
	vault, err := pii.NewEphemeralVault()
	require.NoError(t, err)
	apps := memory.NewEinApplicationRepository()
	tx := &memory.EinTxRunner{Apps: apps, Entities: f.entities}
	return NewEinUseCase(apps, f.entities, tx, vault, f.auditor), apps
}

func completeEinRequest() dto.EinApplicationRequest {
	return dto.EinApplicationRequest{
		ResponsiblePartyName:  lo.ToPtr("Jane Doe"),
		ResponsiblePartyTaxID: lo.ToPtr("123456789"),
		ReasonForApplying:     lo.ToPtr("Started new business"),
		BusinessStartDate:     lo.ToPtr("2025-01-15"),
		PrincipalActivity:     lo.ToPtr("Consulting"),
		MailingLine1:          lo.ToPtr("1 Main St"),
		MailingCity:           lo.ToPtr("Austin"),
		MailingZip:            lo.ToPtr("78701"),
	}
}

func TestEin_BorradorEnmascaraYCifra(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc, apps := newEin(t, f)
	ctx := context.Background()

	out, err := uc.Create(ctx, owner, be.ID, dto.EinApplicationRequest{ResponsiblePartyTaxID: lo.ToPtr("123-45-6789")})
	require.NoError(t, err)
	assert.Equal(t, "***-**-6789", out.ResponsiblePartyTaxIDMasked)
	assert.Equal(t, entity.TaxIDTypeSSN, out.ResponsiblePartyTaxIDType)
	assert.Equal(t, be.LegalName, out.LegalName, "se precarga con los datos de la entidad")
	assert.Equal(t, "Texas", out.MailingState)

	stored, err := apps.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.ResponsiblePartyTaxIDCipher, "123-45-6789")

	_, err = uc.Create(ctx, owner, be.ID, dto.EinApplicationRequest{})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEin_IdentificadorFiscalInvalido(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc, _ := newEin(t, f)
	ctx := context.Background()

	_, err := uc.Create(ctx, owner, be.ID, dto.EinApplicationRequest{ResponsiblePartyTaxID: lo.ToPtr("912-78-1234")})
	fields, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, taxIDMessage, fields["responsiblePartyTaxId"])

	out, err := uc.Create(ctx, owner, be.ID, dto.EinApplicationRequest{
		ResponsiblePartyTaxID:     lo.ToPtr("912-78-1234"),
		ResponsiblePartyTaxIDType: lo.ToPtr(entity.TaxIDTypeITIN),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TaxIDTypeITIN, out.ResponsiblePartyTaxIDType)

	// cambiar el tipo sin número revalida el guardado
	_, err = uc.Update(ctx, owner, out.ID, dto.EinApplicationRequest{ResponsiblePartyTaxIDType: lo.ToPtr(entity.TaxIDTypeSSN)})
	_, ok = validate.AsErrors(err)
	assert.True(t, ok)
}

func TestEin_EnviarExigeCamposObligatorios(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc, _ := newEin(t, f)
	ctx := context.Background()

	draft, err := uc.Create(ctx, owner, be.ID, dto.EinApplicationRequest{})
	require.NoError(t, err)

	_, err = uc.Submit(ctx, owner, draft.ID)
	fields, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["responsiblePartyName"])
	assert.Contains(t, fields, "businessStartDate")
	assert.NotContains(t, fields, "legalName")
}

func TestEin_AprobarCopiaElEINALaEntidad(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc, _ := newEin(t, f)
	ctx := context.Background()

	draft, err := uc.Create(ctx, owner, be.ID, completeEinRequest())
	require.NoError(t, err)

	_, err = uc.AdminSetStatus(ctx, admin, draft.ID, dto.EinStatusRequest{Status: entity.EINStatusApproved, EINNumber: "12-3456789"})
	assert.ErrorIs(t, err, domain.ErrConflict, "un borrador no se puede aprobar")

	submitted, err := uc.Submit(ctx, owner, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EINStatusSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)

	_, err = uc.Update(ctx, owner, draft.ID, dto.EinApplicationRequest{TradeName: lo.ToPtr("Acme")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.AdminSetStatus(ctx, admin, draft.ID, dto.EinStatusRequest{Status: entity.EINStatusApproved})
	fields, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "einNumber")

	approved, err := uc.AdminSetStatus(ctx, admin, draft.ID, dto.EinStatusRequest{Status: entity.EINStatusApproved, EINNumber: "12-3456789"})
	require.NoError(t, err)
	assert.Equal(t, entity.EINStatusApproved, approved.Status)

	updated, err := f.entities.GetByID(ctx, be.ID)
	require.NoError(t, err)
	assert.Equal(t, "12-3456789", updated.EIN)

	logs, err := f.auditor.List(ctx, resourceEin, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "ein.status", logs[0].Action)
}

func TestEin_RechazoExigeMotivo(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc, _ := newEin(t, f)
	ctx := context.Background()

	draft, err := uc.Create(ctx, owner, be.ID, completeEinRequest())
	require.NoError(t, err)
	_, err = uc.Submit(ctx, owner, draft.ID)
	require.NoError(t, err)

	_, err = uc.AdminSetStatus(ctx, admin, draft.ID, dto.EinStatusRequest{Status: entity.EINStatusRejected})
	_, ok := validate.AsErrors(err)
	assert.True(t, ok)

	rejected, err := uc.AdminSetStatus(ctx, admin, draft.ID, dto.EinStatusRequest{Status: entity.EINStatusRejected, RejectionReason: "Name mismatch"})
	require.NoError(t, err)
	assert.Equal(t, "Name mismatch", rejected.RejectionReason)

	queue, err := uc.AdminList(ctx, entity.EINStatusRejected)
	require.NoError(t, err)
	assert.Len(t, queue, 1)
}

func TestEin_EntidadConEINNoAdmiteSolicitud(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	require.NoError(t, f.entities.SetEIN(context.Background(), be.ID, "98-7654321"))
	uc, _ := newEin(t, f)

	_, err := uc.Create(context.Background(), owner, be.ID, dto.EinApplicationRequest{})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
