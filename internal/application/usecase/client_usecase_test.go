package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

func TestClientUseCase_CreaYListaCliente(t *testing.T) {
	f := newFixture()
	uc := NewClientUseCase(f.users, f.entities, f.auditor)
	ctx := context.Background()

	created, err := uc.Create(ctx, admin, dto.CreateClientRequest{FirstName: "Jane", LastName: "Doe", Email: "Jane@Example.com", CompanyName: "Doe LLC"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Equal(t, entity.RoleClient, created.Role)
	assert.True(t, created.IsActive)

	list, err := uc.List(ctx, dto.ClientListRequest{Search: "jane"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Jane", list.Items[0].FirstName)
	assert.Equal(t, 1, list.Page.Total)

	logs, err := f.auditor.List(ctx, resourceClient, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "client.create", logs[0].Action)
	assert.Equal(t, admin.IPAddress, logs[0].IPAddress)
}

func TestClientUseCase_EmailDuplicado(t *testing.T) {
	f := newFixture()
	uc := NewClientUseCase(f.users, f.entities, f.auditor)
	ctx := context.Background()
	f.client(t, "jane@example.com")

	_, err := uc.Create(ctx, admin, dto.CreateClientRequest{FirstName: "Jane", Email: "JANE@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestClientUseCase_FiltroActivosYDesactivar(t *testing.T) {
	f := newFixture()
	uc := NewClientUseCase(f.users, f.entities, f.auditor)
	ctx := context.Background()
	a := f.client(t, "a@example.com")
	f.client(t, "b@example.com")

	active := false
	out, err := uc.SetStatus(ctx, admin, a.UserID, dto.SetClientStatusRequest{IsActive: &active})
	require.NoError(t, err)
	assert.False(t, out.IsActive)

	list, err := uc.List(ctx, dto.ClientListRequest{Active: "true"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "b@example.com", list.Items[0].Email)
}

func TestClientUseCase_ActualizarConEmailAjeno(t *testing.T) {
	f := newFixture()
	uc := NewClientUseCase(f.users, f.entities, f.auditor)
	ctx := context.Background()
	a := f.client(t, "a@example.com")
	f.client(t, "b@example.com")

	email := "b@example.com"
	_, err := uc.Update(ctx, admin, a.UserID, dto.UpdateClientRequest{Email: &email})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	name := "Alice"
	out, err := uc.Update(ctx, admin, a.UserID, dto.UpdateClientRequest{FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice", out.FirstName)
	assert.Equal(t, "a@example.com", out.Email)
}

func TestClientUseCase_AdminNoEsCliente(t *testing.T) {
	f := newFixture()
	uc := NewClientUseCase(f.users, f.entities, f.auditor)
	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &entity.User{ID: "adm", Email: "ops@example.com", Role: entity.RoleAdmin, IsActive: true}))

	_, err := uc.Get(ctx, "adm")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuditor_FalloNoSePropaga(t *testing.T) {
	f := newFixture()
	f.audit.Fail = errors.New("compliance db down")
	uc := NewClientUseCase(f.users, f.entities, f.auditor)

	_, err := uc.Create(context.Background(), admin, dto.CreateClientRequest{FirstName: "Jane", Email: "jane@example.com"})
	assert.NoError(t, err)
}

func TestBusinessEntityUseCase_CreaConEstadoCanonico(t *testing.T) {
	f := newFixture()
	uc := NewBusinessEntityUseCase(f.entities, f.users, f.auditor)
	ctx := context.Background()
	owner := f.client(t, "jane@example.com")

	out, err := uc.Create(ctx, owner, dto.CreateBusinessEntityRequest{LegalName: "Doe LLC", EntityType: entity.EntityTypeLLC, State: "tx", FormationDate: "2021-03-04"})
	require.NoError(t, err)
	assert.Equal(t, "Texas", out.State)
	assert.Equal(t, "TX", out.StateCode)
	assert.Equal(t, entity.EntityStatusPending, out.Status)
	assert.Equal(t, "2021-03-04", out.FormationDate)

	status := entity.EntityStatusActive
	_, err = uc.Update(ctx, owner, out.ID, dto.UpdateBusinessEntityRequest{Status: &status})
	assert.ErrorIs(t, err, domain.ErrForbidden, "solo un admin cambia el estado")

	updated, err := uc.Update(ctx, admin, out.ID, dto.UpdateBusinessEntityRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, entity.EntityStatusActive, updated.Status)
}

func TestBusinessEntityUseCase_AccesoAjeno(t *testing.T) {
	f := newFixture()
	uc := NewBusinessEntityUseCase(f.entities, f.users, f.auditor)
	ctx := context.Background()
	owner := f.client(t, "jane@example.com")
	other := f.client(t, "mallory@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)

	_, err := uc.Get(ctx, other, be.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Create(ctx, other, dto.CreateBusinessEntityRequest{OwnerUserID: owner.UserID, LegalName: "X", EntityType: entity.EntityTypeLLC, State: "Texas"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := uc.List(ctx, admin, owner.UserID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
