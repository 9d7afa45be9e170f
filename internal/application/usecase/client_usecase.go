package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bizdesk-api/internal/application/auth"
	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

const resourceClient = "client"

// ClientUseCase gestión de clientes desde la consola admin.
type ClientUseCase struct {
	users    repository.UserRepository
	entities repository.BusinessEntityRepository
	audit    *Auditor
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(users repository.UserRepository, entities repository.BusinessEntityRepository, audit *Auditor) *ClientUseCase {
	return &ClientUseCase{users: users, entities: entities, audit: audit}
}

// List lista clientes con búsqueda, filtro de activos y paginación.
func (uc *ClientUseCase) List(ctx context.Context, in dto.ClientListRequest) (*dto.ClientListResponse, error) {
	in.DefaultPage()
	f := repository.UserFilter{
		Role:   entity.RoleClient,
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	if in.Active != "" {
		active := in.Active == "true"
		f.Active = &active
	}
	list, total, err := uc.users.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.ClientListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Create da de alta un cliente sin password. El cliente la fija al registrarse con el mismo email.
// Devuelve domain.ErrEmailAlreadyExists si el email ya está en uso.
func (uc *ClientUseCase) Create(ctx context.Context, actor Actor, in dto.CreateClientRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:          uuid.New().String(),
		Email:       email,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Role:        entity.RoleClient,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "client.create", resourceClient, user.ID, map[string]any{"email": user.Email})
	return auth.ToUserResponse(user), nil
}

// Get obtiene un cliente por ID.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Update aplica solo los campos presentes.
func (uc *ClientUseCase) Update(ctx context.Context, actor Actor, id string, in dto.UpdateClientRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	changed := map[string]any{}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != user.Email {
			other, err := uc.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.ErrEmailAlreadyExists
			}
			user.Email = email
			changed["email"] = email
		}
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
		changed["firstName"] = user.FirstName
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
		changed["lastName"] = user.LastName
	}
	if in.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*in.PhoneNumber)
		changed["phoneNumber"] = user.PhoneNumber
	}
	if in.CompanyName != nil {
		user.CompanyName = strings.TrimSpace(*in.CompanyName)
		changed["companyName"] = user.CompanyName
	}
	if len(changed) == 0 {
		return auth.ToUserResponse(user), nil
	}
	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, "client.update", resourceClient, user.ID, changed)
	return auth.ToUserResponse(user), nil
}

// SetStatus activa o desactiva el cliente (baja lógica).
func (uc *ClientUseCase) SetStatus(ctx context.Context, actor Actor, id string, in dto.SetClientStatusRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	active := *in.IsActive
	if err := uc.users.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	user.IsActive = active
	user.UpdatedAt = time.Now().UTC()
	action := "client.deactivate"
	if active {
		action = "client.activate"
	}
	uc.audit.Record(ctx, actor, action, resourceClient, id, nil)
	return auth.ToUserResponse(user), nil
}

// BusinessEntities entidades de un cliente.
func (uc *ClientUseCase) BusinessEntities(ctx context.Context, id string) ([]dto.BusinessEntityResponse, error) {
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	list, err := uc.entities.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBusinessEntityResponses(list), nil
}

func (uc *ClientUseCase) load(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != entity.RoleClient {
		return nil, domain.ErrNotFound
	}
	return user, nil
}
