package dto

import "time"

// RegisterRequest alta de un cliente desde la web pública.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"omitempty,max=100"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
	CompanyName string `json:"companyName" validate:"omitempty,max=200"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	CompanyName string    `json:"companyName,omitempty"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// LoginResponse token JWT + usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ActivateAccountRequest fija el password de un cliente creado por un admin.
type ActivateAccountRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ActivationTokenResponse token de activación emitido por un admin.
type ActivationTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateClientRequest alta de cliente desde la consola admin.
type CreateClientRequest struct {
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"omitempty,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,phone"`
	CompanyName string `json:"companyName" validate:"omitempty,max=200"`
}

// UpdateClientRequest edición parcial: solo se aplican los campos presentes.
type UpdateClientRequest struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"lastName" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email,max=254"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,phone"`
	CompanyName *string `json:"companyName" validate:"omitempty,max=200"`
}

// SetClientStatusRequest activación/desactivación lógica.
type SetClientStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// ClientListRequest filtros de GET /api/admin/clients.
type ClientListRequest struct {
	PageRequest
	Search string `query:"search" validate:"omitempty,max=100"`
	Active string `query:"active" validate:"omitempty,oneof=true false"`
}

// ClientListResponse página de clientes.
type ClientListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
