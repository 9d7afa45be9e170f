package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

// User representa a un cliente de la plataforma o a un operador (admin).
// Los clientes creados desde la consola admin no tienen password hasta que se registran.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt; vacío para clientes invitados
	FirstName    string
	LastName     string
	PhoneNumber  string
	CompanyName  string
	Role         string // admin, client
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin indica si el usuario opera la consola admin.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
