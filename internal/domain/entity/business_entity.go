package entity

import "time"

// Tipos de entidad legal soportados por la tabla de tarifas estatales.
const (
	EntityTypeLLC            = "LLC"
	EntityTypeCorporation    = "Corporation"
	EntityTypeSCorp          = "S-Corp"
	EntityTypeNonprofit      = "Nonprofit"
	EntityTypeLP             = "LP"
	EntityTypeLLP            = "LLP"
	EntityTypeSoleProprietor = "Sole Proprietorship"
)

// Estados de una entidad.
const (
	EntityStatusPending   = "pending"
	EntityStatusActive    = "active"
	EntityStatusInactive  = "inactive"
	EntityStatusDissolved = "dissolved"
)

// BusinessEntity empresa formada (o en formación) de un cliente.
type BusinessEntity struct {
	ID            string
	OwnerUserID   string
	LegalName     string
	EntityType    string
	State         string // nombre canónico del estado (ej. "Texas")
	Status        string
	FormationDate *time.Time
	EIN           string // vacío hasta que el IRS lo asigna
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
