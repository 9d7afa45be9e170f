package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Planes del buzón digital.
const (
	MailboxPlanBasic    = "basic"
	MailboxPlanPremium  = "premium"
	MailboxPlanBusiness = "business"
)

// Estados de suscripción (buzón y contabilidad).
const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionPaused    = "paused"
)

// Categorías y prioridades de correo.
const (
	MailCategoryLegal      = "legal"
	MailCategoryTax        = "tax"
	MailCategoryGovernment = "government"
	MailCategoryFinancial  = "financial"
	MailCategoryGeneral    = "general"
	MailCategoryMarketing  = "marketing"

	MailPriorityLow    = "low"
	MailPriorityNormal = "normal"
	MailPriorityHigh   = "high"
	MailPriorityUrgent = "urgent"

	MailStatusUnread   = "unread"
	MailStatusRead     = "read"
	MailStatusArchived = "archived"
)

// Acciones sobre una pieza de correo.
const (
	MailActionForward = "forward"
	MailActionShred   = "shred"
	MailActionScan    = "scan"
	MailActionPickup  = "pickup"

	ActionStatusPending    = "pending"
	ActionStatusInProgress = "in_progress"
	ActionStatusCompleted  = "completed"
	ActionStatusCancelled  = "cancelled"
)

// MailboxSubscription suscripción de una entidad al buzón digital (una por entidad).
type MailboxSubscription struct {
	ID                string
	BusinessEntityID  string
	Plan              string
	MonthlyPrice      decimal.Decimal
	ForwardingAddress string
	Status            string
	StartedAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MailItem pieza de correo recibida.
type MailItem struct {
	ID               string
	BusinessEntityID string
	SubscriptionID   string
	Sender           string
	Subject          string
	Category         string
	Priority         string
	Status           string
	ScanDocumentID   string
	ReceivedAt       time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MailAction acción solicitada por el cliente sobre una pieza.
type MailAction struct {
	ID                string
	MailItemID        string
	RequestedBy       string
	Action            string
	Status            string
	ForwardingAddress string
	Notes             string
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsOpen indica si la acción sigue en curso.
func (a *MailAction) IsOpen() bool {
	return a.Status == ActionStatusPending || a.Status == ActionStatusInProgress
}
