package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Planes de contabilidad.
const (
	BookkeepingStarter = "starter"
	BookkeepingGrowth  = "growth"
	BookkeepingPremium = "premium"
)

// BookkeepingSubscription suscripción de contabilidad (una por entidad).
type BookkeepingSubscription struct {
	ID               string
	BusinessEntityID string
	Plan             string
	MonthlyPrice     decimal.Decimal
	Status           string
	StartedAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
