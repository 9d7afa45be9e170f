package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de declaración.
const (
	TaxOrderPendingPayment = "pending_payment"
	TaxOrderPaid           = "paid"
	TaxOrderInProgress     = "in_progress"
	TaxOrderCompleted      = "completed"
)

// TaxFilingOrder orden del checkout de declaración de impuestos.
type TaxFilingOrder struct {
	ID                string
	UserID            string
	BusinessEntityID  string
	BusinessStructure string
	Plan              string
	Amount            decimal.Decimal
	TaxYear           int
	BusinessName      string
	EIN               string
	ShareholderInfo   string
	PartnerInfo       string
	ContactEmail      string
	ContactPhone      string
	PaymentIntentID   string
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
