package entity

import (
	"regexp"
	"strings"
	"time"
)

// Estados de una solicitud de EIN.
const (
	EINStatusDraft      = "draft"
	EINStatusSubmitted  = "submitted"
	EINStatusProcessing = "processing"
	EINStatusApproved   = "approved"
	EINStatusRejected   = "rejected"
)

// Tipos de identificación fiscal del responsable.
const (
	TaxIDTypeSSN  = "SSN"
	TaxIDTypeITIN = "ITIN"
)

// EinApplication solicitud de EIN (una por entidad).
// ResponsiblePartyTaxIDCipher guarda el SSN/ITIN cifrado; el claro nunca se persiste.
type EinApplication struct {
	ID                          string
	BusinessEntityID            string
	LegalName                   string
	TradeName                   string
	EntityType                  string
	ResponsiblePartyName        string
	ResponsiblePartyTitle       string
	ResponsiblePartyTaxIDCipher string
	ResponsiblePartyTaxIDType   string
	ResponsiblePartyLast4       string
	ReasonForApplying           string
	BusinessStartDate           *time.Time
	NumberOfEmployees           int
	PrincipalActivity           string
	MailingLine1                string
	MailingCity                 string
	MailingState                string
	MailingZip                  string
	Status                      string
	EINNumber                   string
	RejectionReason             string
	SubmittedAt                 *time.Time
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// MissingForSubmit devuelve los campos obligatorios vacíos antes de enviar.
func (a *EinApplication) MissingForSubmit() []string {
	var missing []string
	check := func(name, v string) {
		if v == "" {
			missing = append(missing, name)
		}
	}
	check("legalName", a.LegalName)
	check("entityType", a.EntityType)
	check("responsiblePartyName", a.ResponsiblePartyName)
	check("responsiblePartyTaxId", a.ResponsiblePartyTaxIDCipher)
	check("reasonForApplying", a.ReasonForApplying)
	check("principalActivity", a.PrincipalActivity)
	check("mailingLine1", a.MailingLine1)
	check("mailingCity", a.MailingCity)
	check("mailingState", a.MailingState)
	check("mailingZip", a.MailingZip)
	if a.BusinessStartDate == nil {
		missing = append(missing, "businessStartDate")
	}
	return missing
}

// MaskedTaxID representación segura para respuestas: ***-**-1234.
func (a *EinApplication) MaskedTaxID() string {
	if a.ResponsiblePartyLast4 == "" {
		return ""
	}
	return "***-**-" + a.ResponsiblePartyLast4
}

var (
	taxIDDigits = regexp.MustCompile(`^(\d{3})-?(\d{2})-?(\d{4})$`)
	einFormat   = regexp.MustCompile(`^\d{2}-\d{7}$`)
)

// NormalizeTaxID valida un SSN o ITIN y lo devuelve como NNN-NN-NNNN.
// SSN: no empieza por 9, 000 ni 666 y grupo/serie distintos de cero. ITIN: empieza por 9.
func NormalizeTaxID(kind, raw string) (string, bool) {
	m := taxIDDigits.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	area, group, serial := m[1], m[2], m[3]
	switch kind {
	case TaxIDTypeSSN:
		if area[0] == '9' || area == "000" || area == "666" || group == "00" || serial == "0000" {
			return "", false
		}
	case TaxIDTypeITIN:
		if area[0] != '9' {
			return "", false
		}
	default:
		return "", false
	}
	return area + "-" + group + "-" + serial, true
}

// IsValidEIN indica si s tiene el formato NN-NNNNNNN.
func IsValidEIN(s string) bool { return einFormat.MatchString(s) }

// CanEdit solo los borradores se pueden modificar.
func (a *EinApplication) CanEdit() bool { return a.Status == EINStatusDraft }

// CanTransitionTo transiciones permitidas al revisar una solicitud.
func (a *EinApplication) CanTransitionTo(next string) bool {
	switch a.Status {
	case EINStatusSubmitted:
		return next == EINStatusProcessing || next == EINStatusApproved || next == EINStatusRejected
	case EINStatusProcessing:
		return next == EINStatusApproved || next == EINStatusRejected
	default:
		return false
	}
}
