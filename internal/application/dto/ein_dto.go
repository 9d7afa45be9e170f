package dto

import "time"

// EinApplicationRequest datos del formulario SS-4. En alta todos son opcionales (borrador).
type EinApplicationRequest struct {
	LegalName                 *string `json:"legalName" validate:"omitempty,max=200"`
	TradeName                 *string `json:"tradeName" validate:"omitempty,max=200"`
	EntityType                *string `json:"entityType" validate:"omitempty,max=50"`
	ResponsiblePartyName      *string `json:"responsiblePartyName" validate:"omitempty,max=200"`
	ResponsiblePartyTitle     *string `json:"responsiblePartyTitle" validate:"omitempty,max=100"`
	ResponsiblePartyTaxID     *string `json:"responsiblePartyTaxId" validate:"omitempty,max=11"`
	ResponsiblePartyTaxIDType *string `json:"responsiblePartyTaxIdType" validate:"omitempty,oneof=SSN ITIN"`
	ReasonForApplying         *string `json:"reasonForApplying" validate:"omitempty,max=200"`
	BusinessStartDate         *string `json:"businessStartDate" validate:"omitempty,datetime=2006-01-02"`
	NumberOfEmployees         *int    `json:"numberOfEmployees" validate:"omitempty,min=0,max=1000000"`
	PrincipalActivity         *string `json:"principalActivity" validate:"omitempty,max=200"`
	MailingLine1              *string `json:"mailingLine1" validate:"omitempty,max=200"`
	MailingCity               *string `json:"mailingCity" validate:"omitempty,max=100"`
	MailingState              *string `json:"mailingState" validate:"omitempty,us_state"`
	MailingZip                *string `json:"mailingZip" validate:"omitempty,numeric,len=5"`
}

// EinApplicationResponse solicitud con el SSN/ITIN enmascarado.
type EinApplicationResponse struct {
	ID                          string     `json:"id"`
	BusinessEntityID            string     `json:"businessEntityId"`
	LegalName                   string     `json:"legalName"`
	TradeName                   string     `json:"tradeName,omitempty"`
	EntityType                  string     `json:"entityType"`
	ResponsiblePartyName        string     `json:"responsiblePartyName"`
	ResponsiblePartyTitle       string     `json:"responsiblePartyTitle,omitempty"`
	ResponsiblePartyTaxIDMasked string     `json:"responsiblePartyTaxIdMasked,omitempty"`
	ResponsiblePartyTaxIDType   string     `json:"responsiblePartyTaxIdType,omitempty"`
	ReasonForApplying           string     `json:"reasonForApplying"`
	BusinessStartDate           string     `json:"businessStartDate,omitempty"`
	NumberOfEmployees           int        `json:"numberOfEmployees"`
	PrincipalActivity           string     `json:"principalActivity"`
	MailingLine1                string     `json:"mailingLine1"`
	MailingCity                 string     `json:"mailingCity"`
	MailingState                string     `json:"mailingState"`
	MailingZip                  string     `json:"mailingZip"`
	Status                      string     `json:"status"`
	EINNumber                   string     `json:"einNumber,omitempty"`
	RejectionReason             string     `json:"rejectionReason,omitempty"`
	SubmittedAt                 *time.Time `json:"submittedAt,omitempty"`
	CreatedAt                   time.Time  `json:"createdAt"`
	UpdatedAt                   time.Time  `json:"updatedAt"`
}

// EinStatusRequest revisión admin de una solicitud.
type EinStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=processing approved rejected"`
	EINNumber       string `json:"einNumber" validate:"omitempty,ein"`
	RejectionReason string `json:"rejectionReason" validate:"omitempty,max=1000"`
}
