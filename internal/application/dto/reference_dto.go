package dto

import "github.com/shopspring/decimal"

// StateSummary estado con su código postal.
type StateSummary struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// StateFeeResponse tarifa de reporte anual de un tipo de entidad.
type StateFeeResponse struct {
	State      string          `json:"state"`
	EntityType string          `json:"entityType"`
	Fee        decimal.Decimal `json:"fee"`
	Frequency  string          `json:"frequency"`
	DueDate    string          `json:"dueDate"`
	LateFee    decimal.Decimal `json:"lateFee"`
	Notes      string          `json:"notes,omitempty"`
}

// StateResourcesResponse enlaces oficiales de un estado.
type StateResourcesResponse struct {
	State            string `json:"state"`
	SecretaryOfState string `json:"secretaryOfState"`
	TaxAgency        string `json:"taxAgency"`
	IrsEin           string `json:"irsEin"`
}
