package dto

import "time"

// CreateBusinessEntityRequest alta de una entidad. OwnerUserID solo lo usa un admin.
type CreateBusinessEntityRequest struct {
	OwnerUserID   string `json:"ownerUserId" validate:"omitempty,uuid"`
	LegalName     string `json:"legalName" validate:"required,max=200"`
	EntityType    string `json:"entityType" validate:"required,oneof=LLC Corporation S-Corp Nonprofit LP LLP 'Sole Proprietorship'"`
	State         string `json:"state" validate:"required,us_state"`
	FormationDate string `json:"formationDate" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateBusinessEntityRequest edición parcial.
type UpdateBusinessEntityRequest struct {
	LegalName     *string `json:"legalName" validate:"omitempty,min=1,max=200"`
	EntityType    *string `json:"entityType" validate:"omitempty,oneof=LLC Corporation S-Corp Nonprofit LP LLP 'Sole Proprietorship'"`
	State         *string `json:"state" validate:"omitempty,us_state"`
	Status        *string `json:"status" validate:"omitempty,oneof=pending active inactive dissolved"`
	FormationDate *string `json:"formationDate" validate:"omitempty,datetime=2006-01-02"`
}

// BusinessEntityResponse salida de una entidad.
type BusinessEntityResponse struct {
	ID            string    `json:"id"`
	OwnerUserID   string    `json:"ownerUserId"`
	LegalName     string    `json:"legalName"`
	EntityType    string    `json:"entityType"`
	State         string    `json:"state"`
	StateCode     string    `json:"stateCode"`
	Status        string    `json:"status"`
	FormationDate string    `json:"formationDate,omitempty"`
	EIN           string    `json:"ein,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
