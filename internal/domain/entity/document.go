package entity

import "time"

// Categorías de documento.
const (
	DocCategoryBookkeeping = "bookkeeping"
	DocCategoryMailScan    = "mail_scan"
	DocCategoryFormation   = "formation"
	DocCategoryTax         = "tax"
	DocCategoryGeneral     = "general"
)

// Backends de almacenamiento del blob.
const (
	StorageS3       = "s3"
	StorageDatabase = "database"
)

// Document metadatos de un archivo subido. Los documentos se archivan, no se borran.
type Document struct {
	ID               string
	OwnerUserID      string
	BusinessEntityID string
	Category         string
	FileName         string
	ContentType      string
	SizeBytes        int64
	StorageKey       string
	StorageBackend   string
	UploadedBy       string
	IsArchived       bool
	CreatedAt        time.Time
}
