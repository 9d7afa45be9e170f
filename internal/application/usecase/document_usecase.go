package usecase

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/jhoicas/bizdesk-api/internal/application/analytics"
	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/application/ports"
	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

// MaxUploadBytes tamaño máximo de un documento subido.
const MaxUploadBytes int64 = 25 << 20

var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"image/png":       ".png",
	"image/jpeg":      ".jpg",
	"text/csv":        ".csv",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       ".xlsx",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileUpload archivo recibido por multipart.
type FileUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DocumentUseCase subida, descarga y archivo de documentos (contabilidad, escaneos de correo).
type DocumentUseCase struct {
	docs    repository.DocumentRepository
	storage ports.DocumentStorage
	tracker *analytics.Tracker
	log     *logger.Logger
	own     ownership
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(docs repository.DocumentRepository, storage ports.DocumentStorage, entities repository.BusinessEntityRepository, tracker *analytics.Tracker, log *logger.Logger) *DocumentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DocumentUseCase{
		docs:    docs,
		storage: storage,
		tracker: tracker,
		log:     log.Component("documents"),
		own:     ownership{entities: entities},
	}
}

// UploadBookkeeping sube un documento de contabilidad a una entidad del actor.
func (uc *DocumentUseCase) UploadBookkeeping(ctx context.Context, actor Actor, businessEntityID string, file FileUpload) (*dto.DocumentResponse, error) {
	be, err := uc.own.entity(ctx, actor, businessEntityID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.store(ctx, actor, be, entity.DocCategoryBookkeeping, file)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// store valida, guarda el blob y registra los metadatos. Si falla el insert se borra el blob.
func (uc *DocumentUseCase) store(ctx context.Context, actor Actor, be *entity.BusinessEntity, category string, file FileUpload) (*entity.Document, error) {
	contentType, err := checkUpload(file)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	id := uuid.New().String()
	name := sanitizeFileName(file.FileName, contentType)
	key := fmt.Sprintf("%s/%s/%s/%s", category, be.ID, id, name)
	if err := uc.storage.Put(ctx, key, contentType, file.Body, file.Size); err != nil {
		uc.log.Error().Err(err).Str("key", key).Str("backend", uc.storage.Backend()).Msg("document upload failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	doc := &entity.Document{
		ID:               id,
		OwnerUserID:      be.OwnerUserID,
		BusinessEntityID: be.ID,
		Category:         category,
		FileName:         name,
		ContentType:      contentType,
		SizeBytes:        file.Size,
		StorageKey:       key,
		StorageBackend:   uc.storage.Backend(),
		UploadedBy:       actor.UserID,
		CreatedAt:        time.Now().UTC(),
	}
	if err := uc.docs.Create(ctx, doc); err != nil {
		if derr := uc.storage.Delete(context.WithoutCancel(ctx), key); derr != nil {
			uc.log.Warn().Err(derr).Str("key", key).Msg("orphan blob not removed")
		}
		return nil, err
	}
	uc.tracker.TrackDocumentEvent(entity.DocumentEvent{
		DocumentID:       doc.ID,
		UserID:           actor.UserID,
		BusinessEntityID: be.ID,
		EventType:        "upload",
		DocumentType:     category,
		SizeBytes:        doc.SizeBytes,
		ProcessingMs:     time.Since(started).Milliseconds(),
	})
	return doc, nil
}

// ListBookkeeping documentos de contabilidad de una entidad (o de todas las del actor).
func (uc *DocumentUseCase) ListBookkeeping(ctx context.Context, actor Actor, businessEntityID string) ([]dto.DocumentResponse, error) {
	f := repository.DocumentFilter{Category: entity.DocCategoryBookkeeping}
	if businessEntityID != "" {
		if _, err := uc.own.entity(ctx, actor, businessEntityID); err != nil {
			return nil, err
		}
		f.BusinessEntityID = businessEntityID
	} else {
		f.OwnerUserID = actor.UserID
	}
	return uc.list(ctx, f)
}

// ListForClient todos los documentos no archivados del actor.
func (uc *DocumentUseCase) ListForClient(ctx context.Context, actor Actor) ([]dto.DocumentResponse, error) {
	return uc.list(ctx, repository.DocumentFilter{OwnerUserID: actor.UserID})
}

func (uc *DocumentUseCase) list(ctx context.Context, f repository.DocumentFilter) ([]dto.DocumentResponse, error) {
	list, err := uc.docs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return lo.Map(list, func(d *entity.Document, _ int) dto.DocumentResponse { return *toDocumentResponse(d) }), nil
}

// Download abre el blob del documento. El llamador cierra el ReadCloser.
func (uc *DocumentUseCase) Download(ctx context.Context, actor Actor, id string) (io.ReadCloser, *entity.Document, error) {
	doc, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	body, _, err := uc.storage.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	uc.tracker.TrackDocumentEvent(entity.DocumentEvent{
		DocumentID:       doc.ID,
		UserID:           actor.UserID,
		BusinessEntityID: doc.BusinessEntityID,
		EventType:        "download",
		DocumentType:     doc.Category,
		SizeBytes:        doc.SizeBytes,
	})
	return body, doc, nil
}

// Archive oculta el documento de los listados. Los documentos no se borran.
func (uc *DocumentUseCase) Archive(ctx context.Context, actor Actor, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.docs.SetArchived(ctx, doc.ID, true); err != nil {
		return nil, err
	}
	doc.IsArchived = true
	uc.tracker.TrackDocumentEvent(entity.DocumentEvent{
		DocumentID:       doc.ID,
		UserID:           actor.UserID,
		BusinessEntityID: doc.BusinessEntityID,
		EventType:        "archive",
		DocumentType:     doc.Category,
	})
	return toDocumentResponse(doc), nil
}

func (uc *DocumentUseCase) load(ctx context.Context, actor Actor, id string) (*entity.Document, error) {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.IsAdmin() && doc.OwnerUserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return doc, nil
}

// checkUpload aplica el límite de tamaño y la lista de tipos permitidos.
// Devuelve el content type normalizado.
func checkUpload(file FileUpload) (string, error) {
	if file.Body == nil || file.Size == 0 {
		return "", validate.Errors{}.Add("file", "is required")
	}
	if file.Size > MaxUploadBytes {
		return "", validate.Errors{}.Add("file", "must be at most 25 MB")
	}
	contentType, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil || contentType == "application/octet-stream" {
		contentType = ""
	}
	if contentType == "" {
		contentType, _, _ = mime.ParseMediaType(mime.TypeByExtension(strings.ToLower(filepath.Ext(file.FileName))))
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return "", validate.Errors{}.Add("file", "must be a PDF, PNG, JPEG, CSV, XLSX or DOCX file")
	}
	return contentType, nil
}

func sanitizeFileName(name, contentType string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		base = "document"
	}
	if len(base) > 120 {
		base = base[len(base)-120:]
	}
	if filepath.Ext(base) == "" {
		base += allowedContentTypes[contentType]
	}
	return base
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		ID:               d.ID,
		BusinessEntityID: d.BusinessEntityID,
		Category:         d.Category,
		FileName:         d.FileName,
		ContentType:      d.ContentType,
		SizeBytes:        d.SizeBytes,
		IsArchived:       d.IsArchived,
		CreatedAt:        d.CreatedAt,
	}
}
