package usecase

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/memory"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/storage"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
	"github.com/jhoicas/bizdesk-api/pkg/validate"
)

func newDocuments(f *fixture) *DocumentUseCase {
	blobs := storage.NewDBStorage(memory.NewBlobRepository(), MaxUploadBytes)
	return NewDocumentUseCase(memory.NewDocumentRepository(), blobs, f.entities, nil, logger.Nop())
}

func upload(name, contentType, body string) FileUpload {
	return FileUpload{FileName: name, ContentType: contentType, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestDocuments_SubirDescargarYArchivar(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc := newDocuments(f)
	ctx := context.Background()

	doc, err := uc.UploadBookkeeping(ctx, owner, be.ID, upload("../../Q1 ledger.csv", "text/csv; charset=utf-8", "date,amount\n"))
	require.NoError(t, err)
	assert.Equal(t, "Q1_ledger.csv", doc.FileName)
	assert.Equal(t, "text/csv", doc.ContentType)
	assert.Equal(t, entity.DocCategoryBookkeeping, doc.Category)

	body, meta, err := uc.Download(ctx, owner, doc.ID)
	require.NoError(t, err)
	defer body.Close()
	raw, _ := io.ReadAll(body)
	assert.Equal(t, "date,amount\n", string(raw))
	assert.Equal(t, "database", meta.StorageBackend)

	_, err = uc.Archive(ctx, owner, doc.ID)
	require.NoError(t, err)
	list, err := uc.ListBookkeeping(ctx, owner, be.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "los archivados no se listan")
}

func TestDocuments_RechazaTipoYTamanio(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc := newDocuments(f)
	ctx := context.Background()

	_, err := uc.UploadBookkeeping(ctx, owner, be.ID, upload("run.exe", "application/x-msdownload", "MZ"))
	fields, ok := validate.AsErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields["file"], "PDF")

	big := FileUpload{FileName: "big.pdf", ContentType: "application/pdf", Size: MaxUploadBytes + 1, Body: strings.NewReader("x")}
	_, err = uc.UploadBookkeeping(ctx, owner, be.ID, big)
	fields, ok = validate.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "must be at most 25 MB", fields["file"])

	// sin content type se deduce de la extensión
	doc, err := uc.UploadBookkeeping(ctx, owner, be.ID, upload("scan.pdf", "application/octet-stream", "%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
}

func TestDocuments_OtroClienteNoDescarga(t *testing.T) {
	f := newFixture()
	owner := f.client(t, "jane@example.com")
	other := f.client(t, "mallory@example.com")
	be := f.business(t, owner, "Texas", entity.EntityTypeLLC)
	uc := newDocuments(f)
	ctx := context.Background()

	doc, err := uc.UploadBookkeeping(ctx, owner, be.ID, upload("a.pdf", "application/pdf", "%PDF-1.4"))
	require.NoError(t, err)

	_, _, err = uc.Download(ctx, other, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = uc.Download(ctx, admin, doc.ID)
	assert.NoError(t, err)
}
