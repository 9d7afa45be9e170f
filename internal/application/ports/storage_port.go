package ports

import (
	"context"
	"io"
)

// Object metadatos de un blob almacenado.
type Object struct {
	Key         string
	ContentType string
	Size        int64
}

// DocumentStorage define el puerto de salida para los binarios de documentos
// (subidas de contabilidad, escaneos de correo). Los metadatos viven en la tabla documents.
type DocumentStorage interface {
	// Put guarda body bajo key. size puede ser -1 si se desconoce.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Get abre el blob. El llamador debe cerrar el ReadCloser.
	// Devuelve domain.ErrNotFound si la clave no existe.
	Get(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	Delete(ctx context.Context, key string) error
	// Backend identifica la implementación ("s3" | "database") para persistirla junto al documento.
	Backend() string
}
