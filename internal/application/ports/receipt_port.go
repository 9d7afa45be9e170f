package ports

import (
	"context"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

// ReceiptRenderer genera el comprobante PDF de un reporte anual presentado.
type ReceiptRenderer interface {
	AnnualReportReceipt(ctx context.Context, report *entity.AnnualReport, business *entity.BusinessEntity) ([]byte, error)
}
