package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
)

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.00", formatUSD(decimal.Zero))
	assert.Equal(t, "$99.00", formatUSD(decimal.NewFromInt(99)))
	assert.Equal(t, "$1,234.50", formatUSD(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "$1,000,000.00", formatUSD(decimal.NewFromInt(1000000)))
}

func TestAnnualReportReceipt(t *testing.T) {
	filed := time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC)
	report := &entity.AnnualReport{
		ID:                 "rep-1",
		FilingYear:         2025,
		State:              "Texas",
		DueDate:            time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
		Status:             entity.ReportStatusFiled,
		StateFee:           decimal.Zero,
		ServiceFee:         decimal.NewFromInt(99),
		LateFee:            decimal.NewFromInt(50),
		ConfirmationNumber: "TX-2025-0001",
		FiledAt:            &filed,
	}
	business := &entity.BusinessEntity{LegalName: "Acme LLC", EntityType: entity.EntityTypeLLC, State: "Texas"}

	out, err := NewReceiptGenerator("").AnnualReportReceipt(context.Background(), report, business)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestAnnualReportReceipt_SoloPresentados(t *testing.T) {
	report := &entity.AnnualReport{Status: entity.ReportStatusDueSoon}
	_, err := NewReceiptGenerator("").AnnualReportReceipt(context.Background(), report, &entity.BusinessEntity{})
	assert.Error(t, err)
}
