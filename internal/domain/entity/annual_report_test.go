package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusForDueDate(t *testing.T) {
	due := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, ReportStatusNotDue, StatusForDueDate(due, due.AddDate(0, -3, 0)))
	assert.Equal(t, ReportStatusDueSoon, StatusForDueDate(due, due.Add(-DueSoonWindow)))
	assert.Equal(t, ReportStatusDueSoon, StatusForDueDate(due, due))
	assert.Equal(t, ReportStatusDueSoon, StatusForDueDate(due, due.Add(12*time.Hour)), "el día del vencimiento sigue en plazo")
	assert.Equal(t, ReportStatusDueSoon, StatusForDueDate(due, due.AddDate(0, 0, 1).Add(-time.Second)))
	assert.Equal(t, ReportStatusOverdue, StatusForDueDate(due, due.AddDate(0, 0, 1)))
}

func TestAnnualReport_PresentadoElDiaDelVencimientoSinRecargo(t *testing.T) {
	due := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	noon := due.Add(12 * time.Hour)
	r := &AnnualReport{
		DueDate:    due,
		Status:     ReportStatusFiled,
		FiledAt:    &noon,
		StateFee:   decimal.NewFromInt(50),
		ServiceFee: decimal.NewFromInt(99),
		LateFee:    decimal.NewFromInt(50),
	}
	assert.True(t, r.AppliedLateFee().IsZero())
	assert.True(t, r.Total().Equal(decimal.NewFromInt(149)))

	nextDay := due.AddDate(0, 0, 1)
	r.FiledAt = &nextDay
	assert.True(t, r.AppliedLateFee().Equal(decimal.NewFromInt(50)))
}

func TestAnnualReport_RefreshStatusRespetaTerminales(t *testing.T) {
	due := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 1, 0)

	r := &AnnualReport{DueDate: due, Status: ReportStatusFiled}
	r.RefreshStatus(now)
	assert.Equal(t, ReportStatusFiled, r.Status)

	r = &AnnualReport{DueDate: due, Status: ReportStatusNotDue}
	r.RefreshStatus(now)
	assert.Equal(t, ReportStatusOverdue, r.Status)
}

func TestAnnualReport_Total(t *testing.T) {
	due := time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC)
	r := &AnnualReport{
		DueDate:    due,
		Status:     ReportStatusDueSoon,
		StateFee:   decimal.NewFromInt(50),
		ServiceFee: decimal.NewFromInt(99),
		LateFee:    decimal.NewFromInt(25),
	}
	assert.True(t, r.Total().Equal(decimal.NewFromInt(149)))

	r.Status = ReportStatusOverdue
	assert.True(t, r.Total().Equal(decimal.NewFromInt(174)))

	late := due.AddDate(0, 0, 3)
	r.Status, r.FiledAt = ReportStatusFiled, &late
	assert.True(t, r.Total().Equal(decimal.NewFromInt(174)))

	onTime := due.AddDate(0, 0, -3)
	r.FiledAt = &onTime
	assert.True(t, r.Total().Equal(decimal.NewFromInt(149)))
}
