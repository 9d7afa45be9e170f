package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/domain"
	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

func TestPeriodBounds_ContieneLaFecha(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		ny = time.FixedZone("EST", -5*3600)
	}
	dates := []time.Time{
		time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 12, 0, 0, 0, ny), // cambio de horario
		time.Date(2025, 12, 31, 8, 30, 0, 0, ny),
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), // domingo
	}
	for _, d := range dates {
		for _, p := range []string{entity.PeriodDaily, entity.PeriodWeekly, entity.PeriodMonthly} {
			start, end, err := PeriodBounds(p, d)
			require.NoError(t, err)
			assert.False(t, d.Before(start), "%s %s: start %s", p, d, start)
			assert.True(t, d.Before(end), "%s %s: end %s", p, d, end)
			assert.Equal(t, d.Location(), start.Location())

			switch p {
			case entity.PeriodDaily:
				assert.Equal(t, start.AddDate(0, 0, 1), end)
			case entity.PeriodWeekly:
				assert.Equal(t, time.Sunday, start.Weekday())
				assert.Equal(t, start.AddDate(0, 0, 7), end)
			case entity.PeriodMonthly:
				assert.Equal(t, 1, start.Day())
				assert.Equal(t, start.AddDate(0, 1, 0), end)
			}
		}
	}
}

func TestPeriodBounds_Valores(t *testing.T) {
	d := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC) // miércoles

	start, end, _ := PeriodBounds(entity.PeriodWeekly, d)
	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 19, 0, 0, 0, 0, time.UTC), end)

	start, end, _ = PeriodBounds(entity.PeriodMonthly, d)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err := PeriodBounds("hourly", d)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerateBusinessMetrics_NueveMetricas(t *testing.T) {
	q := &fakeQueries{
		revenue:   repository.RevenueAggregate{Total: decimal.NewFromInt(1198), Count: 2, Average: decimal.NewFromInt(599)},
		activity:  repository.ActivityAggregate{ActiveUsers: 3, TotalActivities: 40, AvgDurationMs: decimal.NewFromFloat(1500.456)},
		documents: repository.DocumentAggregate{Count: 5, TotalSizeBytes: 1 << 20, AvgProcessingMs: decimal.NewFromInt(80)},
	}
	s := NewService(q, nil)
	date := time.Date(2025, 1, 31, 15, 0, 0, 0, time.UTC)

	out, err := s.GenerateBusinessMetrics(context.Background(), entity.PeriodDaily, date)
	require.NoError(t, err)
	require.Len(t, out, 9)
	assert.Len(t, q.inserted, 9)

	byName := map[string]*entity.BusinessMetric{}
	for _, m := range out {
		byName[m.MetricName] = m
		assert.Equal(t, entity.PeriodDaily, m.Period)
		assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), m.PeriodStart)
		assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), m.PeriodEnd)
	}
	assert.True(t, byName[MetricTotalRevenue].Value.Equal(decimal.NewFromInt(1198)))
	assert.True(t, byName[MetricTransactionCount].Value.Equal(decimal.NewFromInt(2)))
	assert.True(t, byName[MetricAvgSessionDuration].Value.Equal(decimal.RequireFromString("1500.46")))
	assert.True(t, byName[MetricTotalDocumentSize].Value.Equal(decimal.NewFromInt(1<<20)))

	for _, w := range q.windows {
		assert.Equal(t, [2]time.Time{out[0].PeriodStart, out[0].PeriodEnd}, w)
	}
}

func TestGenerateBusinessMetrics_PeriodoInvalido(t *testing.T) {
	s := NewService(&fakeQueries{}, nil)
	_, err := s.GenerateBusinessMetrics(context.Background(), "yearly", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
