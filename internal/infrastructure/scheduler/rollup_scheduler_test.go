package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/metrics"
)

type fakeRunner struct {
	mu    sync.Mutex
	calls []string
	dates []time.Time
	err   error
}

func (f *fakeRunner) GenerateBusinessMetrics(_ context.Context, period string, date time.Time) ([]*entity.BusinessMetric, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, period)
	f.dates = append(f.dates, date)
	return nil, f.err
}

func TestPreviousPeriodDate(t *testing.T) {
	now := time.Date(2025, 3, 31, 0, 5, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 30, 0, 5, 0, 0, time.UTC), PreviousPeriodDate(entity.PeriodDaily, now))
	assert.Equal(t, time.Date(2025, 3, 24, 0, 5, 0, 0, time.UTC), PreviousPeriodDate(entity.PeriodWeekly, now))

	prevMonth := PreviousPeriodDate(entity.PeriodMonthly, now)
	assert.Equal(t, time.February, prevMonth.Month())
	assert.Equal(t, 2025, prevMonth.Year())

	jan := PreviousPeriodDate(entity.PeriodMonthly, time.Date(2025, 1, 1, 0, 15, 0, 0, time.UTC))
	assert.Equal(t, time.December, jan.Month())
	assert.Equal(t, 2024, jan.Year())
}

func TestNew_RegistraTresJobs(t *testing.T) {
	s, err := New(&fakeRunner{}, Config{}, nil)
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 3)
}

func TestNew_ExpresionInvalida(t *testing.T) {
	_, err := New(&fakeRunner{}, Config{DailySpec: "cada día"}, nil)
	assert.Error(t, err)
}

func TestRunPrevious_CuentaFallosSinPropagar(t *testing.T) {
	runner := &fakeRunner{err: errors.New("db down")}
	s, err := New(runner, Config{Location: time.UTC}, nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2025, 6, 2, 0, 5, 0, 0, time.UTC) }

	before := testutil.ToFloat64(metrics.RollupRuns.WithLabelValues(entity.PeriodDaily, "failed"))
	s.RunPrevious(entity.PeriodDaily)
	after := testutil.ToFloat64(metrics.RollupRuns.WithLabelValues(entity.PeriodDaily, "failed"))

	assert.Equal(t, before+1, after)
	require.Len(t, runner.dates, 1)
	assert.Equal(t, 1, runner.dates[0].Day())
}

func TestStop_SinJobsEnCurso(t *testing.T) {
	s, err := New(&fakeRunner{}, Config{}, nil)
	require.NoError(t, err)
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
