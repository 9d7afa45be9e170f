// Package scheduler programa los rollups periódicos de métricas de negocio con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/metrics"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

// Expresiones por defecto (minuto hora día mes día-semana).
const (
	DefaultDailySpec   = "5 0 * * *"
	DefaultWeeklySpec  = "10 0 * * 0"
	DefaultMonthlySpec = "15 0 1 * *"
)

const defaultJobTimeout = 10 * time.Minute

// RollupRunner genera las métricas de un periodo que contiene date.
type RollupRunner interface {
	GenerateBusinessMetrics(ctx context.Context, period string, date time.Time) ([]*entity.BusinessMetric, error)
}

// Config expresiones cron y límites de cada job.
type Config struct {
	DailySpec   string
	WeeklySpec  string
	MonthlySpec string
	JobTimeout  time.Duration
	Location    *time.Location
}

// RollupScheduler dispara el rollup diario, semanal y mensual del periodo anterior.
type RollupScheduler struct {
	cron    *cron.Cron
	runner  RollupRunner
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
	log     *logger.Logger
}

// New registra los tres jobs. Devuelve error si alguna expresión es inválida.
func New(runner RollupRunner, cfg Config, log *logger.Logger) (*RollupScheduler, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobTimeout
	}
	s := &RollupScheduler{
		cron:    cron.New(cron.WithLocation(cfg.Location), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runner:  runner,
		timeout: cfg.JobTimeout,
		loc:     cfg.Location,
		now:     time.Now,
		log:     log.Component("rollup-scheduler"),
	}

	jobs := []struct {
		spec   string
		def    string
		period string
	}{
		{cfg.DailySpec, DefaultDailySpec, entity.PeriodDaily},
		{cfg.WeeklySpec, DefaultWeeklySpec, entity.PeriodWeekly},
		{cfg.MonthlySpec, DefaultMonthlySpec, entity.PeriodMonthly},
	}
	for _, j := range jobs {
		spec := j.spec
		if spec == "" {
			spec = j.def
		}
		period := j.period
		if _, err := s.cron.AddFunc(spec, func() { s.RunPrevious(period) }); err != nil {
			return nil, fmt.Errorf("scheduler: expresión %q para %s: %w", spec, period, err)
		}
	}
	return s, nil
}

// Start arranca el cron en su propia goroutine.
func (s *RollupScheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.cron.Entries())).Msg("rollup scheduler started")
}

// Stop deja de programar y espera a los jobs en curso o a que ctx expire.
func (s *RollupScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("rollup scheduler stop timed out with jobs still running")
	}
}

// RunPrevious ejecuta el rollup del periodo anterior al actual. Los errores solo se registran.
func (s *RollupScheduler) RunPrevious(period string) {
	target := PreviousPeriodDate(period, s.now().In(s.loc))

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.runner.GenerateBusinessMetrics(ctx, period, target)
	if err != nil {
		metrics.RollupRuns.WithLabelValues(period, "failed").Inc()
		s.log.Error().Err(err).Str("period", period).Time("date", target).Msg("business metrics rollup failed")
		return
	}
	metrics.RollupRuns.WithLabelValues(period, "ok").Inc()
	s.log.Info().
		Str("period", period).
		Time("date", target).
		Int("metrics", len(out)).
		Dur("took", time.Since(start)).
		Msg("business metrics rollup done")
}

// PreviousPeriodDate devuelve una fecha contenida en el periodo anterior al que contiene now.
func PreviousPeriodDate(period string, now time.Time) time.Time {
	switch period {
	case entity.PeriodWeekly:
		return now.AddDate(0, 0, -7)
	case entity.PeriodMonthly:
		first := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, now.Location())
		return first.AddDate(0, -1, 0)
	default:
		return now.AddDate(0, 0, -1)
	}
}
