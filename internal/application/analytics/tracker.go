// Package analytics contiene el pipeline de eventos de analítica, los rollups
// periódicos de métricas de negocio y las consultas del dashboard.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
	"github.com/jhoicas/bizdesk-api/internal/infrastructure/metrics"
	"github.com/jhoicas/bizdesk-api/pkg/logger"
)

const (
	defaultQueueSize    = 1024
	defaultWriteTimeout = 5 * time.Second
)

// event evento pendiente de escribir: su tipo y la inserción que le corresponde.
type event struct {
	kind  string
	write func(ctx context.Context, w repository.AnalyticsEventWriter) error
}

// TrackerConfig tamaño de la cola y número de workers.
type TrackerConfig struct {
	QueueSize    int
	Workers      int
	WriteTimeout time.Duration
}

// Tracker recibe eventos sin bloquear al llamador y los escribe en segundo plano.
//
// Cada Track* hace un envío no bloqueante a una cola acotada. Si la cola está llena
// el evento se descarta y se cuenta. Los errores de escritura se registran y se
// cuentan; nunca llegan al llamador. Un Tracker nil es válido y descarta todo.
type Tracker struct {
	writer       repository.AnalyticsEventWriter
	queue        chan event
	workers      int
	writeTimeout time.Duration
	log          *logger.Logger
	now          func() time.Time

	mu        sync.RWMutex
	closed    bool
	startOnce sync.Once
	wg        sync.WaitGroup
}

// NewTracker construye el tracker. No arranca workers hasta Start.
func NewTracker(writer repository.AnalyticsEventWriter, cfg TrackerConfig, log *logger.Logger) *Tracker {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Tracker{
		writer:       writer,
		queue:        make(chan event, cfg.QueueSize),
		workers:      cfg.Workers,
		writeTimeout: cfg.WriteTimeout,
		log:          log.Component("analytics"),
		now:          time.Now,
	}
}

// Start lanza los workers. Llamadas repetidas no tienen efecto.
// Los workers terminan cuando Stop cierra la cola, no cuando ctx se cancela.
func (t *Tracker) Start(ctx context.Context) {
	if t == nil {
		return
	}
	t.startOnce.Do(func() {
		base := context.WithoutCancel(ctx)
		for i := 0; i < t.workers; i++ {
			t.wg.Add(1)
			go t.work(base)
		}
		t.log.Info().Int("workers", t.workers).Int("queue_size", cap(t.queue)).Msg("analytics tracker started")
	})
}

// Stop cierra la entrada, vacía la cola y espera a los workers o al deadline de ctx.
func (t *Tracker) Stop(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.queue)
	}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.log.Info().Msg("analytics tracker stopped")
		return nil
	case <-ctx.Done():
		t.log.Warn().Int("pending", len(t.queue)).Msg("analytics tracker stop timed out")
		return ctx.Err()
	}
}

func (t *Tracker) work(ctx context.Context) {
	defer t.wg.Done()
	for ev := range t.queue {
		metrics.AnalyticsQueueDepth.Set(float64(len(t.queue)))
		t.write(ctx, ev)
	}
}

func (t *Tracker) write(ctx context.Context, ev event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.AnalyticsEvents.WithLabelValues(ev.kind, "failed").Inc()
			t.log.Error().Interface("panic", r).Str("kind", ev.kind).Msg("analytics write panicked")
		}
	}()
	wctx, cancel := context.WithTimeout(ctx, t.writeTimeout)
	defer cancel()
	if err := ev.write(wctx, t.writer); err != nil {
		metrics.AnalyticsEvents.WithLabelValues(ev.kind, "failed").Inc()
		t.log.Error().Err(err).Str("kind", ev.kind).Msg("analytics write failed")
		return
	}
	metrics.AnalyticsEvents.WithLabelValues(ev.kind, "written").Inc()
}

// enqueue envío no bloqueante. El RLock impide que Stop cierre la cola durante el envío.
func (t *Tracker) enqueue(ev event) {
	if t == nil {
		return
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.queue <- ev:
		metrics.AnalyticsEvents.WithLabelValues(ev.kind, "enqueued").Inc()
		metrics.AnalyticsQueueDepth.Set(float64(len(t.queue)))
	default:
		metrics.AnalyticsEvents.WithLabelValues(ev.kind, "dropped").Inc()
		t.log.Debug().Str("kind", ev.kind).Msg("analytics queue full, event dropped")
	}
}

func (t *Tracker) stamp(at *time.Time) {
	if at.IsZero() {
		*at = t.now().UTC()
	}
}

// TrackUserActivity registra una acción de usuario (login, vista, etc.).
func (t *Tracker) TrackUserActivity(e entity.UserActivity) {
	if t == nil {
		return
	}
	t.stamp(&e.OccurredAt)
	t.enqueue(event{kind: entity.EventUserActivity, write: func(ctx context.Context, w repository.AnalyticsEventWriter) error {
		return w.InsertUserActivity(ctx, &e)
	}})
}

// TrackDocumentEvent registra subida, descarga o procesamiento de un documento.
func (t *Tracker) TrackDocumentEvent(e entity.DocumentEvent) {
	if t == nil {
		return
	}
	t.stamp(&e.OccurredAt)
	t.enqueue(event{kind: entity.EventDocument, write: func(ctx context.Context, w repository.AnalyticsEventWriter) error {
		return w.InsertDocumentEvent(ctx, &e)
	}})
}

// TrackRevenueEvent registra un movimiento de dinero.
func (t *Tracker) TrackRevenueEvent(e entity.RevenueEvent) {
	if t == nil {
		return
	}
	t.stamp(&e.OccurredAt)
	if e.Currency == "" {
		e.Currency = "usd"
	}
	t.enqueue(event{kind: entity.EventRevenue, write: func(ctx context.Context, w repository.AnalyticsEventWriter) error {
		return w.InsertRevenueEvent(ctx, &e)
	}})
}

// TrackPerformance registra la latencia de una petición.
func (t *Tracker) TrackPerformance(e entity.PerformanceSample) {
	if t == nil {
		return
	}
	t.stamp(&e.OccurredAt)
	t.enqueue(event{kind: entity.EventPerformance, write: func(ctx context.Context, w repository.AnalyticsEventWriter) error {
		return w.InsertPerformanceSample(ctx, &e)
	}})
}

// TrackFeatureUsage registra el uso de una funcionalidad.
func (t *Tracker) TrackFeatureUsage(e entity.FeatureUsage) {
	if t == nil {
		return
	}
	t.stamp(&e.OccurredAt)
	t.enqueue(event{kind: entity.EventFeatureUsage, write: func(ctx context.Context, w repository.AnalyticsEventWriter) error {
		return w.InsertFeatureUsage(ctx, &e)
	}})
}

// TrackError registra un error del servidor.
func (t *Tracker) TrackError(e entity.ErrorEvent) {
	if t == nil {
		return
	}
	t.stamp(&e.OccurredAt)
	if e.Severity == "" {
		e.Severity = "medium"
	}
	t.enqueue(event{kind: entity.EventError, write: func(ctx context.Context, w repository.AnalyticsEventWriter) error {
		return w.InsertErrorEvent(ctx, &e)
	}})
}
