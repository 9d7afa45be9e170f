package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bizdesk-api/internal/domain/entity"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

// fakeWriter cuenta inserciones; block detiene las escrituras hasta que se cierre.
type fakeWriter struct {
	mu     sync.Mutex
	counts map[string]int
	fail   bool
	panics bool
	block  chan struct{}
}

func newFakeWriter() *fakeWriter { return &fakeWriter{counts: map[string]int{}} }

func (w *fakeWriter) insert(kind string) error {
	if w.block != nil {
		<-w.block
	}
	if w.panics {
		panic("boom")
	}
	if w.fail {
		return errors.New("analytics db down")
	}
	w.mu.Lock()
	w.counts[kind]++
	w.mu.Unlock()
	return nil
}

func (w *fakeWriter) count(kind string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.counts[kind]
}

func (w *fakeWriter) InsertUserActivity(context.Context, *entity.UserActivity) error {
	return w.insert(entity.EventUserActivity)
}
func (w *fakeWriter) InsertDocumentEvent(context.Context, *entity.DocumentEvent) error {
	return w.insert(entity.EventDocument)
}
func (w *fakeWriter) InsertRevenueEvent(context.Context, *entity.RevenueEvent) error {
	return w.insert(entity.EventRevenue)
}
func (w *fakeWriter) InsertPerformanceSample(context.Context, *entity.PerformanceSample) error {
	return w.insert(entity.EventPerformance)
}
func (w *fakeWriter) InsertFeatureUsage(context.Context, *entity.FeatureUsage) error {
	return w.insert(entity.EventFeatureUsage)
}
func (w *fakeWriter) InsertErrorEvent(context.Context, *entity.ErrorEvent) error {
	return w.insert(entity.EventError)
}

// fakeQueries respuestas fijas para las consultas de analítica.
type fakeQueries struct {
	mu        sync.Mutex
	inserted  []*entity.BusinessMetric
	windows   [][2]time.Time
	revenue   repository.RevenueAggregate
	activity  repository.ActivityAggregate
	documents repository.DocumentAggregate
	trendErr  error
	pingErr   error
	hours     []repository.HourBucket
}

func (q *fakeQueries) record(start, end time.Time) {
	q.mu.Lock()
	q.windows = append(q.windows, [2]time.Time{start, end})
	q.mu.Unlock()
}

func (q *fakeQueries) AggregateRevenue(_ context.Context, start, end time.Time) (repository.RevenueAggregate, error) {
	q.record(start, end)
	return q.revenue, nil
}
func (q *fakeQueries) AggregateActivity(_ context.Context, start, end time.Time) (repository.ActivityAggregate, error) {
	q.record(start, end)
	return q.activity, nil
}
func (q *fakeQueries) AggregateDocuments(_ context.Context, start, end time.Time) (repository.DocumentAggregate, error) {
	q.record(start, end)
	return q.documents, nil
}
func (q *fakeQueries) InsertBusinessMetrics(_ context.Context, m []*entity.BusinessMetric) error {
	q.inserted = append(q.inserted, m...)
	return nil
}
func (q *fakeQueries) ListBusinessMetrics(_ context.Context, period string, limit int) ([]*entity.BusinessMetric, error) {
	return q.inserted, nil
}
func (q *fakeQueries) ActivityTrend(_ context.Context, _ repository.Scope, since time.Time) ([]repository.DailyPoint, error) {
	return []repository.DailyPoint{{Day: since, Count: 3}}, q.trendErr
}
func (q *fakeQueries) RevenueTrend(_ context.Context, _ repository.Scope, since time.Time) ([]repository.DailyPoint, error) {
	return []repository.DailyPoint{{Day: since, Count: 1, Value: decimal.NewFromInt(599)}}, nil
}
func (q *fakeQueries) DocumentTypeDistribution(context.Context, repository.Scope, time.Time) ([]repository.LabelCount, error) {
	return []repository.LabelCount{{Label: "application/pdf", Count: 4}}, nil
}
func (q *fakeQueries) EndpointPerformance(_ context.Context, _ repository.Scope, _ time.Time, limit int) ([]repository.EndpointLatency, error) {
	return []repository.EndpointLatency{{Endpoint: "/api/auth/login", Method: "POST", Requests: 10, AvgResponseMs: decimal.NewFromFloat(12.345)}}, nil
}
func (q *fakeQueries) ErrorBreakdown(context.Context, repository.Scope, time.Time) ([]repository.ErrorCount, error) {
	return nil, nil
}
func (q *fakeQueries) TopFeatures(context.Context, string, time.Time, int) ([]repository.LabelCount, error) {
	return []repository.LabelCount{{Label: "mailbox:view", Count: 7}}, nil
}
func (q *fakeQueries) HourlyActivity(context.Context, string, time.Time) ([]repository.HourBucket, error) {
	return q.hours, nil
}
func (q *fakeQueries) DocumentInteractions(context.Context, string, time.Time) ([]repository.LabelCount, error) {
	return nil, nil
}
func (q *fakeQueries) CountActivity(context.Context, string, time.Time) (int64, error) { return 0, nil }
func (q *fakeQueries) Ping(context.Context) error                                   { return q.pingErr }
