package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bizdesk-api/internal/application/dto"
	"github.com/jhoicas/bizdesk-api/internal/domain/repository"
)

func fixedService(q *fakeQueries) *Service {
	s := NewService(q, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC) }
	return s
}

func TestGetDashboardAnalytics(t *testing.T) {
	s := fixedService(&fakeQueries{})

	out, err := s.GetDashboardAnalytics(context.Background(), dto.DashboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), out.Since)
	require.Len(t, out.ActivityTrend, 1)
	assert.Equal(t, "2025-03-01", out.ActivityTrend[0].Date)
	assert.Len(t, out.RevenueTrend, 1)
	assert.Equal(t, "application/pdf", out.DocumentTypes[0].Label)
	assert.Equal(t, "12.35", out.EndpointPerformance[0].AvgResponseMs.StringFixed(2))
	assert.NotNil(t, out.Errors)
	assert.Empty(t, out.Errors)
}

func TestGetDashboardAnalytics_PropagaError(t *testing.T) {
	s := fixedService(&fakeQueries{trendErr: errors.New("timeout")})
	_, err := s.GetDashboardAnalytics(context.Background(), dto.DashboardFilter{})
	assert.Error(t, err)
}

func TestGetUserBehaviorInsights_HistogramaDe24(t *testing.T) {
	q := &fakeQueries{hours: []repository.HourBucket{{Hour: 9, Count: 4}, {Hour: 23, Count: 1}, {Hour: 30, Count: 9}}}
	s := fixedService(q)

	out, err := s.GetUserBehaviorInsights(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, out.HourlyActivity, 24)
	assert.Equal(t, int64(4), out.HourlyActivity[9])
	assert.Equal(t, int64(1), out.HourlyActivity[23])
	assert.Equal(t, "mailbox:view", out.TopFeatures[0].Label)
	assert.NotNil(t, out.DocumentInteractions)

	_, err = s.GetUserBehaviorInsights(context.Background(), "")
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	assert.True(t, fixedService(&fakeQueries{}).HealthCheck(context.Background()))
	assert.False(t, fixedService(&fakeQueries{pingErr: errors.New("down")}).HealthCheck(context.Background()))
}

func TestListBusinessMetrics_PeriodoInvalido(t *testing.T) {
	_, err := fixedService(&fakeQueries{}).ListBusinessMetrics(context.Background(), "hourly", 10)
	assert.Error(t, err)
}
