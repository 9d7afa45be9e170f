package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetDBUp(t *testing.T) {
	SetDBUp("analytics", true)
	assert.Equal(t, 1.0, testutil.ToFloat64(DBUp.WithLabelValues("analytics")))
	SetDBUp("analytics", false)
	assert.Equal(t, 0.0, testutil.ToFloat64(DBUp.WithLabelValues("analytics")))
}

func TestHandler_ExponeColectores(t *testing.T) {
	ObserveHTTP("GET", "/api/test", 200, 0.01)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "bizdesk_http_requests_total")
}
