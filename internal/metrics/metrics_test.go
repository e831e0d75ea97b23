package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveQuery(t *testing.T) {
	before := testutil.CollectAndCount(DBQueryDuration)
	ObserveQuery("metrics_test_table", "select", time.Now().Add(-10*time.Millisecond))
	assert.Equal(t, before+1, testutil.CollectAndCount(DBQueryDuration))
}

func TestHandler_ServesRegistry(t *testing.T) {
	AuthFailures.WithLabelValues("metrics_test").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookreview_auth_failures_total")
}
