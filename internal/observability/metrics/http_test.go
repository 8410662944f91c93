package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newHTTPMetrics(reg)

	m.Observe(http.MethodGet, "/v1/udr", http.StatusOK, 20*time.Millisecond)
	m.Observe(http.MethodGet, "/v1/udr", http.StatusOK, 30*time.Millisecond)
	m.Observe(http.MethodPost, "/v1/cdr", http.StatusConflict, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/v1/udr", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodPost, "/v1/cdr", "409")))
}

func TestHTTPMetrics_UnmatchedRouteNormalized(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newHTTPMetrics(reg)

	m.Observe(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "unknown", "404")))
}

func TestHTTPMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *HTTPMetrics
	assert.NotPanics(t, func() {
		m.Observe(http.MethodGet, "/v1/udr", http.StatusOK, time.Millisecond)
	})
}

func TestGinMiddleware_RecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := newHTTPMetrics(reg)

	r := gin.New()
	r.Use(GinMiddleware(m))
	r.GET("/v1/udr", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/udr?msisdn=79111111111", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/v1/udr", "200")))
}
