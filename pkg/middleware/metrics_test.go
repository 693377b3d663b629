package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"readverse/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	router := setupTestRouter()
	router.Use(MetricsMiddleware("test"))
	router.GET("/stories/:story_id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("test", "GET", "/stories/:story_id", "204")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/stories/story-42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	router := setupTestRouter()
	router.Use(MetricsMiddleware("test"))

	counter := metrics.HTTPRequestsTotal.WithLabelValues("test", "GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/nowhere", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
