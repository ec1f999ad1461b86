package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/v1/things/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/v1/things/:id", "204"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/things/42", nil))

	after := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/api/v1/things/:id", "204"))
	assert.Equal(t, before+1, after)
}

func TestEditorObserver(t *testing.T) {
	obs := EditorObserver{}

	before := testutil.ToFloat64(GenerationsTotal.WithLabelValues("rate_limited"))
	obs.GenerationFinished("rate_limited", 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(GenerationsTotal.WithLabelValues("rate_limited")))

	denied := testutil.ToFloat64(AdmissionDenialsTotal)
	obs.AdmissionDenied()
	assert.Equal(t, denied+1, testutil.ToFloat64(AdmissionDenialsTotal))

	obs.SessionsActive(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(EditorSessions))
}
