package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/meta/parser"
)

func TestRecordParse(t *testing.T) {
	c := New(prometheus.NewRegistry())
	c.RecordParse("calc", time.Millisecond, 12, nil)
	c.RecordParse("calc", time.Millisecond, 0, &parser.Error{Code: parser.ExpectedNumberError})
	c.RecordParse("calc", time.Millisecond, 0, errors.New("plain"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.parses.WithLabelValues("calc", ResultOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.parses.WithLabelValues("calc", ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.parseErrors.WithLabelValues("205")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.parseErrors.WithLabelValues("0")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.parseEvents))
}

func TestCatalogMetrics(t *testing.T) {
	c := New(nil)
	c.RecordCacheLookup(true)
	c.RecordCacheLookup(false)
	c.RecordCacheLookup(false)
	c.RecordCompile(nil)
	c.RecordReload()

	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.compilations.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.reloads))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordParse("calc", time.Second, 1, nil)
		c.RecordCacheLookup(true)
		c.RecordCompile(nil)
		c.RecordReload()
	})
}

func TestHandler(t *testing.T) {
	c := New(nil)
	c.RecordParse("calc", time.Millisecond, 3, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `metagen_parses_total{grammar="calc",result="ok"} 1`))
}
