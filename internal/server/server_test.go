package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/meta/internal/catalog"
	"github.com/ava12/meta/internal/metrics"
	"github.com/ava12/meta/parser"
)

const pairGrammar = `1 "pair" [t!"key" w? "=" w? $"value"]
2 "document" l!(@"pair""pair")
`

func newServer(t *testing.T) (*Server, *logtest.Hook) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pairs"+catalog.Ext), []byte(pairGrammar), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken"+catalog.Ext), []byte(`1 "a" @"b"`), 0o644))

	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	m := metrics.New(nil)
	c, e := catalog.New(dir, 8, catalog.WithLogger(log), catalog.WithMetrics(m))
	require.NoError(t, e)
	return New(c, m, log, 64), hook
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestParse(t *testing.T) {
	s, hook := newServer(t)
	rec := do(s, http.MethodPost, "/parse/pairs", "\"a\" = 1\n\"b\"=2\n")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pairs", resp.Grammar)
	assert.Equal(t, rec.Header().Get(RequestIDHeader), resp.RequestID)
	_, e := uuid.Parse(resp.RequestID)
	assert.NoError(t, e)
	require.Len(t, resp.Events, 8)
	assert.Equal(t, "start", resp.Events[0].Kind)
	assert.Equal(t, "a", resp.Events[1].Value)
	assert.Equal(t, 1.0, resp.Events[2].Value)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "request served", last.Message)
	assert.Equal(t, http.StatusOK, last.Data["status"])
}

func TestParseError(t *testing.T) {
	s, _ := newServer(t)
	rec := do(s, http.MethodPost, "/parse/pairs?name=input.txt", "\"a\" = 1\n\"b\" = x\n")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, parser.ExpectedNumberError, resp.Error.Code)
	assert.Equal(t, 14, resp.Error.Offset)
	assert.Equal(t, 2, resp.Error.Line)
	assert.Equal(t, 7, resp.Error.Col)
	assert.Equal(t, 1, resp.Error.RuleID)
	assert.Contains(t, resp.Error.Report, "2,7: \"b\" = x\n")
}

func TestRequestIDIsKept(t *testing.T) {
	s, _ := newServer(t)
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, rec.Header().Get(RequestIDHeader))
}

func TestFailures(t *testing.T) {
	s, _ := newServer(t)
	samples := []struct {
		method, target, body string
		status               int
	}{
		{http.MethodPost, "/parse/missing", "", http.StatusNotFound},
		{http.MethodPost, "/parse/bad.name", "", http.StatusBadRequest},
		{http.MethodPost, "/parse/broken", "", http.StatusInternalServerError},
		{http.MethodPost, "/parse/pairs", strings.Repeat("x", 100), http.StatusRequestEntityTooLarge},
		{http.MethodGet, "/parse/pairs", "", http.StatusMethodNotAllowed},
	}

	for _, sample := range samples {
		t.Run(sample.target, func(t *testing.T) {
			rec := do(s, sample.method, sample.target, sample.body)
			assert.Equal(t, sample.status, rec.Code, rec.Body.String())
		})
	}
}

func TestGrammarsAndMetrics(t *testing.T) {
	s, _ := newServer(t)
	rec := do(s, http.MethodGet, "/grammars", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["broken","pairs"]`, rec.Body.String())

	do(s, http.MethodPost, "/parse/pairs", `"a"=1`)
	rec = do(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `metagen_parses_total{grammar="pairs",result="ok"} 1`)
}
