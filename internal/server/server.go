// Package server exposes grammar catalog over HTTP.
//
// Endpoints:
//
//	POST /parse/{grammar}  parse request body, respond with JSON events or JSON diagnostic
//	GET  /grammars         list grammar names
//	GET  /healthz          liveness probe
//	GET  /metrics          Prometheus metrics
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ava12/meta"
	"github.com/ava12/meta/internal/catalog"
	"github.com/ava12/meta/internal/metrics"
	"github.com/ava12/meta/internal/output"
	"github.com/ava12/meta/parser"
	"github.com/ava12/meta/report"
	"github.com/ava12/meta/source"
)

// RequestIDHeader carries request id in both requests and responses.
const RequestIDHeader = "X-Request-Id"

// ParseResponse is the body of a successful parse response.
type ParseResponse struct {
	RequestID string         `json:"request_id"`
	Grammar   string         `json:"grammar"`
	Events    []output.Event `json:"events"`
}

// Diagnostic describes a failed request.
type Diagnostic struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Offset  int    `json:"offset,omitempty"`
	Length  int    `json:"length,omitempty"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
	RuleID  int    `json:"rule_id,omitempty"`
	Report  string `json:"report,omitempty"`
}

// ErrorResponse is the body of a failed request response.
type ErrorResponse struct {
	RequestID string     `json:"request_id"`
	Error     Diagnostic `json:"error"`
}

// Server is an http.Handler.
type Server struct {
	catalog     *catalog.Catalog
	metrics     *metrics.Collector
	log         logrus.FieldLogger
	maxBodySize int64
	mux         *http.ServeMux
}

// New creates server. m may be nil, then /metrics is not served.
func New(c *catalog.Catalog, m *metrics.Collector, log logrus.FieldLogger, maxBodySize int64) *Server {
	s := &Server{
		catalog:     c,
		metrics:     m,
		log:         log,
		maxBodySize: maxBodySize,
		mux:         http.NewServeMux(),
	}

	s.mux.HandleFunc("POST /parse/{grammar}", s.handleParse)
	s.mux.HandleFunc("GET /grammars", s.handleGrammars)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})
	if m != nil {
		s.mux.Handle("GET /metrics", m.Handler())
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(RequestIDHeader)
	if _, e := uuid.Parse(id); e != nil {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)
	r.Header.Set(RequestIDHeader, id)

	started := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)
	s.log.WithFields(logrus.Fields{
		"request_id": id,
		"method":     r.Method,
		"path":       r.URL.Path,
		"status":     rec.status,
		"duration":   time.Since(started),
	}).Info("request served")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleGrammars(w http.ResponseWriter, r *http.Request) {
	names, e := s.catalog.Names()
	if e != nil {
		s.fail(w, r, http.StatusInternalServerError, e, nil)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("grammar")
	g, e := s.catalog.Get(name)
	if e != nil {
		var ce *catalog.CompileError
		var me *meta.Error
		switch {
		case errors.As(e, &ce):
			s.fail(w, r, http.StatusInternalServerError, e, ce.Source)
		case errors.As(e, &me) && me.Code == catalog.UnknownGrammarError:
			s.fail(w, r, http.StatusNotFound, e, nil)
		case errors.As(e, &me) && me.Code == catalog.InvalidNameError:
			s.fail(w, r, http.StatusBadRequest, e, nil)
		default:
			s.fail(w, r, http.StatusInternalServerError, e, nil)
		}
		return
	}

	body, e := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodySize))
	if e != nil {
		var mbe *http.MaxBytesError
		if errors.As(e, &mbe) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, e, nil)
		} else {
			s.fail(w, r, http.StatusBadRequest, e, nil)
		}
		return
	}

	src := source.New(r.URL.Query().Get("name"), body)
	started := time.Now()
	events, e := g.Parser.Parse(src)
	s.metrics.RecordParse(name, time.Since(started), len(events), e)
	if e != nil {
		s.fail(w, r, http.StatusUnprocessableEntity, e, src)
		return
	}

	writeJSON(w, http.StatusOK, ParseResponse{
		RequestID: r.Header.Get(RequestIDHeader),
		Grammar:   name,
		Events:    output.Events(events),
	})
}

// Describe converts error to diagnostic, src is used to locate parse errors.
func Describe(e error, src *source.Source) Diagnostic {
	d := Diagnostic{Message: e.Error()}
	var pe *parser.Error
	var me *meta.Error
	switch {
	case errors.As(e, &pe):
		d.Code = pe.Code
		d.Message = pe.Message()
		d.Offset = pe.Range.Offset
		d.Length = pe.Range.Length
		d.RuleID = pe.DebugID
		if src != nil {
			d.Line, d.Col = src.LineCol(pe.Range.Offset)
		}
	case errors.As(e, &me):
		d.Code = me.Code
		d.Line = me.Line
		d.Col = me.Col
	}

	if src != nil {
		d.Report = report.New(src).String(e)
	}
	return d
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, e error, src *source.Source) {
	id := r.Header.Get(RequestIDHeader)
	level := logrus.InfoLevel
	if status >= http.StatusInternalServerError {
		level = logrus.ErrorLevel
	}
	s.log.WithFields(logrus.Fields{"request_id": id, "status": status}).WithError(e).Log(level, "request failed")
	writeJSON(w, status, ErrorResponse{RequestID: id, Error: Describe(e, src)})
}
