package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/leapfluff/internal/cache"
	"github.com/leapstack-labs/leapfluff/pkg/dialect"
	"github.com/leapstack-labs/leapfluff/pkg/format"
	"github.com/leapstack-labs/leapfluff/pkg/grammar"
	"github.com/leapstack-labs/leapfluff/pkg/parser"
)

// maxBodyBytes bounds the size of a parse request.
const maxBodyBytes = 1 << 20

type parseRequest struct {
	SQL      string `json:"sql"`
	Dialect  string `json:"dialect"`
	CodeOnly bool   `json:"code_only"`
}

type violation struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
}

type parseResponse struct {
	Dialect    string          `json:"dialect"`
	Tree       json.RawMessage `json:"tree"`
	Violations []violation     `json:"violations"`
	Cached     bool            `json:"cached"`
}

type grammarResponse struct {
	Dialect string   `json:"dialect"`
	Name    string   `json:"name"`
	Type    string   `json:"type,omitempty"`
	Grammar string   `json:"grammar"`
	Refs    []string `json:"refs"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Dialect == "" {
		req.Dialect = s.cfg.DefaultDialect
	}

	d, err := dialect.Lookup(req.Dialect)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	key := d.Name() + ":" + strconv.FormatBool(req.CodeOnly) + ":" + cache.Hash(req.SQL)
	if resp, ok := s.cached(key); ok {
		s.metrics.cacheHits.Inc()
		hit := *resp
		hit.Cached = true
		writeJSON(w, http.StatusOK, &hit)
		return
	}

	res, err := parser.ParseDialect(r.Context(), d, req.SQL, parser.Options{
		Indent: s.cfg.Indent,
		Logger: s.logger,
	})
	if err != nil {
		s.logger.Error("parse failed", "dialect", d.Name(), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.duration.WithLabelValues(d.Name()).Observe(res.Duration.Seconds())

	var tree bytes.Buffer
	if err := format.Render(&tree, res.Tree, format.Options{Format: format.JSON, CodeOnly: req.CodeOnly}); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := &parseResponse{
		Dialect:    d.Name(),
		Tree:       json.RawMessage(bytes.TrimSpace(tree.Bytes())),
		Violations: []violation{},
	}
	for _, le := range res.LexErrors {
		resp.Violations = append(resp.Violations, violation{Line: le.Pos.Line, Column: le.Pos.Column, Message: le.Message})
	}
	for _, v := range res.Violations() {
		resp.Violations = append(resp.Violations, violation{
			Line:     v.Pos.Line,
			Column:   v.Pos.Column,
			Message:  v.Message,
			Expected: v.Expected,
		})
	}

	outcome := "ok"
	if len(resp.Violations) > 0 {
		outcome = "unparsable"
	}
	s.metrics.parses.WithLabelValues(d.Name(), outcome).Inc()

	s.remember(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDialects(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dialect.DescribeAll())
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	d, err := dialect.Lookup(chi.URLParam(r, "dialect"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	name := chi.URLParam(r, "name")
	m, ok := d.Grammar(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s: %s", grammar.ErrUnknownRule, name))
		return
	}
	typ, _ := d.SegmentType(name)
	refs := grammar.RefNames(m)
	if refs == nil {
		refs = []string{}
	}
	writeJSON(w, http.StatusOK, grammarResponse{
		Dialect: d.Name(),
		Name:    name,
		Type:    typ,
		Grammar: m.String(),
		Refs:    refs,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
