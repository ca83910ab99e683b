package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/sqlschema/pkg/format"
	"github.com/leapstack-labs/sqlschema/pkg/parser"
	"github.com/leapstack-labs/sqlschema/pkg/schema"
	"github.com/leapstack-labs/sqlschema/pkg/token"
)

// TableSummary is one entry of GET /tables.
type TableSummary struct {
	Name        string   `json:"name"`
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Columns     int      `json:"columns"`
	PrimaryKey  []string `json:"primary_key,omitempty"`
	ForeignKeys int      `json:"foreign_keys"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Tables    int       `json:"tables"`
	UpdatedAt time.Time `json:"updated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	sch, updated := s.current()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Tables:    len(sch.Tables),
		UpdatedAt: updated.UTC(),
	})
}

func (s *Server) handleTables(w http.ResponseWriter, _ *http.Request) {
	sch, _ := s.current()

	tables := make([]TableSummary, 0, len(sch.Tables))
	for _, t := range sch.Tables {
		summary := TableSummary{
			Name:        format.Name(t.Name),
			File:        t.Location.File,
			Line:        t.Location.Line(),
			Columns:     len(t.Columns),
			ForeignKeys: len(t.ForeignKeys),
		}
		if t.PrimaryKey != nil {
			summary.PrimaryKey = t.PrimaryKey.Names()
		}
		tables = append(tables, summary)
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	raw, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	name, err := parser.ParseName(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sch, _ := s.current()
	t, err := sch.GetTable(token.Location{File: "request"}, name)
	if errors.Is(err, token.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: format.Name(name) + " not found"})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, t.Describe())
}

func (s *Server) handleIgnored(w http.ResponseWriter, r *http.Request) {
	sch, _ := s.current()

	if r.URL.Query().Get("format") == "text" {
		writeText(w, sch.IgnoredText())
		return
	}

	ignored := sch.Describe().Ignored
	if ignored == nil {
		ignored = []schema.IgnoredInfo{}
	}
	writeJSON(w, http.StatusOK, ignored)
}

func (s *Server) handleRender(w http.ResponseWriter, _ *http.Request) {
	sch, _ := s.current()
	writeText(w, sch.Render())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
