// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the aggregator over HTTP. The transport layer is
// a thin shim: parameter parsing, CORS, status codes, and the response
// envelope. All aggregation logic lives in internal/source.
// Implements: prd005-transport (R1-R4).
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/paper-aggregator/internal/cache"
	"github.com/pdiddy/paper-aggregator/internal/enhance"
	"github.com/pdiddy/paper-aggregator/internal/feed"
	"github.com/pdiddy/paper-aggregator/internal/source"
	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// Request parameter defaults (R1.2).
const (
	defaultQuery      = "machine learning"
	defaultCategory   = "cs.LG"
	defaultMaxResults = 20
)

// Server wires the source adapters, the optional cache, and the optional
// enhancer behind the HTTP API.
type Server struct {
	Adapters []source.Adapter
	Cfg      types.SearchConfig
	Cache    *cache.Store      // nil disables caching
	Enhancer *enhance.Enhancer // nil disables enhancement
	Warnings io.Writer
}

// Router builds the chi routing tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(corsMiddleware)
	r.Get("/api/search", s.handleSearch)
	r.Post("/api/search", s.handleSearch)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

// searchResponse is the JSON envelope. Zero results is still success;
// only total failure produces the error shape (R3.1, R3.2).
type searchResponse struct {
	Success  bool          `json:"success"`
	Papers   []types.Paper `json:"papers"`
	Count    int           `json:"count"`
	Total    int           `json:"total"`
	Query    string        `json:"query"`
	Category string        `json:"category"`
	Error    string        `json:"error,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := requestParams(r)

	query := source.Query{
		FreeText:   paramDefault(params, "query", defaultQuery),
		Category:   paramDefault(params, "category", firstNonEmpty(s.Cfg.DefaultCategory, defaultCategory)),
		Start:      paramInt(params, "start", 0),
		MaxResults: paramInt(params, "maxResults", defaultMaxResults),
	}
	sources := paramDefault(params, "sources", "all")
	interests := splitList(param(params, "interests"))

	cacheKey := cache.Key(query.FreeText, query.Category,
		strconv.Itoa(query.Start), strconv.Itoa(query.MaxResults),
		sources, strings.Join(interests, ","))

	if s.Cache != nil {
		if body, ok := s.Cache.Get(r.Context(), cacheKey); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
			return
		}
	}

	adapters := s.selectAdapters(sources)
	cfg := s.Cfg
	cfg.MaxResults = query.MaxResults

	out, err := source.Aggregate(r.Context(), query, adapters, cfg, nil, s.warnings())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	if s.Enhancer != nil {
		s.Enhancer.Apply(r.Context(), out.Papers, interests)
	}

	papers := presentPapers(out.Papers)

	resp := searchResponse{
		Success:  true,
		Papers:   papers,
		Count:    len(papers),
		Total:    len(papers),
		Query:    query.FreeText,
		Category: query.Category,
	}

	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if s.Cache != nil {
		// Best effort: a cache write failure never fails the request.
		if err := s.Cache.Put(context.WithoutCancel(r.Context()), cacheKey, body); err != nil {
			fmt.Fprintf(s.warnings(), "warning: cache write failed: %v\n", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// selectAdapters filters the registered adapters by the comma-separated
// sources parameter. "all" keeps every adapter; unknown names are
// ignored with a warning, not errors (R1.3).
func (s *Server) selectAdapters(sources string) []source.Adapter {
	if sources == "" || strings.EqualFold(sources, "all") {
		return s.Adapters
	}

	byName := make(map[string]source.Adapter, len(s.Adapters))
	for _, a := range s.Adapters {
		byName[a.Name()] = a
	}

	var selected []source.Adapter
	for _, name := range splitList(sources) {
		if a, ok := byName[strings.ToLower(name)]; ok {
			selected = append(selected, a)
		} else {
			fmt.Fprintf(s.warnings(), "warning: unknown source %q ignored\n", name)
		}
	}
	if len(selected) == 0 {
		return s.Adapters
	}
	return selected
}

// presentPapers applies the presentation-layer rules: authors capped to
// the first three plus "et al.", abstracts truncated to the preview
// length. The merge output itself stays unmodified.
func presentPapers(papers []types.Paper) []types.Paper {
	presented := make([]types.Paper, len(papers))
	for i, p := range papers {
		p.Authors = source.CapAuthors(p.Authors)
		p.Abstract = feed.TruncateAbstract(p.Abstract)
		presented[i] = p
	}
	return presented
}

func (s *Server) warnings() io.Writer {
	if s.Warnings != nil {
		return s.Warnings
	}
	return io.Discard
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(searchResponse{
		Success: false,
		Papers:  []types.Paper{},
		Error:   err.Error(),
	})
}

// requestParams merges query-string parameters with a JSON body (POST).
// Body values are appended after query-string values, so the query
// string wins on conflict.
func requestParams(r *http.Request) url.Values {
	params := url.Values{}
	for k, vs := range r.URL.Query() {
		params[k] = append(params[k], vs...)
	}

	if r.Method == http.MethodPost && strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			for k, v := range body {
				params.Add(k, fmt.Sprintf("%v", v))
			}
		}
	}
	return params
}

// param looks a parameter up case-insensitively (R1.1).
func param(params url.Values, name string) string {
	if v := params.Get(name); v != "" {
		return v
	}
	for k, vs := range params {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

func paramDefault(params url.Values, name, fallback string) string {
	if v := param(params, name); v != "" {
		return v
	}
	return fallback
}

func paramInt(params url.Values, name string, fallback int) int {
	v := param(params, name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// corsMiddleware sets the permissive CORS headers the browser clients
// expect and short-circuits preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
