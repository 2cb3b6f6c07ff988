// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/paper-aggregator/internal/feed"
	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivAdapter queries the arXiv API (R1.6). The Atom response is parsed
// through internal/feed, which owns the extraction contract.
type ArxivAdapter struct {
	Client *http.Client
}

// Name returns the adapter identifier.
func (a *ArxivAdapter) Name() string { return "arxiv" }

// Search queries the arXiv API and returns normalized records.
func (a *ArxivAdapter) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Paper, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	url := fmt.Sprintf("%s?search_query=%s&start=%d&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, query.Start, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading arXiv response: %w", err)
	}

	return feed.Parse(string(body)), nil
}

// buildArxivQuery constructs the search_query parameter from the free
// text and the taxonomy filter. "all" disables the category clause.
func buildArxivQuery(q Query) string {
	var parts []string

	if q.FreeText != "" {
		terms := strings.Fields(q.FreeText)
		parts = append(parts, "all:"+strings.Join(terms, "+"))
	}
	if q.Category != "" && q.Category != "all" {
		parts = append(parts, "cat:"+q.Category)
	}

	return strings.Join(parts, "+AND+")
}
