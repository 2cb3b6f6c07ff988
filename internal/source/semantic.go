// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/paper-aggregator/internal/feed"
	"github.com/pdiddy/paper-aggregator/internal/httputil"
	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,year,citationCount,url,venue,publicationDate"

// SemanticScholarAdapter queries the Semantic Scholar citation-graph API
// (R1.6).
type SemanticScholarAdapter struct {
	Client *http.Client
	APIKey string
}

// Name returns the adapter identifier.
func (a *SemanticScholarAdapter) Name() string { return "semantic_scholar" }

// Search queries the Semantic Scholar API and returns normalized records.
func (a *SemanticScholarAdapter) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Paper, error) {
	if query.FreeText == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = cfg.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	params := url.Values{
		"query":  {query.FreeText},
		"limit":  {fmt.Sprintf("%d", maxResults)},
		"offset": {fmt.Sprintf("%d", query.Start)},
		"fields": {semanticFields},
	}

	reqURL := semanticAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	if a.APIKey != "" {
		req.Header.Set("x-api-key", a.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, a.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	papers := make([]types.Paper, 0, len(sr.Data))
	for _, sp := range sr.Data {
		p := types.Paper{
			ID:        sp.PaperID,
			Title:     feed.CollapseWhitespace(sp.Title),
			Abstract:  feed.CollapseWhitespace(sp.Abstract),
			URL:       feed.SecureURL(sp.URL),
			Venue:     sp.Venue,
			Citations: sp.CitationCount,
			Source:    "semantic_scholar",
		}

		for _, author := range sp.Authors {
			if author.Name != "" {
				p.Authors = append(p.Authors, author.Name)
			}
		}

		if sp.PublicationDate != "" {
			if t, parseErr := time.Parse("2006-01-02", sp.PublicationDate); parseErr == nil {
				p.Published = t
			}
		}
		if p.Published.IsZero() && sp.Year > 0 {
			p.Published = time.Date(sp.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		}

		if p.Title == "" {
			p.Title = feed.PlaceholderTitle
		}
		if p.Abstract == "" {
			p.Abstract = feed.PlaceholderAbstract
		}
		if len(p.Authors) == 0 {
			p.Authors = []string{feed.PlaceholderAuthor}
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string           `json:"paperId"`
	Title           string           `json:"title"`
	Abstract        string           `json:"abstract"`
	Year            int              `json:"year"`
	CitationCount   int              `json:"citationCount"`
	URL             string           `json:"url"`
	Venue           string           `json:"venue"`
	PublicationDate string           `json:"publicationDate"`
	Authors         []semanticAuthor `json:"authors"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
