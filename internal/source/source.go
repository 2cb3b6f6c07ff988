// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source queries external paper catalogs and merges their results
// into one deduplicated set.
// Implements: prd001-aggregation (R1-R4);
//
//	docs/ARCHITECTURE § Aggregation.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// Adapter translates one external catalog's query and response shape into
// the canonical Paper record. Each catalog (arXiv, Semantic Scholar)
// implements this interface per the Strategy pattern (R1.6).
type Adapter interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.Paper, error)
}

// Query holds the aggregation request parameters (R1.1-R1.3).
type Query struct {
	FreeText   string
	Category   string // "" or "all" disables the taxonomy filter
	Start      int    // pagination offset, forwarded to upstreams
	MaxResults int
}

// IsEmpty reports whether the query contains no searchable terms (R1.5).
func (q Query) IsEmpty() bool {
	return q.FreeText == "" && (q.Category == "" || q.Category == "all")
}

// KeyFunc produces the dedup key for a record. The merge control flow is
// fixed; the identity scheme is pluggable so a stronger one (external ID
// matching, fuzzy similarity) can be substituted (R4.4).
type KeyFunc func(types.Paper) string

// TitleKey is the default dedup key: the title lower-cased with all
// whitespace removed. Exact collision only — distinct papers sharing a
// title collapse, and trivially reformatted titles do not. Known
// limitation, documented in docs/ARCHITECTURE § Identity.
func TitleKey(p types.Paper) string {
	var b strings.Builder
	for _, r := range strings.ToLower(p.Title) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Output holds the merged results and aggregation statistics.
type Output struct {
	Papers        []types.Paper
	DupsRemoved   int
	AdapterErrors []string
}

// Aggregate fans the query out to all adapters concurrently, merges and
// deduplicates their results, and caps the merged set (R1-R4).
//
// A failed adapter contributes an empty result set and a warning on w;
// the request only fails when every adapter failed (R4.1, R4.3). Merge
// order follows the adapter registration order, so records from earlier
// adapters win dedup collisions. A nil key uses TitleKey.
func Aggregate(ctx context.Context, query Query, adapters []Adapter, cfg types.SearchConfig, key KeyFunc, w io.Writer) (Output, error) {
	if query.IsEmpty() {
		return Output{}, fmt.Errorf("query is empty: provide a search term or a category")
	}
	if len(adapters) == 0 {
		return Output{}, fmt.Errorf("no source adapters configured")
	}
	if key == nil {
		key = TitleKey
	}

	type adapterResult struct {
		index  int
		papers []types.Paper
		err    error
		name   string
	}

	ch := make(chan adapterResult, len(adapters))
	var wg sync.WaitGroup

	for i, a := range adapters {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()
			papers, err := a.Search(ctx, query, cfg)
			ch <- adapterResult{index: i, papers: papers, err: err, name: a.Name()}
		}(i, a)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Collect in registration order so the merge is deterministic.
	ordered := make([][]types.Paper, len(adapters))
	var adapterErrors []string
	failed := 0
	for ar := range ch {
		if ar.err != nil {
			adapterErrors = append(adapterErrors, fmt.Sprintf("%s: %v", ar.name, ar.err))
			fmt.Fprintf(w, "warning: source %s failed: %v\n", ar.name, ar.err)
			failed++
			continue
		}
		ordered[ar.index] = ar.papers
	}

	if failed == len(adapters) {
		return Output{AdapterErrors: adapterErrors},
			fmt.Errorf("all sources failed: %s", strings.Join(adapterErrors, "; "))
	}

	var all []types.Paper
	for _, papers := range ordered {
		all = append(all, papers...)
	}

	merged, removed := Dedup(all, key)

	if cfg.MaxResults > 0 && len(merged) > cfg.MaxResults {
		merged = merged[:cfg.MaxResults]
	}

	return Output{
		Papers:        merged,
		DupsRemoved:   removed,
		AdapterErrors: adapterErrors,
	}, nil
}

// Dedup removes records whose key collides with an earlier record. The
// first-seen record wins regardless of source; ordering of survivors is
// the concatenation order of the input (R4.2).
func Dedup(papers []types.Paper, key KeyFunc) ([]types.Paper, int) {
	if key == nil {
		key = TitleKey
	}
	seen := make(map[string]struct{}, len(papers))
	merged := make([]types.Paper, 0, len(papers))
	removed := 0

	for _, p := range papers {
		k := key(p)
		if _, ok := seen[k]; ok {
			removed++
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, p)
	}
	return merged, removed
}

// CapAuthors limits an author list for presentation: the first three
// names plus an "et al." marker when more existed. The full list stays on
// the record (R3.4).
func CapAuthors(authors []string) []string {
	if len(authors) <= 3 {
		return authors
	}
	capped := make([]string, 0, 4)
	capped = append(capped, authors[:3]...)
	return append(capped, "et al.")
}

// FormatTable writes merged results as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Papers) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %-4s  %-6s  %s\n",
		"Rank", "Title", "Authors", "Year", "Cites", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, p := range out.Papers {
		title := p.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		authors := formatAuthors(p.Authors)
		year := ""
		if !p.Published.IsZero() {
			year = fmt.Sprintf("%d", p.Published.Year())
		}
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %-4s  %-6d  %s\n",
			i+1, title, authors, year, p.Citations, p.Source)
	}

	fmt.Fprintf(w, "\n%d results", len(out.Papers))
	if out.DupsRemoved > 0 {
		fmt.Fprintf(w, " (%d duplicates removed)", out.DupsRemoved)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes merged results as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Papers)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
