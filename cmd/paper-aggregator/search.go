// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-aggregator/internal/enhance"
	"github.com/pdiddy/paper-aggregator/internal/source"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search academic catalogs and merge the results",
	Long: `Search queries the enabled catalogs (arXiv, Semantic Scholar) for papers
matching a free-text query and an optional category filter. Results are
normalized into one record shape, deduplicated by title across sources, and
optionally scored against a list of research interests.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search query")
	searchCmd.Flags().String("category", "", "taxonomy filter (e.g. cs.LG); \"all\" disables filtering")
	searchCmd.Flags().Int("start", 0, "pagination offset")
	searchCmd.Flags().Int("max-results", 20, "maximum number of merged results")
	searchCmd.Flags().String("sources", "all", "comma-separated source selection (arxiv, semantic_scholar)")
	searchCmd.Flags().String("interests", "", "comma-separated interests for relevance scoring")
	searchCmd.Flags().Bool("enhance", false, "attach derived scores and synthetic metrics")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("csl", false, "output results as CSL-YAML")
	searchCmd.Flags().String("out", "", "save the run to a YAML result file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	category, _ := cmd.Flags().GetString("category")
	start, _ := cmd.Flags().GetInt("start")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	sourcesFlag, _ := cmd.Flags().GetString("sources")
	interestsFlag, _ := cmd.Flags().GetString("interests")
	doEnhance, _ := cmd.Flags().GetBool("enhance")
	asJSON, _ := cmd.Flags().GetBool("json")
	asCSL, _ := cmd.Flags().GetBool("csl")
	outPath, _ := cmd.Flags().GetString("out")

	cfg := searchConfig()
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	if category == "" {
		category = cfg.DefaultCategory
	}

	adapters := selectAdapters(buildAdapters(cfg), sourcesFlag)

	query := source.Query{
		FreeText:   queryText,
		Category:   category,
		Start:      start,
		MaxResults: cfg.MaxResults,
	}

	out, err := source.Aggregate(context.Background(), query, adapters, cfg, nil, os.Stderr)
	if err != nil {
		return err
	}

	interests := splitComma(interestsFlag)
	if doEnhance || len(interests) > 0 {
		enhance.New(nil).Apply(context.Background(), out.Papers, interests)
	}

	if outPath != "" {
		if err := source.WriteResultFile(outPath, query, interests, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved results to %s\n", outPath)
	}

	switch {
	case asCSL:
		return source.FormatCSL(out, os.Stdout)
	case asJSON:
		return source.FormatJSON(out, os.Stdout)
	default:
		source.FormatTable(out, os.Stdout)
		return nil
	}
}

// selectAdapters filters adapters by the --sources flag, keeping the
// registration order. Unknown names are ignored with a warning.
func selectAdapters(adapters []source.Adapter, sources string) []source.Adapter {
	if sources == "" || strings.EqualFold(sources, "all") {
		return adapters
	}

	wanted := make(map[string]bool)
	for _, name := range splitComma(sources) {
		wanted[strings.ToLower(name)] = true
	}

	var selected []source.Adapter
	for _, a := range adapters {
		if wanted[a.Name()] {
			selected = append(selected, a)
			delete(wanted, a.Name())
		}
	}
	for name := range wanted {
		fmt.Fprintf(os.Stderr, "warning: unknown source %q ignored\n", name)
	}
	if len(selected) == 0 {
		return adapters
	}
	return selected
}

func splitComma(s string) []string {
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
