// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// ResultFile is the on-disk representation of an aggregation run. A saved
// run can be reloaded later without re-querying the upstream catalogs.
// Implements: prd001-aggregation R5.3.
type ResultFile struct {
	Query   ResultParams  `yaml:"query"`
	Papers  []types.Paper `yaml:"papers"`
	Summary ResultSummary `yaml:"summary"`
}

// ResultParams stores the query parameters in a serializable form.
type ResultParams struct {
	FreeText   string   `yaml:"free_text,omitempty"`
	Category   string   `yaml:"category,omitempty"`
	Start      int      `yaml:"start,omitempty"`
	MaxResults int      `yaml:"max_results,omitempty"`
	Interests  []string `yaml:"interests,omitempty"`
}

// ResultSummary stores run statistics and a timestamp.
type ResultSummary struct {
	Total             int       `yaml:"total"`
	DuplicatesRemoved int       `yaml:"duplicates_removed"`
	AdapterErrors     []string  `yaml:"adapter_errors,omitempty"`
	Timestamp         time.Time `yaml:"timestamp"`
}

// WriteResultFile saves query parameters and merged results to a YAML file.
func WriteResultFile(path string, query Query, interests []string, out Output) error {
	rf := ResultFile{
		Query: ResultParams{
			FreeText:   query.FreeText,
			Category:   query.Category,
			Start:      query.Start,
			MaxResults: query.MaxResults,
			Interests:  interests,
		},
		Papers: out.Papers,
		Summary: ResultSummary{
			Total:             len(out.Papers),
			DuplicatesRemoved: out.DupsRemoved,
			AdapterErrors:     out.AdapterErrors,
			Timestamp:         time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved aggregation run from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
