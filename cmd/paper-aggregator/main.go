// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-aggregator CLI.
// Implements: prd001-aggregation, prd003-enhancement, prd004-cache,
//
//	prd005-transport (CLI surface).
//
// See docs/ARCHITECTURE § Project Structure.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-aggregator/internal/secrets"
	"github.com/pdiddy/paper-aggregator/internal/source"
	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "paper-aggregator/0.1"
)

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the paper-aggregator CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-aggregator",
	Short: "Aggregate paper search results across academic catalogs",
	Long: `paper-aggregator queries academic catalogs (arXiv, Semantic Scholar),
normalizes their responses into one record shape, deduplicates overlapping
results, and optionally decorates records with derived relevance, trending,
and breakthrough scores.

Run a one-shot aggregation with "search" or expose the HTTP API with "serve".`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-aggregator.yaml or ~/.config/paper-aggregator/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-aggregator")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-aggregator"))
		}
	}

	viper.SetEnvPrefix("PAPER_AGGREGATOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// searchConfig assembles the aggregation settings from config file
// values, secrets, and defaults.
func searchConfig() types.SearchConfig {
	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   defaultTimeout,
			UserAgent: defaultUserAgent,
		},
		MaxResults:            20,
		DefaultCategory:       "cs.LG",
		EnableArxiv:           true,
		EnableSemanticScholar: true,
	}

	if v := viper.GetDuration("search.timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v := viper.GetString("search.user_agent"); v != "" {
		cfg.UserAgent = v
	}
	if v := viper.GetInt("search.max_results"); v > 0 {
		cfg.MaxResults = v
	}
	if v := viper.GetString("search.default_category"); v != "" {
		cfg.DefaultCategory = v
	}
	if viper.IsSet("search.enable_arxiv") {
		cfg.EnableArxiv = viper.GetBool("search.enable_arxiv")
	}
	if viper.IsSet("search.enable_semantic_scholar") {
		cfg.EnableSemanticScholar = viper.GetBool("search.enable_semantic_scholar")
	}
	cfg.SemanticScholarAPIKey = secretDefault("semantic-scholar-api-key",
		viper.GetString("search.semantic_scholar_api_key"))

	return cfg
}

// buildAdapters returns the enabled adapters in merge-precedence order:
// arXiv first, then Semantic Scholar.
func buildAdapters(cfg types.SearchConfig) []source.Adapter {
	client := &http.Client{Timeout: cfg.Timeout}

	var adapters []source.Adapter
	if cfg.EnableArxiv {
		adapters = append(adapters, &source.ArxivAdapter{Client: client})
	}
	if cfg.EnableSemanticScholar {
		adapters = append(adapters, &source.SemanticScholarAdapter{
			Client: client,
			APIKey: cfg.SemanticScholarAPIKey,
		})
	}
	return adapters
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
