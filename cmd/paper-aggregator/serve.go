// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-aggregator/internal/cache"
	"github.com/pdiddy/paper-aggregator/internal/enhance"
	"github.com/pdiddy/paper-aggregator/internal/server"
	"github.com/pdiddy/paper-aggregator/pkg/types"
)

const defaultAddr = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the aggregation API over HTTP",
	Long: `Serve starts the HTTP API. GET or POST /api/search runs the same
aggregation pipeline as the search command and returns a JSON envelope.
Responses are cached in SQLite when cache.path is configured; derived
scores are attached when enhance.enabled is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default \":8080\")")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := searchConfig()

	srv := &server.Server{
		Adapters: buildAdapters(cfg),
		Cfg:      cfg,
		Warnings: os.Stderr,
	}

	if path := viper.GetString("cache.path"); path != "" {
		store, err := cache.Open(types.CacheConfig{
			Path: path,
			TTL:  viper.GetDuration("cache.ttl"),
		})
		if err != nil {
			return fmt.Errorf("opening response cache: %w", err)
		}
		defer store.Close()
		srv.Cache = store
	}

	if viper.GetBool("enhance.enabled") {
		summarizer := enhance.NewClient(&http.Client{Timeout: cfg.Timeout}, types.EnhanceConfig{
			Enabled: true,
			Model:   viper.GetString("enhance.model"),
			APIKey:  secretDefault("openai-api-key", viper.GetString("enhance.api_key")),
		})
		srv.Enhancer = enhance.New(summarizer)
	}

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = viper.GetString("server.addr")
	}
	if addr == "" {
		addr = defaultAddr
	}

	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)
	return http.ListenAndServe(addr, srv.Router())
}
