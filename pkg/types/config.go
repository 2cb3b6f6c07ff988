package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-aggregator/0.1"). Per prd001-aggregation R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the aggregation stage.
// Per prd001-aggregation R1.4, R2.3, R5.1-R5.4.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of merged results to return (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// DefaultCategory is the taxonomy filter applied when a request names
	// none (default "cs.LG"). The special value "all" disables filtering.
	DefaultCategory string `json:"default_category" yaml:"default_category"`

	// EnableArxiv controls whether the arXiv adapter is used.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableSemanticScholar controls whether the Semantic Scholar adapter is used.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// CacheConfig holds settings for the response cache.
// Per prd004-cache R1.1-R1.3. A zero Path disables caching.
type CacheConfig struct {
	// Path is the SQLite database file (e.g. "cache/responses.db").
	Path string `json:"path" yaml:"path"`

	// TTL is how long a cached response stays valid (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`
}

// EnhanceConfig holds settings for the enhancement stage.
// Per prd003-enhancement R1.1, R3.1-R3.3.
type EnhanceConfig struct {
	// Enabled controls whether merged results are decorated with derived
	// scores and synthetic metrics.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Model is the completion model used for summaries (e.g. "gpt-4o-mini").
	// Empty disables the summarizer; scores are still attached.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey authenticates against the completion service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// ServerConfig holds settings for the HTTP transport.
// Per prd005-transport R1.1-R1.2.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`
}

// Config groups all stage configurations for the aggregator.
type Config struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Enhance EnhanceConfig `json:"enhance" yaml:"enhance"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}
