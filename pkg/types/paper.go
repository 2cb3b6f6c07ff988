// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-aggregator pipeline.
// Implements: prd001-aggregation (Paper, R3.1-R3.4);
//
//	prd002-ranking (Metrics, BreakthroughSignals);
//	docs/ARCHITECTURE § Data Structures.
package types

import "time"

// Paper is the canonical record every source adapter normalizes into.
// Records are built fresh per request and never mutated after merge except
// by additive enhancement (prd001-aggregation R3.3).
type Paper struct {
	// ID is the stable external identifier: the segment after "/abs/" for
	// arXiv entries, an opaque paper ID for Semantic Scholar results.
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, collapsed to a single line.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract, whitespace-collapsed. Callers may
	// truncate it for presentation (prd001-aggregation R3.2).
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists display names in source order. Presentation layers may
	// cap this to the first three and append an "et al." marker.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists taxonomy tags in source order, duplicates retained.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Published and Updated are date-only; any time-of-day component from
	// the source is discarded.
	Published time.Time `json:"published" yaml:"published"`
	Updated   time.Time `json:"updated,omitempty" yaml:"updated,omitempty"`

	// URL is the canonical landing-page link, https-normalized.
	URL string `json:"url" yaml:"url"`

	// PDFURL is a direct PDF link; empty when the source provides none.
	PDFURL string `json:"pdfUrl,omitempty" yaml:"pdf_url,omitempty"`

	// Source identifies the adapter that produced the record (e.g. "arxiv",
	// "semantic_scholar"). Provenance only, never identity.
	Source string `json:"source" yaml:"source"`

	// Citations is the citation count when the source reports one.
	Citations int `json:"citationCount,omitempty" yaml:"citation_count,omitempty"`

	// Venue is the publication venue when the source reports one.
	Venue string `json:"venue,omitempty" yaml:"venue,omitempty"`

	// Enhancement fields, attached post-merge (prd002-ranking). Zero values
	// mean "not computed".
	RelevanceScore    int      `json:"relevanceScore,omitempty" yaml:"relevance_score,omitempty"`
	MatchedInterests  string   `json:"matchedInterests,omitempty" yaml:"matched_interests,omitempty"`
	TrendingScore     int      `json:"trendingScore,omitempty" yaml:"trending_score,omitempty"`
	CitationVelocity  int      `json:"citationVelocity,omitempty" yaml:"citation_velocity,omitempty"`
	BreakthroughScore float64  `json:"breakthroughScore,omitempty" yaml:"breakthrough_score,omitempty"`
	Breakthrough      bool     `json:"breakthrough,omitempty" yaml:"breakthrough,omitempty"`
	Summary           string   `json:"aiSummary,omitempty" yaml:"ai_summary,omitempty"`
	Metrics           *Metrics `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// Metrics holds the synthetic impact/social/industry placeholder data a
// SignalProvider attaches to a record. The shipped provider generates these
// randomly (prd003-enhancement R2.1); the shape is the contract.
type Metrics struct {
	Impact   ImpactMetrics   `json:"impact" yaml:"impact"`
	Social   SocialMetrics   `json:"social" yaml:"social"`
	Industry IndustryMetrics `json:"industry" yaml:"industry"`
}

// ImpactMetrics estimates scholarly impact.
type ImpactMetrics struct {
	Citations        int     `json:"citations" yaml:"citations"`
	CitationVelocity int     `json:"citationVelocity" yaml:"citation_velocity"`
	FieldPercentile  float64 `json:"fieldPercentile" yaml:"field_percentile"`
}

// SocialMetrics estimates social attention.
type SocialMetrics struct {
	Mentions  int     `json:"mentions" yaml:"mentions"`
	Shares    int     `json:"shares" yaml:"shares"`
	BuzzScore float64 `json:"buzzScore" yaml:"buzz_score"`
}

// IndustryMetrics estimates industry uptake.
type IndustryMetrics struct {
	Implementations int     `json:"implementations" yaml:"implementations"`
	AdoptionScore   float64 `json:"adoptionScore" yaml:"adoption_score"`
}

// BreakthroughSignals are the six indicator inputs to the breakthrough
// score, each in [0, 1]. Collectors (stub or real) fill the same shape so
// the weighting in internal/rank stays untouched (prd002-ranking R4.2).
type BreakthroughSignals struct {
	Novelty          float64 `json:"novelty" yaml:"novelty"`
	PerformanceJump  float64 `json:"performanceJump" yaml:"performance_jump"`
	CitationVelocity float64 `json:"citationVelocity" yaml:"citation_velocity"`
	IndustryAdoption float64 `json:"industryAdoption" yaml:"industry_adoption"`
	SocialBuzz       float64 `json:"socialBuzz" yaml:"social_buzz"`
	ExpertOpinion    float64 `json:"expertOpinion" yaml:"expert_opinion"`
}
