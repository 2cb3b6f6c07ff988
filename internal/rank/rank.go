// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank derives relevance, trending, and breakthrough scores from
// Paper records.
// Implements: prd002-ranking (R1-R4);
//
//	docs/ARCHITECTURE § Scoring.
//
// Every scorer is a pure function of a record (plus the caller's interest
// list for relevance, an injected random source for trending). Signal
// collection lives in internal/enhance; only the formulas live here.
package rank

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// Relevance boosts (R1.1-R1.3).
const (
	interestBoost = 10
	recencyBoost  = 5
	citationBoost = 5

	recencyYear       = 2023
	citationThreshold = 100
)

// noMatchExplanation is the fallback when no interest keyword matched.
const noMatchExplanation = "No direct interest match"

// Relevance scores a record against the caller's interest list: each
// interest found case-insensitively in title+abstract adds 10, recent
// publication adds 5, a high citation count adds 5. No upper bound. The
// returned explanation names every matched interest (R1.4).
func Relevance(p types.Paper, interests []string) (int, string) {
	score := 0
	haystack := strings.ToLower(p.Title + " " + p.Abstract)

	var matched []string
	for _, interest := range interests {
		interest = strings.TrimSpace(interest)
		if interest == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(interest)) {
			score += interestBoost
			matched = append(matched, interest)
		}
	}

	if p.Published.Year() >= recencyYear {
		score += recencyBoost
	}
	if p.Citations > citationThreshold {
		score += citationBoost
	}

	explanation := noMatchExplanation
	if len(matched) > 0 {
		explanation = fmt.Sprintf("Matches interests: %s", strings.Join(matched, ", "))
	}
	return score, explanation
}

// Trending boosts (R2.1-R2.3). The random component is an acknowledged
// placeholder for a real popularity signal; callers inject the source so
// tests stay deterministic.
const (
	trendingYear          = 2024
	trendingRecencyBoost  = 30
	trendingVelocityBoost = 20
	velocityThreshold     = 10
	trendingNoise         = 50
)

// Trending scores a record on recency and citation velocity plus a
// uniform random component in [0, 50), rounded to the nearest integer.
func Trending(p types.Paper, rng *rand.Rand) int {
	score := 0.0
	if p.Published.Year() >= trendingYear {
		score += trendingRecencyBoost
	}
	if p.CitationVelocity > velocityThreshold {
		score += trendingVelocityBoost
	}
	score += rng.Float64() * trendingNoise
	return int(math.Round(score))
}

// Breakthrough indicator weights (R4.1). The six indicators come from a
// SignalProvider; the weighting never changes with the provider.
const (
	weightNovelty          = 0.30
	weightPerformanceJump  = 0.25
	weightCitationVelocity = 0.15
	weightIndustryAdoption = 0.15
	weightSocialBuzz       = 0.10
	weightExpertOpinion    = 0.05

	// BreakthroughThreshold flags a record as a breakthrough candidate.
	BreakthroughThreshold = 0.7
)

// Breakthrough combines the six indicator signals into a weighted score
// and reports whether the record crosses the breakthrough threshold.
func Breakthrough(sig types.BreakthroughSignals) (float64, bool) {
	score := sig.Novelty*weightNovelty +
		sig.PerformanceJump*weightPerformanceJump +
		sig.CitationVelocity*weightCitationVelocity +
		sig.IndustryAdoption*weightIndustryAdoption +
		sig.SocialBuzz*weightSocialBuzz +
		sig.ExpertOpinion*weightExpertOpinion
	return score, score > BreakthroughThreshold
}

// daysPerMonth converts elapsed time to calendar months for velocity.
const daysPerMonth = 30.44

// CitationVelocity returns citations accrued per elapsed month since
// publication, rounded to the nearest integer. The elapsed time is
// floored at one month so a fresh paper never divides by zero, and a
// record missing either input scores 0 (R3.1-R3.2).
func CitationVelocity(citations int, published, now time.Time) int {
	if citations <= 0 || published.IsZero() {
		return 0
	}
	months := now.Sub(published).Hours() / (24 * daysPerMonth)
	if months < 1 {
		months = 1
	}
	return int(math.Round(float64(citations) / months))
}

// SortByRelevance orders papers by descending relevance score. The sort
// is stable: equal scores keep their pre-sort relative order (R1.5).
func SortByRelevance(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].RelevanceScore > papers[j].RelevanceScore
	})
}

// SortByTrending orders papers by descending trending score, stable.
func SortByTrending(papers []types.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].TrendingScore > papers[j].TrendingScore
	})
}
