// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enhance decorates merged Paper records with derived scores and
// synthetic metrics.
// Implements: prd003-enhancement (R1-R3);
//
//	docs/ARCHITECTURE § Enhancement.
//
// Enhancement is strictly additive: new fields are attached, base
// normalization data is never touched, and a failing collaborator (signal
// provider, completion service) degrades to an unenhanced record rather
// than failing the request.
package enhance

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pdiddy/paper-aggregator/internal/rank"
	"github.com/pdiddy/paper-aggregator/pkg/types"
)

// SignalProvider supplies the indicator inputs to the breakthrough score
// and the impact/social/industry metrics. The shipped implementation is a
// random stub; a real collector returns the same shapes, so swapping one
// in never touches the scoring formulas (R2.3).
type SignalProvider interface {
	Breakthrough(p types.Paper) types.BreakthroughSignals
	Metrics(p types.Paper) types.Metrics
}

// Completer produces free text for a prompt. Implemented by the
// completion-service client; any error is non-fatal to the caller.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Enhancer applies the full decoration pass to a merged result set.
type Enhancer struct {
	Provider   SignalProvider
	Summarizer Completer // nil disables summaries
	Rng        *rand.Rand
	Now        func() time.Time // nil means time.Now
}

// New returns an Enhancer with the random stub provider and a
// time-seeded random source. The source is lock-guarded so one Enhancer
// can serve concurrent requests.
func New(summarizer Completer) *Enhancer {
	src := rand.NewSource(time.Now().UnixNano()).(rand.Source64)
	rng := rand.New(&lockedSource{src: src})
	return &Enhancer{
		Provider:   &RandomProvider{Rng: rng},
		Summarizer: summarizer,
		Rng:        rng,
	}
}

// lockedSource serializes access to a rand.Source64. The Rand methods used
// here (Float64, Intn) keep no state outside the source, so guarding the
// source is enough for concurrent Apply calls.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// Apply decorates every record in place: citation velocity, relevance
// against the interest list, trending, breakthrough, metrics, and an
// optional summary. When interests were supplied the set is re-ordered by
// relevance, stable (R1.2). Base fields are never modified.
func (e *Enhancer) Apply(ctx context.Context, papers []types.Paper, interests []string) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	for i := range papers {
		p := &papers[i]

		p.CitationVelocity = rank.CitationVelocity(p.Citations, p.Published, now())
		p.RelevanceScore, p.MatchedInterests = rank.Relevance(*p, interests)
		p.TrendingScore = rank.Trending(*p, e.Rng)
		p.BreakthroughScore, p.Breakthrough = rank.Breakthrough(e.Provider.Breakthrough(*p))

		m := e.Provider.Metrics(*p)
		p.Metrics = &m

		if e.Summarizer != nil {
			// A summarizer failure leaves the record unsummarized; the
			// base data still ships (R3.3).
			if summary, err := e.Summarizer.Complete(ctx, summaryPrompt(*p)); err == nil {
				p.Summary = summary
			}
		}
	}

	if len(interests) > 0 {
		rank.SortByRelevance(papers)
	}
}

// RandomProvider is the placeholder signal collector: indicator values
// and metrics are uniform random draws. Real citation data on the record
// is passed through where the source reported it (R2.1, R2.2).
type RandomProvider struct {
	Rng *rand.Rand
}

// Breakthrough returns six random indicator signals in [0, 1).
func (rp *RandomProvider) Breakthrough(types.Paper) types.BreakthroughSignals {
	return types.BreakthroughSignals{
		Novelty:          rp.Rng.Float64(),
		PerformanceJump:  rp.Rng.Float64(),
		CitationVelocity: rp.Rng.Float64(),
		IndustryAdoption: rp.Rng.Float64(),
		SocialBuzz:       rp.Rng.Float64(),
		ExpertOpinion:    rp.Rng.Float64(),
	}
}

// Metrics returns synthetic impact/social/industry data, keeping the
// record's real citation figures where the source reported them.
func (rp *RandomProvider) Metrics(p types.Paper) types.Metrics {
	return types.Metrics{
		Impact: types.ImpactMetrics{
			Citations:        p.Citations,
			CitationVelocity: p.CitationVelocity,
			FieldPercentile:  rp.Rng.Float64() * 100,
		},
		Social: types.SocialMetrics{
			Mentions:  rp.Rng.Intn(1000),
			Shares:    rp.Rng.Intn(500),
			BuzzScore: rp.Rng.Float64() * 10,
		},
		Industry: types.IndustryMetrics{
			Implementations: rp.Rng.Intn(50),
			AdoptionScore:   rp.Rng.Float64(),
		},
	}
}
