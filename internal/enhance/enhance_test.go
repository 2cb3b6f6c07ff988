// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func testEnhancer(summarizer Completer) *Enhancer {
	rng := rand.New(rand.NewSource(7))
	return &Enhancer{
		Provider:   &RandomProvider{Rng: rng},
		Summarizer: summarizer,
		Rng:        rng,
		Now:        func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) },
	}
}

func samplePapers() []types.Paper {
	return []types.Paper{
		{
			ID:        "1",
			Title:     "Transformer Survey",
			Abstract:  "A survey of transformer architectures.",
			Published: time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			Citations: 60,
			Source:    "arxiv",
		},
		{
			ID:        "2",
			Title:     "Unrelated Chemistry Paper",
			Abstract:  "Molecules and reactions.",
			Published: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
			Source:    "semantic_scholar",
		},
	}
}

func TestApplyIsAdditive(t *testing.T) {
	papers := samplePapers()
	testEnhancer(nil).Apply(context.Background(), papers, nil)

	for i, p := range papers {
		if p.Metrics == nil {
			t.Errorf("papers[%d].Metrics should be set", i)
		}
		if p.BreakthroughScore < 0 || p.BreakthroughScore > 1 {
			t.Errorf("papers[%d].BreakthroughScore = %f, out of range", i, p.BreakthroughScore)
		}
		if p.TrendingScore < 0 {
			t.Errorf("papers[%d].TrendingScore = %d", i, p.TrendingScore)
		}
	}

	// Base normalization fields are untouched.
	if papers[0].Title != "Transformer Survey" || papers[0].Citations != 60 {
		t.Errorf("base fields modified: %+v", papers[0])
	}
	// No interests: original ordering preserved.
	if papers[0].ID != "1" || papers[1].ID != "2" {
		t.Error("ordering should be preserved without interests")
	}
}

func TestApplyDerivesCitationVelocity(t *testing.T) {
	papers := samplePapers()
	testEnhancer(nil).Apply(context.Background(), papers, nil)

	// Paper 1: 60 citations over ~6 months.
	if papers[0].CitationVelocity != 10 {
		t.Errorf("CitationVelocity = %d, want 10", papers[0].CitationVelocity)
	}
	if papers[1].CitationVelocity != 0 {
		t.Errorf("CitationVelocity = %d, want 0 for zero citations", papers[1].CitationVelocity)
	}
	// The synthetic metrics pass through the real citation figures.
	if papers[0].Metrics.Impact.Citations != 60 || papers[0].Metrics.Impact.CitationVelocity != 10 {
		t.Errorf("Metrics.Impact = %+v", papers[0].Metrics.Impact)
	}
}

func TestApplyReordersByRelevance(t *testing.T) {
	papers := samplePapers()
	testEnhancer(nil).Apply(context.Background(), papers, []string{"transformer"})

	if papers[0].ID != "1" {
		t.Fatalf("papers[0].ID = %q, want the matching record first", papers[0].ID)
	}
	if papers[0].RelevanceScore <= papers[1].RelevanceScore {
		t.Errorf("scores not descending: %d then %d", papers[0].RelevanceScore, papers[1].RelevanceScore)
	}
	if papers[0].MatchedInterests != "Matches interests: transformer" {
		t.Errorf("MatchedInterests = %q", papers[0].MatchedInterests)
	}
	if papers[1].MatchedInterests != "No direct interest match" {
		t.Errorf("MatchedInterests = %q", papers[1].MatchedInterests)
	}
}

func TestApplySummarizer(t *testing.T) {
	s := &stubCompleter{reply: "A short summary."}
	papers := samplePapers()
	testEnhancer(s).Apply(context.Background(), papers, nil)

	if s.calls != 2 {
		t.Errorf("calls = %d, want 2", s.calls)
	}
	for i, p := range papers {
		if p.Summary != "A short summary." {
			t.Errorf("papers[%d].Summary = %q", i, p.Summary)
		}
	}
}

func TestApplySummarizerFailureNonFatal(t *testing.T) {
	s := &stubCompleter{err: fmt.Errorf("service down")}
	papers := samplePapers()
	testEnhancer(s).Apply(context.Background(), papers, nil)

	for i, p := range papers {
		if p.Summary != "" {
			t.Errorf("papers[%d].Summary = %q, want empty on failure", i, p.Summary)
		}
		// Scores still attached despite the summarizer failure.
		if p.Metrics == nil {
			t.Errorf("papers[%d].Metrics should still be set", i)
		}
	}
}

func TestApplyEmptySet(t *testing.T) {
	testEnhancer(nil).Apply(context.Background(), nil, []string{"x"})
}

func TestApplyEnabledWithoutModel(t *testing.T) {
	// Enhancement enabled but no completion model configured: NewClient
	// yields a nil summarizer and Apply attaches scores without panicking.
	e := New(NewClient(http.DefaultClient, types.EnhanceConfig{Enabled: true}))

	papers := samplePapers()
	e.Apply(context.Background(), papers, nil)

	for i, p := range papers {
		if p.Summary != "" {
			t.Errorf("papers[%d].Summary = %q, want empty without a model", i, p.Summary)
		}
		if p.Metrics == nil {
			t.Errorf("papers[%d].Metrics should still be set", i)
		}
	}
}

func TestApplyConcurrentRequests(t *testing.T) {
	// One Enhancer is shared across requests; concurrent Apply calls must
	// not race on the random source.
	e := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			papers := samplePapers()
			e.Apply(context.Background(), papers, []string{"transformer"})
			for j, p := range papers {
				if p.Metrics == nil {
					t.Errorf("papers[%d].Metrics should be set", j)
				}
			}
		}()
	}
	wg.Wait()
}

func TestRandomProviderShapes(t *testing.T) {
	rp := &RandomProvider{Rng: rand.New(rand.NewSource(1))}
	p := types.Paper{Citations: 42, CitationVelocity: 7}

	sig := rp.Breakthrough(p)
	for name, v := range map[string]float64{
		"Novelty":          sig.Novelty,
		"PerformanceJump":  sig.PerformanceJump,
		"CitationVelocity": sig.CitationVelocity,
		"IndustryAdoption": sig.IndustryAdoption,
		"SocialBuzz":       sig.SocialBuzz,
		"ExpertOpinion":    sig.ExpertOpinion,
	} {
		if v < 0 || v >= 1 {
			t.Errorf("%s = %f, want [0, 1)", name, v)
		}
	}

	m := rp.Metrics(p)
	if m.Impact.Citations != 42 || m.Impact.CitationVelocity != 7 {
		t.Errorf("real citation figures should pass through, got %+v", m.Impact)
	}
	if m.Impact.FieldPercentile < 0 || m.Impact.FieldPercentile >= 100 {
		t.Errorf("FieldPercentile = %f", m.Impact.FieldPercentile)
	}
	if m.Social.Mentions < 0 || m.Social.Mentions >= 1000 {
		t.Errorf("Mentions = %d", m.Social.Mentions)
	}
}
