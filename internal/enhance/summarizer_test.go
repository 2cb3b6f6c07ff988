// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

func TestNewClientNilWithoutModel(t *testing.T) {
	if c := NewClient(http.DefaultClient, types.EnhanceConfig{}); c != nil {
		t.Errorf("NewClient without a model should return nil, got %+v", c)
	}
}

func TestClientComplete(t *testing.T) {
	var captured chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&captured)
		fmt.Fprint(w, `{"choices":[{"message":{"content":"  A summary.  "}}]}`)
	}))
	defer ts.Close()

	old := completionAPIBase
	completionAPIBase = ts.URL
	defer func() { completionAPIBase = old }()

	c := NewClient(ts.Client(), types.EnhanceConfig{Model: "gpt-4o-mini", APIKey: "sk_test"})
	got, err := c.Complete(context.Background(), "summarize this")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "A summary." {
		t.Errorf("reply = %q, want trimmed %q", got, "A summary.")
	}

	if captured.Model != "gpt-4o-mini" {
		t.Errorf("request model = %q", captured.Model)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Errorf("request messages = %+v", captured.Messages)
	}
}

func TestClientCompleteAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[],"error":{"message":"quota exceeded"}}`)
	}))
	defer ts.Close()

	old := completionAPIBase
	completionAPIBase = ts.URL
	defer func() { completionAPIBase = old }()

	c := NewClient(ts.Client(), types.EnhanceConfig{Model: "gpt-4o-mini"})
	_, err := c.Complete(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected API error, got: %v", err)
	}
}

func TestClientCompleteHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	old := completionAPIBase
	completionAPIBase = ts.URL
	defer func() { completionAPIBase = old }()

	c := NewClient(ts.Client(), types.EnhanceConfig{Model: "gpt-4o-mini"})
	_, err := c.Complete(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "HTTP 502") {
		t.Errorf("expected HTTP error, got: %v", err)
	}
}

func TestSummaryPromptIncludesRecord(t *testing.T) {
	p := types.Paper{Title: "Attention Is All You Need", Abstract: "We propose a transformer."}
	prompt := summaryPrompt(p)
	if !strings.Contains(prompt, p.Title) || !strings.Contains(prompt, p.Abstract) {
		t.Errorf("prompt missing record fields:\n%s", prompt)
	}
}
