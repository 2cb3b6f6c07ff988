// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/paper-aggregator/pkg/types"
)

func TestToCSLItem(t *testing.T) {
	p := types.Paper{
		ID:         "1706.03762v5",
		Title:      "Attention Is All You Need",
		Abstract:   "We propose a new architecture.",
		Authors:    []string{"Ashish Vaswani", "Noam Shazeer"},
		Categories: []string{"cs.CL", "cs.LG"},
		Published:  time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC),
		URL:        "https://arxiv.org/abs/1706.03762v5",
		Source:     "arxiv",
	}

	item := toCSLItem(p)

	if item.Type != "article" {
		t.Errorf("Type = %q, want %q", item.Type, "article")
	}
	if item.ID != "1706.03762v5" {
		t.Errorf("ID = %q", item.ID)
	}
	if item.Keyword != "cs.CL, cs.LG" {
		t.Errorf("Keyword = %q", item.Keyword)
	}
	if len(item.Author) != 2 {
		t.Fatalf("len(Author) = %d, want 2", len(item.Author))
	}
	if item.Author[0].Given != "Ashish" || item.Author[0].Family != "Vaswani" {
		t.Errorf("Author[0] = %+v", item.Author[0])
	}
	if item.Issued == nil || item.Issued.DateParts[0][0] != 2017 {
		t.Error("Issued year should be 2017")
	}
}

func TestToCSLItemNoDate(t *testing.T) {
	item := toCSLItem(types.Paper{ID: "x", Title: "Undated"})
	if item.Issued != nil {
		t.Errorf("Issued = %+v, want nil for zero date", item.Issued)
	}
}

func TestParseAuthorName(t *testing.T) {
	tests := []struct {
		input string
		want  CSLName
	}{
		{"Ashish Vaswani", CSLName{Given: "Ashish", Family: "Vaswani"}},
		{"Jean-Luc van der Berg", CSLName{Given: "Jean-Luc van der", Family: "Berg"}},
		{"Madonna", CSLName{Literal: "Madonna"}},
		{"", CSLName{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseAuthorName(tt.input); got != tt.want {
				t.Errorf("parseAuthorName(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatCSL(t *testing.T) {
	out := Output{Papers: []types.Paper{
		{
			ID:        "1706.03762v5",
			Title:     "Attention Is All You Need",
			Authors:   []string{"Ashish Vaswani"},
			Published: time.Date(2017, 6, 12, 0, 0, 0, 0, time.UTC),
		},
	}}

	var buf bytes.Buffer
	if err := FormatCSL(out, &buf); err != nil {
		t.Fatalf("FormatCSL: %v", err)
	}

	yaml := buf.String()
	for _, want := range []string{"id: 1706.03762v5", "type: article", "family: Vaswani", "date-parts"} {
		if !strings.Contains(yaml, want) {
			t.Errorf("output missing %q:\n%s", want, yaml)
		}
	}
}
