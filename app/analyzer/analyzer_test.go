package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"example/seo-score-api/app/models"
)

type fakeProvider struct {
	out    string
	err    error
	prompt string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.prompt = prompt
	return f.out, f.err
}

func quietOptions() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func TestAnalyzeWithoutProviderReturnsSample(t *testing.T) {
	a := New(nil, quietOptions())
	got := a.Analyze(context.Background(), "https://example.com")

	if got.Score != 75 || len(got.Issues) != 3 || len(got.Recommendations) != 3 || len(got.Performance) != 4 {
		t.Fatalf("unexpected sample analysis: %+v", got)
	}
	if a.ProviderName() != "not configured" || a.Configured() {
		t.Fatalf("provider name = %q", a.ProviderName())
	}
}

func TestAnalyzeParsesProviderJSON(t *testing.T) {
	p := &fakeProvider{out: "```json\n" + `{
		"score": 82,
		"issues": [{"type": "warning", "title": "Thin content", "description": "Only 120 words"}],
		"recommendations": [{"priority": "medium", "title": "Expand copy", "description": "Write more"}],
		"performance": [{"metric": "LCP", "value": "2.4s", "status": "good"}]
	}` + "\n```"}
	a := New(p, quietOptions())

	got := a.Analyze(context.Background(), "https://example.com/blog")
	if got.Score != 82 {
		t.Fatalf("score = %d", got.Score)
	}
	if got.Issues[0].Type != models.IssueWarning || got.Recommendations[0].Priority != models.PriorityMedium {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if !strings.Contains(p.prompt, "https://example.com/blog") || !strings.Contains(p.prompt, "Respond ONLY with valid JSON") {
		t.Fatalf("prompt missing url or footer: %s", p.prompt)
	}
}

func TestAnalyzeProviderErrorIsDegraded(t *testing.T) {
	long := strings.Repeat("x", 250)
	a := New(&fakeProvider{err: errors.New(long)}, quietOptions())

	got := a.Analyze(context.Background(), "https://example.com")
	if got.Score != 70 || len(got.Issues) != 1 || len(got.Recommendations) != 1 || len(got.Performance) != 1 {
		t.Fatalf("unexpected degraded analysis: %+v", got)
	}
	want := "Could not complete full analysis: " + strings.Repeat("x", 100)
	if got.Issues[0].Description != want {
		t.Fatalf("description = %q", got.Issues[0].Description)
	}
	if got.Performance[0].Metric != "Analysis Status" || got.Performance[0].Value != "Partial" {
		t.Fatalf("performance = %+v", got.Performance)
	}
	if got.Recommendations[0].Priority != models.PriorityHigh {
		t.Fatalf("recommendation = %+v", got.Recommendations)
	}
}

func TestAnalyzeBadJSONIsDegraded(t *testing.T) {
	a := New(&fakeProvider{out: "I think the site is fine."}, quietOptions())
	if got := a.Analyze(context.Background(), "https://example.com"); got.Score != 70 {
		t.Fatalf("score = %d, want degraded 70", got.Score)
	}
}

func TestParseAnalysis(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		score   int
		wantErr bool
	}{
		{name: "clamps high", in: `{"score": 140}`, score: 100},
		{name: "clamps low", in: `{"score": -3}`, score: 0},
		{name: "rounds", in: `{"score": 66.6}`, score: 67},
		{name: "missing score", in: `{"issues": []}`, wantErr: true},
		{name: "empty", in: "  ", wantErr: true},
		{name: "not json", in: "{", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseAnalysis(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAnalysis: %v", err)
			}
			if got.Score != tc.score {
				t.Fatalf("score = %d, want %d", got.Score, tc.score)
			}
			if got.Issues == nil || got.Recommendations == nil || got.Performance == nil {
				t.Fatalf("lists should be non-nil: %+v", got)
			}
		})
	}
}
