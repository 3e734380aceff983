package enhance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contentflow/contentflow/app/cfg"
)

func TestLengthPolicy_Fixed(t *testing.T) {
	policy := LengthPolicy{Policy: cfg.LengthPolicyFixed, TargetWords: 50, Multiplier: 1.5}

	if got := policy.WordsFor(1000); got != 50 {
		t.Errorf("Expected fixed target 50 regardless of original length, got %d", got)
	}
}

func TestLengthPolicy_Scaled(t *testing.T) {
	policy := LengthPolicy{Policy: cfg.LengthPolicyScaled, TargetWords: 50, Multiplier: 1.5}

	if got := policy.WordsFor(100); got != 150 {
		t.Errorf("Expected scaled target 150, got %d", got)
	}
	if got := policy.WordsFor(0); got != 1 {
		t.Errorf("Expected minimum target of 1 word, got %d", got)
	}
}

func TestGenerativeClient_ReturnsFirstCandidate(t *testing.T) {
	var gotAuth string
	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [
			{"content": {"parts": [{"text": "Generated body"}]}},
			{"content": {"parts": [{"text": "Ignored second candidate"}]}}
		]}`))
	}))
	defer server.Close()

	policy := LengthPolicy{Policy: cfg.LengthPolicyFixed, TargetWords: 50}
	client := NewGenerativeClient(server.URL, "llm-key", &http.Client{Timeout: time.Second}, policy, 500)

	refs := []Reference{
		{Title: "Ref A", URL: "https://example.com/a", Content: strings.Repeat("x", 800)},
	}

	got, err := client.Rewrite(context.Background(), RewriteInput{
		Title:     "Original Title",
		Content:   "original content body",
		WordCount: 3,
	}, refs)
	if err != nil {
		t.Fatalf("Rewrite failed: %v", err)
	}

	if got != "Generated body" {
		t.Errorf("Expected first candidate text, got %q", got)
	}
	if gotAuth != "Bearer llm-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}

	if !strings.Contains(gotPrompt, "Title: Original Title") {
		t.Error("Prompt should embed the original title")
	}
	if !strings.Contains(gotPrompt, "original content body") {
		t.Error("Prompt should embed the original content")
	}
	if !strings.Contains(gotPrompt, "[Reference 1] Ref A") {
		t.Error("Prompt should embed numbered references")
	}
	if !strings.Contains(gotPrompt, "EXACTLY 50 words") {
		t.Error("Prompt should state the target word count")
	}
	// Reference content must be truncated to the configured excerpt length
	if strings.Contains(gotPrompt, strings.Repeat("x", 501)) {
		t.Error("Prompt should truncate reference excerpts to the configured limit")
	}
	if !strings.Contains(gotPrompt, strings.Repeat("x", 500)) {
		t.Error("Prompt should include the truncated reference excerpt")
	}
}

func TestGenerativeClient_ProviderErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exhausted", http.StatusTooManyRequests)
	}))
	defer server.Close()

	policy := LengthPolicy{Policy: cfg.LengthPolicyFixed, TargetWords: 50}
	client := NewGenerativeClient(server.URL, "key", &http.Client{Timeout: time.Second}, policy, 500)

	if _, err := client.Rewrite(context.Background(), RewriteInput{Title: "T", Content: "C"}, nil); err == nil {
		t.Error("Expected provider error to propagate")
	}
}

func TestGenerativeClient_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	policy := LengthPolicy{Policy: cfg.LengthPolicyFixed, TargetWords: 50}
	client := NewGenerativeClient(server.URL, "key", &http.Client{Timeout: time.Second}, policy, 500)

	if _, err := client.Rewrite(context.Background(), RewriteInput{Title: "T", Content: "C"}, nil); err == nil {
		t.Error("Expected error for response without candidates")
	}
}
