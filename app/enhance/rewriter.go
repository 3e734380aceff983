package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/contentflow/contentflow/app/cfg"
)

// RewriteInput carries the original article fields needed by the prompt.
type RewriteInput struct {
	Title     string
	Content   string
	WordCount int
}

// Rewriter generates a new article body from the original and its
// references. Provider failures propagate: a missing rewrite has no safe
// default.
type Rewriter interface {
	Rewrite(ctx context.Context, article RewriteInput, refs []Reference) (string, error)
}

// LengthPolicy decides the rewrite target length. The policy is
// configuration, not contract: fixed targets an absolute word count, scaled
// multiplies the original's.
type LengthPolicy struct {
	Policy      string
	TargetWords int
	Multiplier  float64
}

func (p LengthPolicy) WordsFor(originalWordCount int) int {
	if p.Policy == cfg.LengthPolicyScaled {
		words := int(math.Round(float64(originalWordCount) * p.Multiplier))
		if words < 1 {
			words = 1
		}
		return words
	}
	return p.TargetWords
}

var _ Rewriter = (*GenerativeClient)(nil)

// GenerativeClient calls a Gemini-style generateContent endpoint and returns
// the first candidate's text verbatim.
type GenerativeClient struct {
	endpoint       string
	apiKey         string
	httpClient     *http.Client
	lengthPolicy   LengthPolicy
	referenceChars int
}

func NewGenerativeClient(endpoint, apiKey string, httpClient *http.Client, lengthPolicy LengthPolicy, referenceChars int) *GenerativeClient {
	return &GenerativeClient{
		endpoint:       endpoint,
		apiKey:         apiKey,
		httpClient:     httpClient,
		lengthPolicy:   lengthPolicy,
		referenceChars: referenceChars,
	}
}

type promptPart struct {
	Text string `json:"text"`
}

type promptContent struct {
	Parts []promptPart `json:"parts"`
}

type generateRequest struct {
	Contents []promptContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content promptContent `json:"content"`
	} `json:"candidates"`
}

func (c *GenerativeClient) Rewrite(ctx context.Context, article RewriteInput, refs []Reference) (string, error) {
	prompt := c.buildPrompt(article, refs)

	body, err := json.Marshal(generateRequest{
		Contents: []promptContent{{Parts: []promptPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal rewrite request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create rewrite request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("rewrite request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("rewrite provider error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode rewrite response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("rewrite response contains no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (c *GenerativeClient) buildPrompt(article RewriteInput, refs []Reference) string {
	targetWords := c.lengthPolicy.WordsFor(article.WordCount)

	var b strings.Builder
	b.WriteString("You are an expert technical content writer. Create a concise article.\n\n")
	b.WriteString("ORIGINAL ARTICLE:\n")
	fmt.Fprintf(&b, "Title: %s\n", article.Title)
	fmt.Fprintf(&b, "Content: %s\n\n", article.Content)
	b.WriteString("REFERENCE MATERIALS:\n")

	for i, ref := range refs {
		excerpt := ref.Content
		if len(excerpt) > c.referenceChars {
			excerpt = excerpt[:c.referenceChars]
		}
		fmt.Fprintf(&b, "\n[Reference %d] %s\nSource: %s\nContent: %s\n", i+1, ref.Title, ref.URL, excerpt)
	}

	b.WriteString("\nREQUIREMENTS:\n")
	fmt.Fprintf(&b, "1. Write EXACTLY %d words - no more, no less\n", targetWords)
	b.WriteString("2. Make it professional and informative\n")
	b.WriteString("3. Use key insights from references\n")
	b.WriteString("4. Write 1-2 paragraphs maximum\n")
	b.WriteString("5. NO introductions like \"Here is...\" - just start with the content\n\n")
	fmt.Fprintf(&b, "Write the %d-word article now:\n", targetWords)

	return b.String()
}
