package enhance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contentflow/contentflow/app/database"
)

// Pipeline orchestrates search, reference fetching, and rewriting for a
// single article. It performs no persistence: the result is a pure function
// of the article and the external services.
//
// Error policy per collaborator: search and fetch degrade (an error is
// logged and treated as an empty result, so a batch run skips the article
// instead of crashing); the rewriter propagates, because a missing rewrite
// has no safe default.
type Pipeline struct {
	search      SearchClient
	fetcher     ContentFetcher
	rewriter    Rewriter
	searchLimit int
}

func NewPipeline(search SearchClient, fetcher ContentFetcher, rewriter Rewriter, searchLimit int) *Pipeline {
	if searchLimit <= 0 {
		searchLimit = 2
	}
	return &Pipeline{
		search:      search,
		fetcher:     fetcher,
		rewriter:    rewriter,
		searchLimit: searchLimit,
	}
}

func (p *Pipeline) Run(ctx context.Context, article database.Article) (*Outcome, error) {
	results, err := p.search.Search(ctx, article.Title, p.searchLimit)
	if err != nil {
		slog.Warn("Search provider degraded, treating as zero results", "article_id", article.ID, "error", err)
		results = nil
	}

	if len(results) == 0 {
		slog.Info("No search results, skipping article", "article_id", article.ID, "title", article.Title)
		return &Outcome{Status: StatusNoResults}, nil
	}

	// References are fetched one at a time; results that yield no text are
	// silently dropped.
	var refs []Reference
	for _, result := range results {
		text, err := p.fetcher.Fetch(ctx, result.URL)
		if err != nil {
			slog.Warn("Reference fetch degraded, dropping result", "article_id", article.ID, "url", result.URL, "error", err)
			continue
		}
		if text == "" {
			continue
		}
		refs = append(refs, Reference{
			Title:   result.Title,
			URL:     result.URL,
			Content: text,
		})
	}

	if len(refs) == 0 {
		slog.Info("No references survived fetching, skipping article", "article_id", article.ID, "title", article.Title)
		return &Outcome{Status: StatusNoReferences}, nil
	}

	enhanced, err := p.rewriter.Rewrite(ctx, RewriteInput{
		Title:     article.Title,
		Content:   article.Content,
		WordCount: article.WordCount,
	}, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite article %d: %w", article.ID, err)
	}

	return &Outcome{
		Status:          StatusEnhanced,
		EnhancedContent: enhanced,
		References:      refs,
	}, nil
}

// PersistedReferences projects the outcome's references to the {title, url}
// pairs stored with the article.
func (o *Outcome) PersistedReferences() []database.Reference {
	if len(o.References) == 0 {
		return nil
	}
	refs := make([]database.Reference, 0, len(o.References))
	for _, ref := range o.References {
		refs = append(refs, database.Reference{Title: ref.Title, URL: ref.URL})
	}
	return refs
}
