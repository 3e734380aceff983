package tasks

import (
	"context"

	"github.com/contentflow/contentflow/app/database"
	"github.com/contentflow/contentflow/app/enhance"
	"github.com/contentflow/contentflow/app/scrape"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the HTTP API to manage background task
// processing.
// Example usage:
//
//	scheduler := NewScheduler(sourceCache, articleRepo, scraper, enhancer, limiter)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewEnhanceArticleTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

// Enhancer runs the search/fetch/rewrite pipeline for a single article.
// Satisfied by *enhance.Pipeline.
type Enhancer interface {
	Run(ctx context.Context, article database.Article) (*enhance.Outcome, error)
}

// Waiter paces sequential enhancement work. Satisfied by *ratelimit.Limiter.
type Waiter interface {
	Wait(ctx context.Context) error
}

// ArticleScraper discovers articles from a configured source. Satisfied by
// *scrape.Scraper.
type ArticleScraper interface {
	Run(ctx context.Context, source *scrape.Source) ([]scrape.ScrapedArticle, error)
}
