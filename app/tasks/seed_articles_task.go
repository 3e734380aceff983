package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contentflow/contentflow/app/database"
	"github.com/contentflow/contentflow/app/scrape"
)

// SeedArticlesTask populates an empty store from the configured sources.
// When no source yields anything it falls back to a built-in sample set so
// the application is never empty on first start.
type SeedArticlesTask struct {
	Task
	sourceCache *scrape.SourceCache
	scraper     ArticleScraper
	articleRepo database.ArticleRepository
	seedLimit   int
}

func NewSeedArticlesTask(sourceCache *scrape.SourceCache, scraper ArticleScraper,
	articleRepo database.ArticleRepository, seedLimit int) *SeedArticlesTask {
	return &SeedArticlesTask{
		Task:        NewTask(TaskTypeSeedArticles),
		sourceCache: sourceCache,
		scraper:     scraper,
		articleRepo: articleRepo,
		seedLimit:   seedLimit,
	}
}

func (t *SeedArticlesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	stats, err := t.articleRepo.GetArticleStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get article stats: %w", err)
	}
	if stats.Total > 0 {
		slog.Debug("Store already has articles, skipping seeding", "count", stats.Total)
		return nil
	}

	scraped := t.scrapeSources(ctx)
	if len(scraped) == 0 {
		slog.Warn("No articles scraped from any source, using sample data")
		scraped = sampleArticles()
	}

	inserted := 0
	for _, article := range scraped {
		if _, err := t.articleRepo.CreateArticle(ctx, toNewArticle(article)); err != nil {
			return fmt.Errorf("failed to create article '%s': %w", article.Title, err)
		}
		inserted++
	}

	slog.Info("Task completed",
		"type", "SeedArticles",
		"duration", t.GetDuration(),
		"inserted", inserted)

	return nil
}

func (t *SeedArticlesTask) scrapeSources(ctx context.Context) []scrape.ScrapedArticle {
	var scraped []scrape.ScrapedArticle

	for _, source := range t.sourceCache.GetSources() {
		if t.seedLimit > 0 && source.Limit > t.seedLimit {
			capped := *source
			capped.Limit = t.seedLimit
			source = &capped
		}

		articles, err := t.scraper.Run(ctx, source)
		if err != nil {
			slog.Warn("Failed to scrape source", "source", source.Name, "error", err)
			continue
		}

		slog.Debug("Source scraped", "source", source.Name, "articles", len(articles))
		scraped = append(scraped, articles...)
	}

	return scraped
}

func toNewArticle(scraped scrape.ScrapedArticle) database.NewArticle {
	now := time.Now().UTC()

	article := database.NewArticle{
		Title:     scraped.Title,
		Content:   scraped.Content,
		ScrapedAt: &now,
	}
	if scraped.Author != "" {
		article.Author = &scraped.Author
	}
	if scraped.SourceURL != "" {
		article.SourceURL = &scraped.SourceURL
	}
	article.PublishedDate = scraped.PublishedDate

	return article
}

func sampleArticles() []scrape.ScrapedArticle {
	published := func(date string) *time.Time {
		parsed, _ := time.Parse("2006-01-02", date)
		return &parsed
	}

	return []scrape.ScrapedArticle{
		{
			Title:         "The Future of AI in Customer Service",
			Content:       "Artificial Intelligence is revolutionizing how businesses interact with customers. From chatbots to predictive analytics, AI tools are making customer service faster, more efficient, and more personalized than ever before. Companies that embrace these technologies are seeing significant improvements in customer satisfaction and operational efficiency.",
			Author:        "Editorial Team",
			PublishedDate: published("2024-01-15"),
			SourceURL:     "https://contentflow.example.com/blog/ai-customer-service",
		},
		{
			Title:         "Building Better Chatbots: A Complete Guide",
			Content:       "Creating effective chatbots requires more than just implementing AI. It requires understanding user needs, designing intuitive conversations, and continuously improving based on feedback. This guide covers everything from initial planning to deployment and maintenance of successful chatbot systems.",
			Author:        "Tech Team",
			PublishedDate: published("2024-01-10"),
			SourceURL:     "https://contentflow.example.com/blog/chatbot-guide",
		},
		{
			Title:         "Understanding Natural Language Processing",
			Content:       "Natural Language Processing (NLP) is the backbone of modern conversational AI. It enables machines to understand, interpret, and generate human language in ways that are both meaningful and useful. This article explores the key concepts and applications of NLP in business.",
			Author:        "Editorial Team",
			PublishedDate: published("2024-01-05"),
			SourceURL:     "https://contentflow.example.com/blog/nlp-explained",
		},
		{
			Title:         "Customer Engagement in the Digital Age",
			Content:       "Digital transformation has fundamentally changed how companies engage with customers. Modern consumers expect instant responses, personalized experiences, and seamless omnichannel interactions. Learn how to meet these expectations and build lasting customer relationships.",
			Author:        "Marketing Team",
			PublishedDate: published("2023-12-28"),
			SourceURL:     "https://contentflow.example.com/blog/digital-engagement",
		},
		{
			Title:         "Automation and Efficiency: The Perfect Pair",
			Content:       "Business automation is no longer optional, it's essential for staying competitive. By automating routine tasks and workflows, companies can free up their teams to focus on high-value work while improving accuracy and speed. Discover the key areas where automation can make the biggest impact.",
			Author:        "Editorial Team",
			PublishedDate: published("2023-12-20"),
			SourceURL:     "https://contentflow.example.com/blog/automation-efficiency",
		},
	}
}
