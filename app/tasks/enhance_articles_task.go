package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contentflow/contentflow/app/database"
	"github.com/contentflow/contentflow/app/enhance"
)

// EnhanceArticlesTask runs the enhancement pipeline over every article still
// awaiting enhancement. Articles are processed strictly sequentially; a
// failure on one article is counted and the batch moves on.
type EnhanceArticlesTask struct {
	Task
	articleRepo database.ArticleRepository
	enhancer    Enhancer
	limiter     Waiter
}

func NewEnhanceArticlesTask(articleRepo database.ArticleRepository, enhancer Enhancer, limiter Waiter) *EnhanceArticlesTask {
	return &EnhanceArticlesTask{
		Task:        NewTask(TaskTypeEnhanceArticles),
		articleRepo: articleRepo,
		enhancer:    enhancer,
		limiter:     limiter,
	}
}

func (t *EnhanceArticlesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	articles, err := t.articleRepo.GetArticlesForEnhancement(ctx)
	if err != nil {
		return fmt.Errorf("failed to get articles for enhancement: %w", err)
	}

	if len(articles) == 0 {
		slog.Debug("No articles awaiting enhancement")
		return nil
	}

	slog.Info("Enhancing articles", "count", len(articles))

	enhancedCount := 0
	skippedCount := 0
	failedCount := 0

	for _, article := range articles {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		outcome, err := t.enhancer.Run(ctx, article)
		if err != nil {
			failedCount++
			slog.Error("Failed to enhance article", "article_id", article.ID, "title", article.Title, "error", err)
			if waitErr := t.limiter.Wait(ctx); waitErr != nil {
				return waitErr
			}
			continue
		}

		switch outcome.Status {
		case enhance.StatusNoResults:
			// No provider requests were made for this article, so no
			// pacing delay is needed either.
			skippedCount++
			slog.Info("Article skipped, no search results", "article_id", article.ID, "title", article.Title)
			continue
		case enhance.StatusNoReferences:
			skippedCount++
			slog.Info("Article skipped, no usable references", "article_id", article.ID, "title", article.Title)
		case enhance.StatusEnhanced:
			if _, err := t.articleRepo.ApplyEnhancement(ctx, article.ID, outcome.EnhancedContent, outcome.PersistedReferences()); err != nil {
				failedCount++
				slog.Error("Failed to store enhanced article", "article_id", article.ID, "error", err)
			} else {
				enhancedCount++
				slog.Debug("Article enhanced", "article_id", article.ID, "title", article.Title)
			}
		}

		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	slog.Info("Task completed",
		"type", "EnhanceArticles",
		"duration", t.GetDuration(),
		"total", len(articles),
		"enhanced", enhancedCount,
		"skipped", skippedCount,
		"failed", failedCount)

	return nil
}
