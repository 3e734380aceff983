package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contentflow/contentflow/app/database"
	"github.com/contentflow/contentflow/app/enhance"
)

// EnhanceArticleTask enhances a single article on demand, enqueued from the
// HTTP API.
type EnhanceArticleTask struct {
	Task
	articleID   int64
	articleRepo database.ArticleRepository
	enhancer    Enhancer
}

func NewEnhanceArticleTask(articleID int64, articleRepo database.ArticleRepository, enhancer Enhancer) *EnhanceArticleTask {
	return &EnhanceArticleTask{
		Task:        NewTask(TaskTypeEnhanceArticle),
		articleID:   articleID,
		articleRepo: articleRepo,
		enhancer:    enhancer,
	}
}

func (t *EnhanceArticleTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	article, err := t.articleRepo.GetArticle(ctx, t.articleID)
	if err != nil {
		return fmt.Errorf("failed to get article: %w", err)
	}
	if article == nil {
		slog.Warn("Article no longer exists, skipping enhancement", "article_id", t.articleID)
		return nil
	}
	if article.IsEnhanced {
		slog.Debug("Article already enhanced, skipping", "article_id", t.articleID)
		return nil
	}

	outcome, err := t.enhancer.Run(ctx, *article)
	if err != nil {
		return fmt.Errorf("failed to enhance article: %w", err)
	}

	switch outcome.Status {
	case enhance.StatusNoResults:
		slog.Info("Article skipped, no search results", "article_id", article.ID, "title", article.Title)
		return nil
	case enhance.StatusNoReferences:
		slog.Info("Article skipped, no usable references", "article_id", article.ID, "title", article.Title)
		return nil
	}

	if _, err := t.articleRepo.ApplyEnhancement(ctx, article.ID, outcome.EnhancedContent, outcome.PersistedReferences()); err != nil {
		return fmt.Errorf("failed to store enhanced article: %w", err)
	}

	slog.Info("Task completed",
		"type", "EnhanceArticle",
		"article_id", article.ID,
		"duration", t.GetDuration())

	return nil
}
