package database

import (
	"context"
	"time"
)

// NewArticle carries the fields accepted when creating an article. WordCount
// and timestamps are computed by the repository.
type NewArticle struct {
	Title         string
	Content       string
	Author        *string
	PublishedDate *time.Time
	SourceURL     *string
	IsEnhanced    bool
	References    *string
	ScrapedAt     *time.Time
}

// ArticlePatch is a partial update; nil fields are left untouched. WordCount
// is recomputed when Content is present.
type ArticlePatch struct {
	Title           *string
	Content         *string
	EnhancedContent *string
	Author          *string
	PublishedDate   *time.Time
	SourceURL       *string
	IsEnhanced      *bool
	References      *string
}

// ListFilter selects a page of articles, optionally restricted by
// enhancement status.
type ListFilter struct {
	Page     int
	Limit    int
	Enhanced *bool
}

// ArticleStats summarizes store contents for the stats endpoint.
type ArticleStats struct {
	Total    int
	Enhanced int
	Pending  int
}

type ArticleRepository interface {
	CreateArticle(ctx context.Context, article NewArticle) (*Article, error)
	GetArticle(ctx context.Context, id int64) (*Article, error)
	ListArticles(ctx context.Context, filter ListFilter) ([]Article, int, error)
	UpdateArticle(ctx context.Context, id int64, patch ArticlePatch) (*Article, error)
	DeleteArticle(ctx context.Context, id int64) (bool, error)

	GetArticlesForEnhancement(ctx context.Context) ([]Article, error)
	ApplyEnhancement(ctx context.Context, originalID int64, enhancedContent string, refs []Reference) (*Article, error)

	GetArticleStats(ctx context.Context) (ArticleStats, error)
}
