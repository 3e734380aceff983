package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

var _ ArticleRepository = (*SQLArticleRepository)(nil)

// SQLArticleRepository handles database operations for articles
type SQLArticleRepository struct {
	db *DB
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *DB) *SQLArticleRepository {
	return &SQLArticleRepository{db: db}
}

const articleColumns = `id, title, content, enhanced_content, author, published_date, source_url,
	is_enhanced, refs, word_count, original_article_id, enhanced_article_id,
	scraped_at, enhanced_at, created_at, updated_at`

func (r *SQLArticleRepository) CreateArticle(ctx context.Context, article NewArticle) (*Article, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO articles (title, content, author, published_date, source_url,
			is_enhanced, refs, word_count, scraped_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, article.Title, article.Content, article.Author, article.PublishedDate,
		article.SourceURL, article.IsEnhanced, article.References,
		CountWords(article.Content), article.ScrapedAt, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get inserted article id: %w", err)
	}

	return r.GetArticle(ctx, id)
}

func (r *SQLArticleRepository) GetArticle(ctx context.Context, id int64) (*Article, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE id = ?
	`, id)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

func (r *SQLArticleRepository) ListArticles(ctx context.Context, filter ListFilter) ([]Article, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	where := ""
	args := []any{}
	if filter.Enhanced != nil {
		where = "WHERE is_enhanced = ?"
		args = append(args, *filter.Enhanced)
	}

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM articles
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, articleColumns, where)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, total, nil
}

func (r *SQLArticleRepository) UpdateArticle(ctx context.Context, id int64, patch ArticlePatch) (*Article, error) {
	set := []string{}
	args := []any{}

	appendSet := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		appendSet("title", *patch.Title)
	}
	if patch.Content != nil {
		appendSet("content", *patch.Content)
		appendSet("word_count", CountWords(*patch.Content))
	}
	if patch.EnhancedContent != nil {
		appendSet("enhanced_content", *patch.EnhancedContent)
	}
	if patch.Author != nil {
		appendSet("author", *patch.Author)
	}
	if patch.PublishedDate != nil {
		appendSet("published_date", *patch.PublishedDate)
	}
	if patch.SourceURL != nil {
		appendSet("source_url", *patch.SourceURL)
	}
	if patch.IsEnhanced != nil {
		appendSet("is_enhanced", *patch.IsEnhanced)
	}
	if patch.References != nil {
		appendSet("refs", *patch.References)
	}

	if len(set) == 0 {
		return r.GetArticle(ctx, id)
	}

	appendSet("updated_at", time.Now().UTC())
	args = append(args, id)

	query := "UPDATE articles SET " + strings.Join(set, ", ") + " WHERE id = ?"
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.GetArticle(ctx, id)
}

func (r *SQLArticleRepository) DeleteArticle(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete article: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return affected > 0, nil
}

// GetArticlesForEnhancement returns true originals only: never a row already
// enhanced, and never a derived row created by a previous enhancement.
func (r *SQLArticleRepository) GetArticlesForEnhancement(ctx context.Context) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles
		WHERE is_enhanced = 0
		  AND original_article_id IS NULL
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get articles for enhancement: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// ApplyEnhancement persists a successful pipeline result: a derived row
// holding the generated text, and the original updated with the back-link,
// the enhanced content copy, and a word count recomputed from it.
func (r *SQLArticleRepository) ApplyEnhancement(ctx context.Context, originalID int64, enhancedContent string, refs []Reference) (*Article, error) {
	original, err := r.GetArticle(ctx, originalID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("article %d not found", originalID)
	}

	serialized, err := SerializeReferences(refs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	wordCount := CountWords(enhancedContent)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO articles (title, content, author, published_date, source_url,
			is_enhanced, refs, word_count, original_article_id, enhanced_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?)
	`, original.Title, enhancedContent, original.Author, original.PublishedDate,
		original.SourceURL, serialized, wordCount, originalID, now, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert enhanced article: %w", err)
	}

	enhancedID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get enhanced article id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE articles
		SET enhanced_article_id = ?, enhanced_content = ?, refs = ?,
			is_enhanced = 1, enhanced_at = ?, word_count = ?, updated_at = ?
		WHERE id = ?
	`, enhancedID, enhancedContent, serialized, now, wordCount, now, originalID)
	if err != nil {
		return nil, fmt.Errorf("failed to link original article: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit enhancement: %w", err)
	}

	return r.GetArticle(ctx, enhancedID)
}

func (r *SQLArticleRepository) GetArticleStats(ctx context.Context) (ArticleStats, error) {
	var stats ArticleStats
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN is_enhanced = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_enhanced = 0 AND original_article_id IS NULL THEN 1 ELSE 0 END), 0)
		FROM articles
	`).Scan(&stats.Total, &stats.Enhanced, &stats.Pending)
	if err != nil {
		return ArticleStats{}, fmt.Errorf("failed to get article stats: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var article Article
	var enhancedContent, author, sourceURL, refs sql.NullString
	var publishedDate, scrapedAt, enhancedAt sql.NullTime
	var originalArticleID, enhancedArticleID sql.NullInt64

	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &enhancedContent,
		&author, &publishedDate, &sourceURL, &article.IsEnhanced, &refs,
		&article.WordCount, &originalArticleID, &enhancedArticleID,
		&scrapedAt, &enhancedAt, &article.CreatedAt, &article.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if enhancedContent.Valid {
		article.EnhancedContent = &enhancedContent.String
	}
	if author.Valid {
		article.Author = &author.String
	}
	if sourceURL.Valid {
		article.SourceURL = &sourceURL.String
	}
	if refs.Valid {
		article.References = &refs.String
	}
	if publishedDate.Valid {
		article.PublishedDate = &publishedDate.Time
	}
	if scrapedAt.Valid {
		article.ScrapedAt = &scrapedAt.Time
	}
	if enhancedAt.Valid {
		article.EnhancedAt = &enhancedAt.Time
	}
	if originalArticleID.Valid {
		article.OriginalArticleID = &originalArticleID.Int64
	}
	if enhancedArticleID.Valid {
		article.EnhancedArticleID = &enhancedArticleID.Int64
	}

	return &article, nil
}
