package api

import (
	"encoding/json"
	"time"

	"github.com/contentflow/contentflow/app/database"
	"github.com/contentflow/contentflow/app/tasks"
)

type Handler struct {
	articleRepo database.ArticleRepository
	enhancer    tasks.Enhancer
	scheduler   tasks.TaskSchedulerInterface
}

// articleResponse is the wire shape of an article. Field names follow the
// frontend's camelCase contract; references ride as the serialized string.
type articleResponse struct {
	ID                int64      `json:"id"`
	Title             string     `json:"title"`
	Content           string     `json:"content"`
	EnhancedContent   *string    `json:"enhancedContent"`
	Author            *string    `json:"author"`
	PublishedDate     *time.Time `json:"publishedDate"`
	SourceURL         *string    `json:"sourceUrl"`
	IsEnhanced        bool       `json:"isEnhanced"`
	References        *string    `json:"references"`
	WordCount         int        `json:"wordCount"`
	OriginalArticleID *int64     `json:"originalArticleId"`
	EnhancedArticleID *int64     `json:"enhancedArticleId"`
	ScrapedAt         *time.Time `json:"scrapedAt"`
	EnhancedAt        *time.Time `json:"enhancedAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func toArticleResponse(article database.Article) articleResponse {
	return articleResponse{
		ID:                article.ID,
		Title:             article.Title,
		Content:           article.Content,
		EnhancedContent:   article.EnhancedContent,
		Author:            article.Author,
		PublishedDate:     article.PublishedDate,
		SourceURL:         article.SourceURL,
		IsEnhanced:        article.IsEnhanced,
		References:        article.References,
		WordCount:         article.WordCount,
		OriginalArticleID: article.OriginalArticleID,
		EnhancedArticleID: article.EnhancedArticleID,
		ScrapedAt:         article.ScrapedAt,
		EnhancedAt:        article.EnhancedAt,
		CreatedAt:         article.CreatedAt,
		UpdatedAt:         article.UpdatedAt,
	}
}

func toArticleResponses(articles []database.Article) []articleResponse {
	responses := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		responses = append(responses, toArticleResponse(article))
	}
	return responses
}

type createArticleRequest struct {
	Title         string          `json:"title"`
	Content       string          `json:"content"`
	Author        *string         `json:"author"`
	PublishedDate *time.Time      `json:"publishedDate"`
	SourceURL     *string         `json:"sourceUrl"`
	IsEnhanced    bool            `json:"isEnhanced"`
	References    json.RawMessage `json:"references"`
}

type updateArticleRequest struct {
	Title           *string         `json:"title"`
	Content         *string         `json:"content"`
	EnhancedContent *string         `json:"enhancedContent"`
	Author          *string         `json:"author"`
	PublishedDate   *time.Time      `json:"publishedDate"`
	SourceURL       *string         `json:"sourceUrl"`
	IsEnhanced      *bool           `json:"isEnhanced"`
	References      json.RawMessage `json:"references"`
}

// serializeReferences accepts references either as an already-serialized
// string or as structured JSON, which is stored in its serialized form.
func serializeReferences(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return &asString
	}

	serialized := string(raw)
	return &serialized
}

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
