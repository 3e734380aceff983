package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/contentflow/contentflow/app/database"
	"github.com/contentflow/contentflow/app/tasks"
	"github.com/gin-gonic/gin"
)

func NewHandler(articleRepo database.ArticleRepository, enhancer tasks.Enhancer,
	scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		enhancer:    enhancer,
		scheduler:   scheduler,
	}
}

func (h *Handler) ListArticles(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	filter := database.ListFilter{Page: page, Limit: limit}
	if enhanced := c.Query("enhanced"); enhanced != "" {
		value := enhanced == "true"
		filter.Enhanced = &value
	}

	articles, total, err := h.articleRepo.ListArticles(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	totalPages := (total + limit - 1) / limit

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    toArticleResponses(articles),
		"pagination": pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	article, err := h.articleRepo.GetArticle(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toArticleResponse(*article)})
}

func (h *Handler) CreateArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if req.Title == "" || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title and content are required"})
		return
	}

	article, err := h.articleRepo.CreateArticle(c.Request.Context(), database.NewArticle{
		Title:         req.Title,
		Content:       req.Content,
		Author:        req.Author,
		PublishedDate: req.PublishedDate,
		SourceURL:     req.SourceURL,
		IsEnhanced:    req.IsEnhanced,
		References:    serializeReferences(req.References),
	})
	if err != nil {
		slog.Error("Database error", "operation", "create_article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": toArticleResponse(*article)})
}

func (h *Handler) UpdateArticle(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	article, err := h.articleRepo.UpdateArticle(c.Request.Context(), id, database.ArticlePatch{
		Title:           req.Title,
		Content:         req.Content,
		EnhancedContent: req.EnhancedContent,
		Author:          req.Author,
		PublishedDate:   req.PublishedDate,
		SourceURL:       req.SourceURL,
		IsEnhanced:      req.IsEnhanced,
		References:      serializeReferences(req.References),
	})
	if err != nil {
		slog.Error("Database error", "operation", "update_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": toArticleResponse(*article)})
}

func (h *Handler) DeleteArticle(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	deleted, err := h.articleRepo.DeleteArticle(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "delete_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Article deleted successfully"})
}

// EnhanceArticle enqueues a single-article enhancement. Derived rows are
// rewrites themselves and cannot be enhanced again.
func (h *Handler) EnhanceArticle(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	article, err := h.articleRepo.GetArticle(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if article == nil || article.OriginalArticleID != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
		return
	}

	task := tasks.NewEnhanceArticleTask(article.ID, h.articleRepo, h.enhancer)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing enhancement task", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to enqueue enhancement task"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Enhancement task enqueued",
		"task": gin.H{
			"id":   task.ID,
			"type": task.Type,
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "ContentFlow API is running"})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.articleRepo.GetArticleStats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":    stats.Total,
			"enhanced": stats.Enhanced,
			"pending":  stats.Pending,
		},
	})
}

func (h *Handler) articleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid article ID"})
		return 0, false
	}
	return id, true
}
