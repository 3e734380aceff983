package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

const (
	defaultItemSelector    = "article, .post, .entry, .article-item"
	defaultTitleSelector   = "h1, h2, h3, .title, .post-title"
	defaultExcerptSelector = "p, .excerpt, .summary, .description"
	defaultAuthorSelector  = ".author, .byline, [rel=author]"
	defaultDateSelector    = "time, .date, .published"
)

var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02.01.2006",
}

// Scraper discovers articles from configured sources. HTML sources are
// walked with CSS selectors, RSS sources are parsed with gofeed.
type Scraper struct {
	httpClient *http.Client
	feedParser *gofeed.Parser
	userAgent  string
}

func NewScraper(httpClient *http.Client, userAgent string) *Scraper {
	return &Scraper{
		httpClient: httpClient,
		feedParser: gofeed.NewParser(),
		userAgent:  userAgent,
	}
}

func (s *Scraper) Run(ctx context.Context, source *Source) ([]ScrapedArticle, error) {
	switch source.Type {
	case SourceTypeRSS:
		return s.scrapeRSS(ctx, source)
	case SourceTypeHTML:
		return s.scrapeHTML(ctx, source)
	default:
		return nil, fmt.Errorf("unsupported source type: %s", source.Type)
	}
}

func (s *Scraper) scrapeRSS(ctx context.Context, source *Source) ([]ScrapedArticle, error) {
	data, err := s.fetch(ctx, source.URL, source.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", source.URL, err)
	}

	feed, err := s.feedParser.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", source.URL, err)
	}

	articles := make([]ScrapedArticle, 0, source.Limit)
	for _, item := range feed.Items {
		if len(articles) >= source.Limit {
			break
		}
		if item.Title == "" {
			continue
		}

		content := item.Content
		if content == "" {
			content = item.Description
		}

		article := ScrapedArticle{
			Title:     item.Title,
			Content:   truncateExcerpt(stripHTML(content), source.ExcerptLength),
			SourceURL: item.Link,
		}
		if item.PublishedParsed != nil {
			published := *item.PublishedParsed
			article.PublishedDate = &published
		}
		if item.Author != nil && item.Author.Name != "" {
			article.Author = item.Author.Name
		} else {
			article.Author = source.DefaultAuthor
		}

		articles = append(articles, article)
	}

	return articles, nil
}

func (s *Scraper) scrapeHTML(ctx context.Context, source *Source) ([]ScrapedArticle, error) {
	data, err := s.fetch(ctx, source.URL, source.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %s: %w", source.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", source.URL, err)
	}

	baseURL, err := url.Parse(source.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL %s: %w", source.URL, err)
	}

	itemSelector := source.Selectors.Item
	if itemSelector == "" {
		itemSelector = defaultItemSelector
	}

	var articles []ScrapedArticle
	doc.Find(itemSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(articles) >= source.Limit {
			return false
		}

		title := firstText(sel, source.Selectors.Title, defaultTitleSelector)
		if title == "" {
			return true
		}

		article := ScrapedArticle{
			Title:     title,
			Content:   truncateExcerpt(firstText(sel, source.Selectors.Excerpt, defaultExcerptSelector), source.ExcerptLength),
			Author:    firstText(sel, source.Selectors.Author, defaultAuthorSelector),
			SourceURL: resolveLink(baseURL, sel),
		}
		if article.Author == "" {
			article.Author = source.DefaultAuthor
		}
		if dateText := firstText(sel, source.Selectors.Date, defaultDateSelector); dateText != "" {
			article.PublishedDate = parseDate(dateText)
		}

		if source.FollowLinks && article.SourceURL != "" {
			if content := s.fetchFullContent(ctx, article.SourceURL, source); content != "" {
				article.Content = content
			}
		}

		articles = append(articles, article)
		return true
	})

	return articles, nil
}

// fetchFullContent follows an article link and extracts the readable body
// from the detail page. Failures only degrade to the index excerpt.
func (s *Scraper) fetchFullContent(ctx context.Context, articleURL string, source *Source) string {
	data, err := s.fetch(ctx, articleURL, source.Timeout)
	if err != nil {
		slog.Warn("Failed to fetch article page", "url", articleURL, "error", err)
		return ""
	}

	parsed, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(data)), parsed)
	if err != nil {
		slog.Warn("Failed to extract article content", "url", articleURL, "error", err)
		return ""
	}

	return truncateExcerpt(article.TextContent, source.ExcerptLength)
}

func (s *Scraper) fetch(ctx context.Context, rawURL string, timeoutSeconds int) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func firstText(sel *goquery.Selection, selector, fallback string) string {
	if selector == "" {
		selector = fallback
	}
	text := ""
	sel.Find(selector).EachWithBreak(func(_ int, match *goquery.Selection) bool {
		text = strings.TrimSpace(match.Text())
		return text == ""
	})
	return text
}

func resolveLink(baseURL *url.URL, sel *goquery.Selection) string {
	href, ok := sel.Find("a[href]").First().Attr("href")
	if !ok {
		return ""
	}
	parsed, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(parsed).String()
}

func parseDate(text string) *time.Time {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return &parsed
		}
	}
	return nil
}

func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func truncateExcerpt(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
