package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const indexPage = `<!DOCTYPE html>
<html><body>
<article>
  <h2>First Post</h2>
  <p>Excerpt of the first post.</p>
  <span class="author">Alice</span>
  <time>2024-01-15</time>
  <a href="/posts/first">Read more</a>
</article>
<article>
  <h2>Second Post</h2>
  <p>Excerpt of the second post.</p>
  <a href="https://other.example.com/second">Read more</a>
</article>
<article>
  <h2>Third Post</h2>
  <p>Excerpt of the third post.</p>
</article>
</body></html>`

func testSource(url string) *Source {
	return &Source{
		Name:          "test",
		URL:           url,
		Type:          SourceTypeHTML,
		Limit:         10,
		ExcerptLength: 500,
		Timeout:       5,
	}
}

func TestScraperHTMLIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexPage)
	}))
	defer server.Close()

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), testSource(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(articles) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "First Post" {
		t.Errorf("expected title 'First Post', got %q", first.Title)
	}
	if first.Content != "Excerpt of the first post." {
		t.Errorf("unexpected content: %q", first.Content)
	}
	if first.Author != "Alice" {
		t.Errorf("expected author Alice, got %q", first.Author)
	}
	if first.PublishedDate == nil {
		t.Error("expected published date to be parsed")
	}
	if first.SourceURL != server.URL+"/posts/first" {
		t.Errorf("expected relative link resolved against base, got %q", first.SourceURL)
	}

	if articles[1].SourceURL != "https://other.example.com/second" {
		t.Errorf("expected absolute link kept as is, got %q", articles[1].SourceURL)
	}
	if articles[2].SourceURL != "" {
		t.Errorf("expected empty link for article without anchor, got %q", articles[2].SourceURL)
	}
}

func TestScraperHTMLRespectsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indexPage)
	}))
	defer server.Close()

	source := testSource(server.URL)
	source.Limit = 2

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}

func TestScraperHTMLSkipsItemsWithoutTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<article><p>No heading here.</p></article>
<article><h2>Titled</h2><p>Has a heading.</p></article>
</body></html>`)
	}))
	defer server.Close()

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), testSource(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if articles[0].Title != "Titled" {
		t.Errorf("unexpected title: %q", articles[0].Title)
	}
}

func TestScraperHTMLDefaultAuthor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><article><h2>Post</h2><p>Body.</p></article></body></html>`)
	}))
	defer server.Close()

	source := testSource(server.URL)
	source.DefaultAuthor = "Editorial Team"

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if articles[0].Author != "Editorial Team" {
		t.Errorf("expected default author, got %q", articles[0].Author)
	}
}

func TestScraperHTMLFollowLinks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><article><h2>Post</h2><p>Short excerpt.</p><a href="/posts/full">Read</a></article></body></html>`)
	})
	mux.HandleFunc("/posts/full", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Post</title></head><body><article><h1>Post</h1>`+
			strings.Repeat("<p>The complete article body with much more detail than the short index excerpt provides to readers.</p>", 8)+
			`</article></body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source := testSource(server.URL)
	source.FollowLinks = true

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	if !strings.Contains(articles[0].Content, "complete article body") {
		t.Errorf("expected full content from detail page, got %q", articles[0].Content)
	}
}

func TestScraperHTMLFollowLinksDegradesToExcerpt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><article><h2>Post</h2><p>Index excerpt.</p><a href="/posts/gone">Read</a></article></body></html>`)
	})
	mux.HandleFunc("/posts/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	source := testSource(server.URL)
	source.FollowLinks = true

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if articles[0].Content != "Index excerpt." {
		t.Errorf("expected fallback to index excerpt, got %q", articles[0].Content)
	}
}

func TestScraperHTMLTruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("a", 600)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><article><h2>Post</h2><p>%s</p></article></body></html>`, long)
	}))
	defer server.Close()

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), testSource(server.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := articles[0].Content; got != long[:500]+"..." {
		t.Errorf("expected excerpt truncated to 500 chars with ellipsis, got %d chars", len(got))
	}
}

func TestScraperRSS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Example Feed</title>
<item>
  <title>Feed Item One</title>
  <link>https://news.example.com/one</link>
  <description>&lt;p&gt;Description of item one.&lt;/p&gt;</description>
  <author>bob@example.com (Bob)</author>
  <pubDate>Mon, 15 Jan 2024 10:00:00 +0000</pubDate>
</item>
<item>
  <title>Feed Item Two</title>
  <link>https://news.example.com/two</link>
  <description>Description of item two.</description>
</item>
</channel></rss>`)
	}))
	defer server.Close()

	source := testSource(server.URL)
	source.Type = SourceTypeRSS

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}

	first := articles[0]
	if first.Title != "Feed Item One" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Content != "Description of item one." {
		t.Errorf("expected HTML stripped from description, got %q", first.Content)
	}
	if first.SourceURL != "https://news.example.com/one" {
		t.Errorf("unexpected source URL: %q", first.SourceURL)
	}
	if first.PublishedDate == nil {
		t.Error("expected published date from pubDate")
	}
}

func TestScraperRSSRespectsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Feed</title>
<item><title>One</title><link>https://e.com/1</link></item>
<item><title>Two</title><link>https://e.com/2</link></item>
<item><title>Three</title><link>https://e.com/3</link></item>
</channel></rss>`)
	}))
	defer server.Close()

	source := testSource(server.URL)
	source.Type = SourceTypeRSS
	source.Limit = 2

	scraper := NewScraper(server.Client(), "test-agent")
	articles, err := scraper.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("expected 2 articles, got %d", len(articles))
	}
}

func TestScraperUnknownType(t *testing.T) {
	source := testSource("https://example.com")
	source.Type = "atom"

	scraper := NewScraper(http.DefaultClient, "test-agent")
	if _, err := scraper.Run(context.Background(), source); err == nil {
		t.Error("expected error for unknown source type")
	}
}

func TestScraperServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	scraper := NewScraper(server.Client(), "test-agent")
	if _, err := scraper.Run(context.Background(), testSource(server.URL)); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestScraperSendsUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, indexPage)
	}))
	defer server.Close()

	scraper := NewScraper(server.Client(), "custom-agent/1.0")
	if _, err := scraper.Run(context.Background(), testSource(server.URL)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAgent != "custom-agent/1.0" {
		t.Errorf("expected custom user agent, got %q", gotAgent)
	}
}
