package scrape

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}
}

func TestSourceCacheRunLoadsAllSources(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "devblog.yml", "url: https://devblog.example.com\ntype: html\n")
	writeSourceFile(t, dir, "newsfeed.yml", "url: https://news.example.com/rss\ntype: rss\nlimit: 3\n")

	cache := NewSourceCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.GetSourceCount() != 2 {
		t.Errorf("expected 2 sources, got %d", cache.GetSourceCount())
	}

	source, err := cache.GetSource("newsfeed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.Type != SourceTypeRSS {
		t.Errorf("expected type rss, got %s", source.Type)
	}
	if source.Limit != 3 {
		t.Errorf("expected limit 3, got %d", source.Limit)
	}
}

func TestSourceCacheAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "minimal.yml", "url: https://blog.example.com\n")

	cache := NewSourceCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	source, err := cache.GetSource("minimal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source.Type != SourceTypeHTML {
		t.Errorf("expected default type html, got %s", source.Type)
	}
	if source.Limit != 10 {
		t.Errorf("expected default limit 10, got %d", source.Limit)
	}
	if source.ExcerptLength != 500 {
		t.Errorf("expected default excerpt length 500, got %d", source.ExcerptLength)
	}
	if source.Timeout != 10 {
		t.Errorf("expected default timeout 10, got %d", source.Timeout)
	}
}

func TestSourceCacheRejectsMissingURL(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "broken.yml", "type: html\n")

	cache := NewSourceCache(dir)
	if err := cache.Run(); err == nil {
		t.Error("expected error for source without URL")
	}
}

func TestSourceCacheRejectsUnknownType(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "broken.yml", "url: https://blog.example.com\ntype: atom\n")

	cache := NewSourceCache(dir)
	if err := cache.Run(); err == nil {
		t.Error("expected error for unknown source type")
	}
}

func TestSourceCacheMissingDirectory(t *testing.T) {
	cache := NewSourceCache(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := cache.Run(); err != nil {
		t.Errorf("expected no error for missing directory, got %v", err)
	}
	if cache.GetSourceCount() != 0 {
		t.Errorf("expected 0 sources, got %d", cache.GetSourceCount())
	}
}

func TestSourceCacheGetSourceNotFound(t *testing.T) {
	cache := NewSourceCache(t.TempDir())
	if _, err := cache.GetSource("missing"); err == nil {
		t.Error("expected error for unknown source name")
	}
}
