package scrape

import (
	"time"
)

const (
	SourceTypeHTML = "html"
	SourceTypeRSS  = "rss"
)

// Source describes one seed origin, loaded from a YAML file in the sources
// directory. The name is derived from the filename.
type Source struct {
	Name          string          `yaml:"-"`
	URL           string          `yaml:"url"`
	Type          string          `yaml:"type"`
	Limit         int             `yaml:"limit"`
	ExcerptLength int             `yaml:"excerpt_length"`
	FollowLinks   bool            `yaml:"follow_links"`
	Timeout       int             `yaml:"timeout"` // seconds
	DefaultAuthor string          `yaml:"default_author"`
	Selectors     SourceSelectors `yaml:"selectors"`
}

// SourceSelectors override the default CSS selectors used on HTML index
// pages. Empty fields fall back to the defaults.
type SourceSelectors struct {
	Item    string `yaml:"item"`
	Title   string `yaml:"title"`
	Excerpt string `yaml:"excerpt"`
	Author  string `yaml:"author"`
	Date    string `yaml:"date"`
}

// ScrapedArticle is the scraper's projection of one discovered article.
type ScrapedArticle struct {
	Title         string
	Content       string
	Author        string
	PublishedDate *time.Time
	SourceURL     string
}
