package database

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Article is the sole persisted entity. Enhancement follows the linked
// dual-row model: the generated rewrite is stored as a second row pointing
// back at its original via OriginalArticleID, while the original keeps a
// denormalized EnhancedContent copy for side-by-side viewing.
type Article struct {
	ID                int64
	Title             string
	Content           string
	EnhancedContent   *string
	Author            *string
	PublishedDate     *time.Time
	SourceURL         *string
	IsEnhanced        bool
	References        *string // serialized JSON list of {title, url}
	WordCount         int
	OriginalArticleID *int64
	EnhancedArticleID *int64
	ScrapedAt         *time.Time
	EnhancedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Reference is the persisted projection of a fetched secondary source.
type Reference struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SerializeReferences encodes references as the JSON text blob stored in the
// references column.
func SerializeReferences(refs []Reference) (string, error) {
	data, err := json.Marshal(refs)
	if err != nil {
		return "", fmt.Errorf("failed to serialize references: %w", err)
	}
	return string(data), nil
}

// ParseReferences decodes the stored references blob, preserving order.
func ParseReferences(serialized string) ([]Reference, error) {
	if serialized == "" {
		return nil, nil
	}

	var refs []Reference
	if err := json.Unmarshal([]byte(serialized), &refs); err != nil {
		return nil, fmt.Errorf("failed to parse references: %w", err)
	}
	return refs, nil
}

// CountWords returns the whitespace-split word count of s. Blank input
// counts as zero words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
