package enhance

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

// MaxExtractedChars caps the plain text returned for a single page.
const MaxExtractedChars = 5000

// contentSelectors are tried in order; the first non-empty match wins.
var contentSelectors = []string{"article", "main", ".content", ".post-content", "body"}

var strippedSelectors = []string{"script", "style", "nav", "header", "footer", "iframe", "noscript"}

// Extractor renders the main content region of an HTML document as plain
// text. Parsing is best-effort: malformed or empty input yields an empty
// string, never an error.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Run(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, selector := range strippedSelectors {
		doc.Find(selector).Remove()
	}

	var text string
	for _, selector := range contentSelectors {
		text = strings.TrimSpace(doc.Find(selector).Text())
		if text != "" {
			break
		}
	}

	text = norm.NFC.String(collapseWhitespace(text))

	if len(text) > MaxExtractedChars {
		text = text[:MaxExtractedChars]
	}

	return text
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
