package enhance

// SearchResult is one ranked hit from the web search provider. It is
// consumed immediately by the fetch step and never persisted.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// Reference is a fetched secondary source used as rewrite context. Content
// is dropped before persistence.
type Reference struct {
	Title   string
	URL     string
	Content string
}

type Status int

const (
	// StatusEnhanced means the rewrite succeeded and the outcome carries content.
	StatusEnhanced Status = iota
	// StatusNoResults means the search returned nothing; no fetch was attempted.
	StatusNoResults
	// StatusNoReferences means every fetched result came back empty.
	StatusNoReferences
)

func (s Status) String() string {
	switch s {
	case StatusEnhanced:
		return "enhanced"
	case StatusNoResults:
		return "no_results"
	case StatusNoReferences:
		return "no_references"
	default:
		return "unknown"
	}
}

// Outcome is the pipeline result for a single article. Persistence is the
// caller's responsibility.
type Outcome struct {
	Status          Status
	EnhancedContent string
	References      []Reference
}
