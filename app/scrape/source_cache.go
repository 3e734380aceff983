package scrape

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

type SourceCache struct {
	sourcesDir string
	cache      map[string]*Source
	mu         sync.RWMutex
}

func NewSourceCache(sourcesDir string) *SourceCache {
	return &SourceCache{
		sourcesDir: sourcesDir,
		cache:      make(map[string]*Source),
	}
}

func (sc *SourceCache) Run() error {
	if _, err := os.Stat(sc.sourcesDir); os.IsNotExist(err) {
		return nil
	}

	files, err := filepath.Glob(filepath.Join(sc.sourcesDir, "*.yml"))
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	for _, file := range files {
		// Derive source name from filename (remove .yml extension)
		fileName := filepath.Base(file)
		sourceName := fileName[:len(fileName)-4]

		source, err := sc.LoadSource(sourceName)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Source loaded", "source", sourceName, "type", source.Type, "url", source.URL)
	}

	return nil
}

func (sc *SourceCache) LoadSource(sourceName string) (*Source, error) {
	sourceFile := sc.getSourceFilePath(sourceName)
	source, err := sc.parseSource(sourceFile)
	if err != nil {
		return nil, err
	}

	source.Name = sourceName

	if err := sc.validateSource(source); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", sourceFile, err)
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.cache[source.Name] = source

	return source, nil
}

func (sc *SourceCache) GetSource(sourceName string) (*Source, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	source, ok := sc.cache[sourceName]
	if !ok {
		return nil, fmt.Errorf("source with name '%s' not found", sourceName)
	}
	return source, nil
}

func (sc *SourceCache) GetSources() map[string]*Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	sourcesCopy := make(map[string]*Source, len(sc.cache))
	for k, v := range sc.cache {
		sourcesCopy[k] = v
	}
	return sourcesCopy
}

func (sc *SourceCache) GetSourceCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.cache)
}

func (sc *SourceCache) parseSource(sourceFile string) (*Source, error) {
	data, err := os.ReadFile(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var source Source
	if err := yaml.Unmarshal(data, &source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if source.Type == "" {
		source.Type = SourceTypeHTML
	}
	if source.Limit == 0 {
		source.Limit = 10
	}
	if source.ExcerptLength == 0 {
		source.ExcerptLength = 500
	}
	if source.Timeout == 0 {
		source.Timeout = 10
	}

	return &source, nil
}

func (sc *SourceCache) validateSource(source *Source) error {
	if source == nil {
		return fmt.Errorf("source is nil")
	}

	requiredFields := map[string]string{
		"source name": source.Name,
		"source URL":  source.URL,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if source.Type != SourceTypeHTML && source.Type != SourceTypeRSS {
		return fmt.Errorf("invalid source type: %s", source.Type)
	}

	nonNegativeFields := map[string]int{
		"limit":          source.Limit,
		"excerpt length": source.ExcerptLength,
		"timeout":        source.Timeout,
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}

func (sc *SourceCache) getSourceFilePath(sourceName string) string {
	return filepath.Join(sc.sourcesDir, sourceName+".yml")
}
