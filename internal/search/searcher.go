package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/mvp-joe/tagscan/internal/model"
)

// Searcher answers queries over an index snapshot using an in-memory
// bleve full-text index. Every tag becomes one searchable document.
type Searcher struct {
	index bleve.Index
}

// Result is one matching tag.
type Result struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Language  string  `json:"language"`
	FilePath  string  `json:"filePath"`
	StartLine int     `json:"startLine"`
	EndLine   int     `json:"endLine"`
	Score     float64 `json:"score"`
}

type tagDoc struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Language  string `json:"language"`
	FilePath  string `json:"filePath"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// NewSearcher builds a searcher over the given index entries.
func NewSearcher(entries []model.FileEntry) (*Searcher, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	batch := idx.NewBatch()
	for _, entry := range entries {
		for _, tag := range entry.Tags {
			id := fmt.Sprintf("%s:%d:%s", entry.FilePath, tag.StartLine, tag.Name)
			doc := tagDoc{
				Name:      tag.Name,
				Kind:      string(tag.Kind),
				Language:  entry.Language,
				FilePath:  entry.FilePath,
				StartLine: tag.StartLine,
				EndLine:   tag.EndLine,
			}
			if err := batch.Index(id, doc); err != nil {
				idx.Close()
				return nil, fmt.Errorf("failed to index tag %s: %w", id, err)
			}
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("failed to build search index: %w", err)
	}

	return &Searcher{index: idx}, nil
}

// buildMapping indexes tag names and paths with the standard analyzer
// and kind/language as exact keywords, so "kind:function foo" works as
// a query.
func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = "standard"
	nameMapping.Store = true

	keywordMapping := bleve.NewTextFieldMapping()
	keywordMapping.Analyzer = "keyword"
	keywordMapping.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("name", nameMapping)
	docMapping.AddFieldMappingsAt("filePath", nameMapping)
	docMapping.AddFieldMappingsAt("kind", keywordMapping)
	docMapping.AddFieldMappingsAt("language", keywordMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Search runs a bleve query string against the tag documents and
// returns up to limit results, best score first.
func (s *Searcher) Search(ctx context.Context, queryStr string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	query := bleve.NewQueryStringQuery(queryStr)
	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Fields = []string{"name", "kind", "language", "filePath", "startLine", "endLine"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r := Result{Score: hit.Score}
		if v, ok := hit.Fields["name"].(string); ok {
			r.Name = v
		}
		if v, ok := hit.Fields["kind"].(string); ok {
			r.Kind = v
		}
		if v, ok := hit.Fields["language"].(string); ok {
			r.Language = v
		}
		if v, ok := hit.Fields["filePath"].(string); ok {
			r.FilePath = v
		}
		if v, ok := hit.Fields["startLine"].(float64); ok {
			r.StartLine = int(v)
		}
		if v, ok := hit.Fields["endLine"].(float64); ok {
			r.EndLine = int(v)
		}
		results = append(results, r)
	}
	return results, nil
}

// Close releases the in-memory index.
func (s *Searcher) Close() error {
	return s.index.Close()
}
