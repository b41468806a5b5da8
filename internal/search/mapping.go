package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping maps track documents. Names use the standard analyzer (no
// stemming, song titles are not prose); quality and platform are exact keywords.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	text := func(field string, store bool) {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = store
		docMapping.AddFieldMappingsAt(field, fm)
	}
	text("title", true)
	text("era", true)
	text("raw_name", false)
	text("alternate_names", false)
	text("features", false)
	text("producers", false)
	text("collaborators", false)
	text("notes", false)

	kw := func(field string) {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		docMapping.AddFieldMappingsAt(field, fm)
	}
	kw("quality")
	kw("special")

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
