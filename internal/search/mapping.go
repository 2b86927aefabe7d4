package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// mappingVersion must be bumped whenever buildIndexMapping changes. A
// mismatch on startup drops the index so it is rebuilt from the database.
const mappingVersion = "1"

func textField(analyzer string, store, vectors bool) *mapping.FieldMapping {
	f := bleve.NewTextFieldMapping()
	f.Analyzer = analyzer
	f.Store = store
	f.IncludeTermVectors = vectors
	return f
}

// buildIndexMapping creates the mapping shared by all document types:
// stemmed English text for titles and prose, simple analysis for short
// labels like genre and medium, keywords for ids, types and tags.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	doc := bleve.NewDocumentMapping()

	doc.AddFieldMappingsAt("name", textField(en.AnalyzerName, true, true))
	doc.AddFieldMappingsAt("author", textField(en.AnalyzerName, true, true))
	doc.AddFieldMappingsAt("series_name", textField(en.AnalyzerName, true, true))
	doc.AddFieldMappingsAt("description", textField(en.AnalyzerName, false, false))

	doc.AddFieldMappingsAt("genre", textField(simple.Name, true, false))
	doc.AddFieldMappingsAt("medium", textField(simple.Name, true, false))

	doc.AddFieldMappingsAt("id", textField(keyword.Name, false, false))
	doc.AddFieldMappingsAt("type", textField(keyword.Name, true, false))
	doc.AddFieldMappingsAt("status", textField(keyword.Name, true, false))
	doc.AddFieldMappingsAt("tags", textField(keyword.Name, true, true))

	// Stored for display only.
	image := bleve.NewTextFieldMapping()
	image.Index = false
	image.Store = true
	doc.AddFieldMappingsAt("image_url", image)

	created := bleve.NewNumericFieldMapping()
	created.Store = true
	doc.AddFieldMappingsAt("created_at", created)

	indexMapping.AddDocumentMapping("_default", doc)
	return indexMapping
}
