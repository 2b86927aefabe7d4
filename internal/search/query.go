package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Query limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params configures a search.
type Params struct {
	Query  string
	Types  []DocType // empty means all
	Limit  int
	Offset int
}

// Result is a page of search hits.
type Result struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"tookMs"`
	Hits   []Hit        `json:"hits"`
	Facets []FacetCount `json:"facets,omitempty"`
}

// Hit is a single search result.
type Hit struct {
	ID         string            `json:"id"`
	Type       DocType           `json:"type"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author,omitempty"`
	SeriesName string            `json:"seriesName,omitempty"`
	Genre      string            `json:"genre,omitempty"`
	Status     string            `json:"status,omitempty"`
	Medium     string            `json:"medium,omitempty"`
	ImageURL   string            `json:"imageUrl,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// FacetCount is the number of hits of one document type.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// normalize clamps limit and offset.
func (p Params) normalize() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	p.Limit = min(p.Limit, MaxLimit)
	p.Offset = max(p.Offset, 0)
	p.Query = strings.TrimSpace(p.Query)
	return p
}

// Search runs a query. An empty query with no type filter matches everything,
// newest first.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	params = params.normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	if params.Query == "" {
		req.SortBy([]string{"-created_at"})
	} else {
		req.SortBy([]string{"-_score", "-created_at"})
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("name")
		req.Highlight.AddField("author")
		req.Highlight.AddField("series_name")
	}
	req.AddFacet("type", bleve.NewFacetRequest("type", 3))
	req.Fields = []string{"type", "name", "author", "series_name", "genre", "status", "medium", "image_url"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, h := range res.Hits {
		hit := Hit{
			ID:         h.ID,
			Score:      h.Score,
			Type:       DocType(stringField(h.Fields, "type")),
			Title:      stringField(h.Fields, "name"),
			Author:     stringField(h.Fields, "author"),
			SeriesName: stringField(h.Fields, "series_name"),
			Genre:      stringField(h.Fields, "genre"),
			Status:     stringField(h.Fields, "status"),
			Medium:     stringField(h.Fields, "medium"),
			ImageURL:   stringField(h.Fields, "image_url"),
		}
		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		out.Hits = append(out.Hits, hit)
	}

	if facet, ok := res.Facets["type"]; ok && facet.Terms != nil {
		for _, term := range facet.Terms.Terms() {
			out.Facets = append(out.Facets, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return out, nil
}

func stringField(fields map[string]any, name string) string {
	v, _ := fields[name].(string)
	return v
}

func fieldMatch(text, field string, boost float64) query.Query {
	q := bleve.NewMatchQuery(text)
	q.SetField(field)
	q.SetBoost(boost)
	return q
}

// buildQuery ORs the text clauses across every searchable field and ANDs
// the result with the type filter.
func buildQuery(params Params) query.Query {
	var clauses []query.Query

	if params.Query != "" {
		text := []query.Query{
			fieldMatch(params.Query, "name", 3.0),
			fieldMatch(params.Query, "author", 2.0),
			fieldMatch(params.Query, "series_name", 1.5),
			fieldMatch(params.Query, "genre", 1.0),
			fieldMatch(params.Query, "medium", 1.0),
			fieldMatch(params.Query, "description", 0.5),
		}

		tag := bleve.NewTermQuery(strings.ToLower(params.Query))
		tag.SetField("tags")
		text = append(text, tag)

		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(params.Query))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("name")
		fuzzy.SetBoost(0.8)
		text = append(text, fuzzy)

		if len(params.Query) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefix.SetField("name")
			prefix.SetBoost(0.5)
			text = append(text, prefix)
		}

		clauses = append(clauses, bleve.NewDisjunctionQuery(text...))
	}

	if len(params.Types) > 0 {
		types := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(string(t))
			tq.SetField("type")
			types[i] = tq
		}
		clauses = append(clauses, bleve.NewDisjunctionQuery(types...))
	}

	switch len(clauses) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return clauses[0]
	default:
		return bleve.NewConjunctionQuery(clauses...)
	}
}
