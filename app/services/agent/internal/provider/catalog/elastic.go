package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"TripShopper/app/common/productindex"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/elastic/go-elasticsearch/v8"
)

type ElasticConf struct {
	Addresses     []string `json:",optional"`
	Username      string   `json:",optional"`
	Password      string   `json:",optional"`
	Index         string   `json:",default=products"`
	EmbeddingDims int      `json:",default=2048"`
	NumCandidates int      `json:",default=100"`
}

// ElasticIndex runs knn search over the products index when an embedder is
// configured and falls back to multi_match text search otherwise.
type ElasticIndex struct {
	client        *elasticsearch.Client
	index         string
	embedder      embedding.Embedder
	numCandidates int
}

func NewElasticIndex(client *elasticsearch.Client, c ElasticConf, embedder embedding.Embedder) *ElasticIndex {
	idx := &ElasticIndex{
		client:        client,
		index:         c.Index,
		embedder:      embedder,
		numCandidates: c.NumCandidates,
	}
	if idx.index == "" {
		idx.index = productindex.DefaultIndexName
	}
	if idx.numCandidates <= 0 {
		idx.numCandidates = 100
	}
	return idx
}

func (e *ElasticIndex) Search(ctx context.Context, q Query) ([]Scored, error) {
	if e.client == nil {
		return nil, fmt.Errorf("elasticsearch client is nil")
	}
	topK := q.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	body, err := e.buildRequest(ctx, q, topK)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode search request: %w", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search call: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		respBody, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es search status %s: %s", res.Status(), strings.TrimSpace(string(respBody)))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string                `json:"_id"`
				Score  float64               `json:"_score"`
				Source productindex.Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]Scored, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		p := FromDocument(hit.Source)
		if p.ID == "" {
			p.ID = hit.ID
		}
		out = append(out, Scored{Product: p, Score: hit.Score})
	}
	return out, nil
}

func (e *ElasticIndex) buildRequest(ctx context.Context, q Query, topK int) (map[string]any, error) {
	filters := filterClauses(q.Filters)
	text := strings.TrimSpace(q.Text)

	req := map[string]any{
		"size":    topK,
		"_source": map[string]any{"excludes": []string{"embedding"}},
	}

	if e.embedder != nil && text != "" {
		vectors, err := e.embedder.EmbedStrings(ctx, []string{text})
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			return nil, fmt.Errorf("embed query: empty vector")
		}
		knn := map[string]any{
			"field":          "embedding",
			"query_vector":   vectors[0],
			"k":              topK,
			"num_candidates": max(e.numCandidates, topK),
		}
		if len(filters) > 0 {
			knn["filter"] = map[string]any{"bool": map[string]any{"filter": filters}}
		}
		req["knn"] = knn
		return req, nil
	}

	boolQuery := map[string]any{}
	if text != "" {
		boolQuery["must"] = []any{map[string]any{
			"multi_match": map[string]any{
				"query":  text,
				"fields": []string{"name^3", "subcategory^2", "category^2", "tags", "brand", "description"},
			},
		}}
	} else {
		boolQuery["must"] = []any{map[string]any{"match_all": map[string]any{}}}
	}
	if len(filters) > 0 {
		boolQuery["filter"] = filters
	}
	req["query"] = map[string]any{"bool": boolQuery}
	return req, nil
}

func filterClauses(f Filters) []any {
	var clauses []any

	priceRange := map[string]any{}
	if f.MaxPrice > 0 {
		priceRange["lte"] = f.MaxPrice
	}
	if f.MinPrice > 0 {
		priceRange["gte"] = f.MinPrice
	}
	if len(priceRange) > 0 {
		clauses = append(clauses, map[string]any{"range": map[string]any{"price": priceRange}})
	}

	if c := strings.TrimSpace(f.Category); c != "" {
		clauses = append(clauses, map[string]any{"bool": map[string]any{
			"should": []any{
				map[string]any{"match": map[string]any{"category": map[string]any{"query": c, "fuzziness": "AUTO"}}},
				map[string]any{"match": map[string]any{"subcategory": map[string]any{"query": c, "fuzziness": "AUTO"}}},
			},
			"minimum_should_match": 1,
		}})
	}

	if b := strings.TrimSpace(f.Brand); b != "" {
		clauses = append(clauses, map[string]any{"match": map[string]any{"brand": b}})
	}

	if g := strings.ToLower(strings.TrimSpace(f.Gender)); g != "" && g != "unisex" {
		clauses = append(clauses, map[string]any{"terms": map[string]any{"gender": []string{g, "unisex"}}})
	}

	if s := strings.TrimSpace(f.Size); s != "" {
		clauses = append(clauses, map[string]any{"term": map[string]any{"sizes": strings.ToUpper(s)}})
	}

	if f.InStockOnly {
		clauses = append(clauses, map[string]any{"term": map[string]any{"in_stock": true}})
	}
	return clauses
}
