package productindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
)

// ErrIncompatibleEmbeddingMapping indicates the existing index mapping is not suitable for vector search.
var ErrIncompatibleEmbeddingMapping = errors.New("embedding mapping incompatible with vector search requirements")

type IndexParams struct {
	IndexName        string
	EmbeddingDims    int
	NumberOfShards   int
	NumberOfReplicas int
}

type IndexInfo struct {
	Created        bool
	SupportsVector bool
	EmbeddingDims  int
}

// EnsureIndex creates the product index when missing and validates the embedding mapping.
func EnsureIndex(ctx context.Context, client *elasticsearch.Client, params IndexParams) (IndexInfo, error) {
	info := IndexInfo{EmbeddingDims: params.EmbeddingDims}

	if client == nil || strings.TrimSpace(params.IndexName) == "" {
		return info, fmt.Errorf("missing elasticsearch client or index name")
	}
	if params.EmbeddingDims <= 0 {
		return info, fmt.Errorf("invalid embedding dimension %d", params.EmbeddingDims)
	}

	shards := params.NumberOfShards
	if shards <= 0 {
		shards = 1
	}
	replicas := max(params.NumberOfReplicas, 0)

	existsRes, err := client.Indices.Exists(
		[]string{params.IndexName},
		client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return info, fmt.Errorf("check index existence: %w", err)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == http.StatusNotFound {
		body, err := buildIndexDefinition(params.EmbeddingDims, shards, replicas)
		if err != nil {
			return info, err
		}

		createRes, err := client.Indices.Create(
			params.IndexName,
			client.Indices.Create.WithContext(ctx),
			client.Indices.Create.WithBody(bytes.NewReader(body)),
		)
		if err != nil {
			return info, fmt.Errorf("create index: %w", err)
		}
		defer createRes.Body.Close()

		if createRes.IsError() {
			resp, _ := io.ReadAll(createRes.Body)
			return info, fmt.Errorf("create index status %s: %s", createRes.Status(), strings.TrimSpace(string(resp)))
		}

		info.Created = true
		info.SupportsVector = true
		return info, nil
	}

	if existsRes.IsError() {
		resp, _ := io.ReadAll(existsRes.Body)
		return info, fmt.Errorf("index existence status %s: %s", existsRes.Status(), strings.TrimSpace(string(resp)))
	}

	info.SupportsVector = mappingSupportsVector(ctx, client, params.IndexName, params.EmbeddingDims)
	if !info.SupportsVector {
		return info, ErrIncompatibleEmbeddingMapping
	}
	return info, nil
}

func textWithKeyword() map[string]any {
	return map[string]any{
		"type": "text",
		"fields": map[string]any{
			"keyword": map[string]any{
				"type":         "keyword",
				"ignore_above": 256,
			},
		},
	}
}

func buildIndexDefinition(dims, shards, replicas int) ([]byte, error) {
	definition := map[string]any{
		"settings": map[string]any{
			"number_of_shards":   shards,
			"number_of_replicas": replicas,
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"id":          map[string]any{"type": "keyword"},
				"name":        textWithKeyword(),
				"brand":       textWithKeyword(),
				"category":    textWithKeyword(),
				"subcategory": textWithKeyword(),
				"description": map[string]any{"type": "text"},
				"price":       map[string]any{"type": "double"},
				"rating":      map[string]any{"type": "float"},
				"image_url":   map[string]any{"type": "keyword", "index": false},
				"colors":      map[string]any{"type": "keyword"},
				"sizes":       map[string]any{"type": "keyword"},
				"gender":      map[string]any{"type": "keyword"},
				"tags":        map[string]any{"type": "keyword"},
				"in_stock":    map[string]any{"type": "boolean"},
				"updated_at": map[string]any{
					"type":   "date",
					"format": "strict_date_optional_time||epoch_millis",
				},
				"embedding": map[string]any{
					"type":       "dense_vector",
					"dims":       dims,
					"index":      true,
					"similarity": "cosine",
					"index_options": map[string]any{
						"type":            "hnsw",
						"m":               16,
						"ef_construction": 100,
					},
				},
			},
		},
	}

	payload, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("encode index definition: %w", err)
	}
	return payload, nil
}

func mappingSupportsVector(ctx context.Context, client *elasticsearch.Client, indexName string, expectedDims int) bool {
	res, err := client.Indices.GetMapping(
		client.Indices.GetMapping.WithContext(ctx),
		client.Indices.GetMapping.WithIndex(indexName),
	)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	if res.IsError() {
		return false
	}

	var mapping map[string]struct {
		Mappings struct {
			Properties map[string]struct {
				Type string `json:"type"`
				Dims int    `json:"dims"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	if err := json.NewDecoder(res.Body).Decode(&mapping); err != nil {
		return false
	}

	indexMapping, ok := mapping[indexName]
	if !ok {
		for _, v := range mapping {
			indexMapping = v
			ok = true
			break
		}
	}
	if !ok {
		return false
	}

	field, ok := indexMapping.Mappings.Properties["embedding"]
	if !ok || field.Type != "dense_vector" {
		return false
	}
	return expectedDims <= 0 || field.Dims == expectedDims
}
