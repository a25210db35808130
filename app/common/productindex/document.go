package productindex

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
)

const (
	DefaultIndexName          = "products"
	DefaultEmbeddingDimension = 2048
)

// Document is the product shape stored in the search index and in catalog
// seed files.
type Document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Rating      float64   `json:"rating,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Colors      []string  `json:"colors,omitempty"`
	Sizes       []string  `json:"sizes,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	InStock     bool      `json:"in_stock"`
	Embedding   []float64 `json:"embedding,omitempty"`
	UpdatedAt   string    `json:"updated_at,omitempty"`
}

// EmbeddingText is the text a product is embedded from.
func (d Document) EmbeddingText() string {
	var sb strings.Builder
	sb.WriteString("Product: ")
	sb.WriteString(d.Name)
	if d.Category != "" {
		sb.WriteString("\nCategory: ")
		sb.WriteString(d.Category)
		if d.Subcategory != "" {
			sb.WriteString(" - ")
			sb.WriteString(d.Subcategory)
		}
	}
	if d.Description != "" {
		sb.WriteString("\nDescription: ")
		sb.WriteString(d.Description)
	}
	if d.Brand != "" {
		sb.WriteString("\nBrand: ")
		sb.WriteString(d.Brand)
	}
	if d.Price > 0 {
		sb.WriteString("\nPrice: $")
		sb.WriteString(strconv.FormatFloat(d.Price, 'f', 2, 64))
	}
	if len(d.Colors) > 0 {
		sb.WriteString("\nColors: ")
		sb.WriteString(strings.Join(d.Colors, ", "))
	}
	if len(d.Tags) > 0 {
		sb.WriteString("\nTags: ")
		sb.WriteString(strings.Join(d.Tags, ", "))
	}
	return sb.String()
}

// Embed fills the embedding of every document in one batch call. A non-zero
// dims rejects vectors of another size.
func Embed(ctx context.Context, embedder embedding.Embedder, docs []*Document, dims int) error {
	if embedder == nil || len(docs) == 0 {
		return nil
	}

	texts := make([]string, 0, len(docs))
	for _, doc := range docs {
		texts = append(texts, doc.EmbeddingText())
	}

	vectors, err := embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed products: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedding count mismatch, expect %d got %d", len(docs), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) == 0 {
			return fmt.Errorf("empty embedding for product %s", docs[i].ID)
		}
		if dims > 0 && len(vec) != dims {
			return fmt.Errorf("embedding dimension mismatch, expect %d got %d", dims, len(vec))
		}
		docs[i].Embedding = vec
	}
	return nil
}

// LoadFile reads a JSON array of documents, the catalog seed format.
func LoadFile(path string) ([]*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	var docs []*Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return docs, nil
}
