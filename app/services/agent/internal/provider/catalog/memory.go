package catalog

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"TripShopper/app/common/productindex"

	"github.com/cloudwego/eino/components/embedding"
)

const defaultTopK = 10

// MemoryIndex searches an in-process catalog. With an embedder it ranks by
// cosine similarity, otherwise by keyword overlap.
type MemoryIndex struct {
	docs     []*productindex.Document
	embedder embedding.Embedder
}

// NewMemoryIndex embeds documents that carry no vector yet.
func NewMemoryIndex(ctx context.Context, docs []*productindex.Document, embedder embedding.Embedder) (*MemoryIndex, error) {
	idx := &MemoryIndex{docs: docs, embedder: embedder}
	if embedder == nil {
		return idx, nil
	}

	var missing []*productindex.Document
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			missing = append(missing, doc)
		}
	}
	if err := productindex.Embed(ctx, embedder, missing, 0); err != nil {
		return nil, err
	}
	return idx, nil
}

func (m *MemoryIndex) Len() int {
	return len(m.docs)
}

func (m *MemoryIndex) Search(ctx context.Context, q Query) ([]Scored, error) {
	topK := q.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	score, err := m.scorer(ctx, q.Text)
	if err != nil {
		return nil, err
	}

	out := make([]Scored, 0, len(m.docs))
	for _, doc := range m.docs {
		p := FromDocument(*doc)
		if !q.Filters.Match(p) {
			continue
		}
		out = append(out, Scored{Product: p, Score: score(doc)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return Before(out[i], out[j])
	})
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func (m *MemoryIndex) scorer(ctx context.Context, text string) (func(*productindex.Document) float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return func(*productindex.Document) float64 { return 0 }, nil
	}

	if m.embedder != nil {
		vectors, err := m.embedder.EmbedStrings(ctx, []string{text})
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		if len(vectors) == 0 || len(vectors[0]) == 0 {
			return nil, fmt.Errorf("embed query: empty vector")
		}
		query := vectors[0]
		return func(doc *productindex.Document) float64 {
			return cosine(query, doc.Embedding)
		}, nil
	}

	terms := tokenize(text)
	return func(doc *productindex.Document) float64 {
		if len(terms) == 0 {
			return 0
		}
		docTerms := make(map[string]struct{})
		for _, t := range tokenize(doc.EmbeddingText() + " " + strings.Join(doc.Tags, " ")) {
			docTerms[t] = struct{}{}
		}
		hits := 0
		for _, t := range terms {
			if _, ok := docTerms[t]; ok {
				hits++
			}
		}
		return float64(hits) / float64(len(terms))
	}, nil
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		f = singular(f)
		if len(f) < 2 {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
