package mq

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"TripShopper/app/services/indexer/internal/config"
	"TripShopper/app/services/indexer/internal/svc"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type esCall struct {
	Method string
	Path   string
	Body   string
}

type esRecorder struct {
	mu    sync.Mutex
	calls []esCall
}

func (r *esRecorder) snapshot() []esCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]esCall(nil), r.calls...)
}

func newServiceContext(t *testing.T, embedder embedding.Embedder) (*svc.ServiceContext, *esRecorder) {
	t.Helper()
	rec := &esRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.calls = append(rec.calls, esCall{Method: r.Method, Path: r.URL.Path, Body: string(body)})
		rec.mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"updated"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	return &svc.ServiceContext{
		Config:   config.Config{ElasticConf: config.ElasticConf{IndexName: "products", EmbeddingDimension: 3}},
		ESClient: client,
		Embedder: embedder,
	}, rec
}

type stubEmbedder struct {
	err   error
	texts []string
}

func (s *stubEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.texts = append(s.texts, texts...)
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = []float64{0.1, 0.2, float64(i)}
	}
	return out, nil
}

func parkaRow() ProductRow {
	return ProductRow{
		ID:          "p-1001",
		Name:        "Alpine Down Parka",
		Brand:       "Northpeak",
		Category:    "Jackets",
		Price:       "289.00",
		Rating:      "4.70",
		Colors:      `["black", "olive"]`,
		Sizes:       `["S","M","L"]`,
		Gender:      "Unisex",
		Tags:        `["warm","winter"]`,
		InStock:     "1",
		Description: "Insulated down parka.",
		UpdatedAt:   "2026-05-01 10:00:00",
	}
}

func TestProductRowToDocument(t *testing.T) {
	doc, err := parkaRow().ToDocument()
	require.NoError(t, err)
	assert.Equal(t, "p-1001", doc.ID)
	assert.Equal(t, "jackets", doc.Category)
	assert.Equal(t, "unisex", doc.Gender)
	assert.InDelta(t, 289.0, doc.Price, 1e-9)
	assert.InDelta(t, 4.7, doc.Rating, 1e-9)
	assert.Equal(t, []string{"black", "olive"}, doc.Colors)
	assert.True(t, doc.InStock)
	assert.Equal(t, "2026-05-01T10:00:00Z", doc.UpdatedAt)

	row := parkaRow()
	row.InStock = "0"
	row.Sizes = ""
	doc, err = row.ToDocument()
	require.NoError(t, err)
	assert.False(t, doc.InStock)
	assert.Nil(t, doc.Sizes)

	row = parkaRow()
	row.Price = "n/a"
	_, err = row.ToDocument()
	assert.Error(t, err)

	_, err = ProductRow{Name: "nameless"}.ToDocument()
	assert.Error(t, err)
}

func TestHandleInsertEmbedsAndUpserts(t *testing.T) {
	emb := &stubEmbedder{}
	sc, rec := newServiceContext(t, emb)

	bad := parkaRow()
	bad.ID = "p-bad"
	bad.Colors = "{not a list"
	second := parkaRow()
	second.ID = "p-1002"
	second.Name = "Storm Shell Rain Jacket"

	handleCanalProductMessage(context.Background(), sc, CanalMessageProducts{
		Type:  "INSERT",
		Table: "products",
		Data:  []ProductRow{parkaRow(), bad, second},
	})

	require.Len(t, emb.texts, 2)
	calls := rec.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/products/_update/p-1001", calls[0].Path)
	assert.Equal(t, "/products/_update/p-1002", calls[1].Path)

	var payload struct {
		Doc struct {
			Name      string    `json:"name"`
			Embedding []float64 `json:"embedding"`
		} `json:"doc"`
		DocAsUpsert bool `json:"doc_as_upsert"`
	}
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &payload))
	assert.True(t, payload.DocAsUpsert)
	assert.Equal(t, "Alpine Down Parka", payload.Doc.Name)
	assert.Len(t, payload.Doc.Embedding, 3)
}

func TestHandleUpdateWithoutEmbeddingStillIndexes(t *testing.T) {
	sc, rec := newServiceContext(t, &stubEmbedder{err: errors.New("quota exceeded")})

	handleCanalProductMessage(context.Background(), sc, CanalMessageProducts{Type: "UPDATE", Data: []ProductRow{parkaRow()}})

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.NotContains(t, calls[0].Body, "embedding")
}

func TestHandleDelete(t *testing.T) {
	sc, rec := newServiceContext(t, nil)

	handleCanalProductMessage(context.Background(), sc, CanalMessageProducts{Type: "DELETE", Data: []ProductRow{{ID: "p-1001"}, {ID: " "}}})

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/products/_doc/p-1001", calls[0].Path)
}

func TestHandleSkipsDDL(t *testing.T) {
	sc, rec := newServiceContext(t, nil)
	handleCanalProductMessage(context.Background(), sc, CanalMessageProducts{Type: "ALTER", IsDdl: true, Data: []ProductRow{parkaRow()}})
	assert.Empty(t, rec.snapshot())
}
