package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"TripShopper/app/common/productindex"

	embeddingark "github.com/cloudwego/eino-ext/components/embedding/ark"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/elastic/go-elasticsearch/v8"
)

// Loads a JSON catalog into the Elasticsearch product index, embedding every
// product on the way.
// Usage:
//
//	go run ./tools/catalogimport \
//	  -es      "http://127.0.0.1:9200" \
//	  -catalog "app/services/agent/etc/catalog.json" \
//	  -model   "doubao-embedding-text-240715"
//
// The ark API key is read from ARK_API_KEY. Without a model the products are
// indexed for text search only.
func main() {
	addrs := flag.String("es", "http://127.0.0.1:9200", "comma separated Elasticsearch addresses")
	index := flag.String("index", productindex.DefaultIndexName, "product index name")
	catalogFile := flag.String("catalog", "app/services/agent/etc/catalog.json", "path to the catalog JSON file")
	baseURL := flag.String("base-url", "https://ark.cn-beijing.volces.com/api/v3", "embedding API base url")
	model := flag.String("model", "", "embedding model, empty disables embeddings")
	dims := flag.Int("dims", productindex.DefaultEmbeddingDimension, "embedding dimension of the index")
	batch := flag.Int("batch", 16, "products embedded per request")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	docs, err := productindex.LoadFile(*catalogFile)
	if err != nil {
		log.Fatalf("load catalog: %v", err)
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: strings.Split(*addrs, ",")})
	if err != nil {
		log.Fatalf("new elasticsearch client: %v", err)
	}

	info, err := productindex.EnsureIndex(ctx, client, productindex.IndexParams{IndexName: *index, EmbeddingDims: *dims})
	if err != nil {
		log.Fatalf("ensure index: %v", err)
	}

	var embedder embedding.Embedder
	if *model != "" {
		emb, err := embeddingark.NewEmbedder(ctx, &embeddingark.EmbeddingConfig{
			BaseURL: *baseURL,
			APIKey:  os.Getenv("ARK_API_KEY"),
			Model:   *model,
		})
		if err != nil {
			log.Fatalf("new embedder: %v", err)
		}
		embedder = emb
	}

	size := max(*batch, 1)
	indexed, failed := 0, 0
	for start := 0; start < len(docs); start += size {
		chunk := docs[start:min(start+size, len(docs))]
		if err := productindex.Embed(ctx, embedder, chunk, *dims); err != nil {
			log.Fatalf("embed products %d-%d: %v", start, start+len(chunk)-1, err)
		}
		for _, doc := range chunk {
			if err := productindex.Upsert(ctx, client, *index, *doc); err != nil {
				log.Printf("upsert %s: %v", doc.ID, err)
				failed++
				continue
			}
			indexed++
		}
	}

	fmt.Printf("Indexed %d products into %s (created=%t, vector=%t, failed=%d).\n",
		indexed, *index, info.Created, info.SupportsVector, failed)
}
