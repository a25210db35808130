package productindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// Upsert writes doc under its id, creating it when missing.
func Upsert(ctx context.Context, client *elasticsearch.Client, indexName string, doc Document) error {
	if strings.TrimSpace(doc.ID) == "" {
		return fmt.Errorf("product document without id")
	}
	if doc.UpdatedAt == "" {
		doc.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	body, err := json.Marshal(map[string]any{
		"doc":           doc,
		"doc_as_upsert": true,
	})
	if err != nil {
		return fmt.Errorf("encode product document: %w", err)
	}

	res, err := client.Update(indexName, doc.ID, bytes.NewReader(body), client.Update.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es update call: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		respBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es update status %s: %s", res.Status(), strings.TrimSpace(string(respBody)))
	}
	return nil
}

func Delete(ctx context.Context, client *elasticsearch.Client, indexName, id string) error {
	res, err := client.Delete(indexName, id, client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es delete call: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		respBody, _ := io.ReadAll(res.Body)
		return fmt.Errorf("es delete status %s: %s", res.Status(), strings.TrimSpace(string(respBody)))
	}
	return nil
}
