package mq

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"TripShopper/app/common/productindex"
	"TripShopper/app/services/indexer/internal/svc"

	"github.com/segmentio/kafka-go"
	"github.com/zeromicro/go-zero/core/logx"
)

func StartCanalProductConsumer(ctx context.Context, sc *svc.ServiceContext) error {
	if len(sc.Config.KafkaConf.Brokers) == 0 || sc.Config.KafkaConf.ProductsTopic == "" || sc.Config.KafkaConf.Group == "" {
		logx.Infow("skip product consumer, kafka config missing")
		return nil
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     sc.Config.KafkaConf.Brokers,
		GroupID:     sc.Config.KafkaConf.Group,
		Topic:       sc.Config.KafkaConf.ProductsTopic,
		MinBytes:    1,
		MaxBytes:    10 << 20,
		MaxWait:     50 * time.Millisecond,
		StartOffset: kafka.FirstOffset,
	})
	defer r.Close()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logx.Errorw("fetch product message failed", logx.Field("err", err))
			continue
		}

		var evt CanalMessageProducts
		if err := json.Unmarshal(m.Value, &evt); err != nil {
			logx.Errorw("unmarshal product message failed", logx.Field("err", err))
		} else {
			handleCanalProductMessage(ctx, sc, evt)
		}

		if err := r.CommitMessages(ctx, m); err != nil {
			logx.Errorw("commit product message failed", logx.Field("err", err))
		}
	}
}

// handleCanalProductMessage mirrors one binlog event into the index. Rows of
// an insert or update are embedded in one batch; a failed embedding still
// indexes the rows for text search.
func handleCanalProductMessage(ctx context.Context, sc *svc.ServiceContext, message CanalMessageProducts) {
	if sc.ESClient == nil {
		logx.Infow("skip product message, elasticsearch client unavailable")
		return
	}
	if message.IsDdl || len(message.Data) == 0 {
		return
	}

	indexName := sc.ProductIndexName()
	if strings.EqualFold(message.Type, "DELETE") {
		for _, row := range message.Data {
			id := strings.TrimSpace(row.ID)
			if id == "" {
				continue
			}
			if err := productindex.Delete(ctx, sc.ESClient, indexName, id); err != nil {
				logx.Errorw("delete product document failed", logx.Field("id", id), logx.Field("err", err))
			}
		}
		return
	}

	docs := make([]*productindex.Document, 0, len(message.Data))
	for _, row := range message.Data {
		doc, err := row.ToDocument()
		if err != nil {
			logx.Errorw("skip malformed product row", logx.Field("id", row.ID), logx.Field("err", err))
			continue
		}
		docs = append(docs, doc)
	}

	start := time.Now()
	if err := productindex.Embed(ctx, sc.Embedder, docs, sc.EmbeddingDimension()); err != nil {
		logx.Errorw("compute product embeddings failed", logx.Field("rows", len(docs)), logx.Field("err", err))
	} else if sc.Embedder != nil {
		logx.Infof("embedded %d products, took %s", len(docs), time.Since(start))
	}

	for _, doc := range docs {
		if err := productindex.Upsert(ctx, sc.ESClient, indexName, *doc); err != nil {
			logx.Errorw("upsert product document failed", logx.Field("id", doc.ID), logx.Field("err", err))
		}
	}
}

func normalizeProductTimestamp(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		var (
			parsed time.Time
			err    error
		)
		if strings.Contains(layout, "T") {
			parsed, err = time.Parse(layout, raw)
		} else {
			parsed, err = time.ParseInLocation(layout, raw, time.UTC)
		}
		if err == nil {
			return parsed.UTC().Format(time.RFC3339)
		}
	}

	if !strings.Contains(raw, "T") && strings.Contains(raw, " ") {
		return strings.Replace(raw, " ", "T", 1)
	}
	return raw
}
