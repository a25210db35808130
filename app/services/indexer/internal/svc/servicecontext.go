package svc

import (
	"context"
	"strings"

	"TripShopper/app/common/productindex"
	"TripShopper/app/services/indexer/internal/config"

	embeddingark "github.com/cloudwego/eino-ext/components/embedding/ark"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/zeromicro/go-zero/core/logx"
)

type ServiceContext struct {
	Config   config.Config
	ESClient *elasticsearch.Client
	Embedder embedding.Embedder
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.LogConf)

	sc := &ServiceContext{Config: c}
	if len(c.ElasticConf.Addresses) > 0 {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: c.ElasticConf.Addresses,
			Username:  c.ElasticConf.Username,
			Password:  c.ElasticConf.Password,
		})
		if err != nil {
			logx.Errorw("init elasticsearch client failed", logx.Field("err", err))
		} else {
			sc.ESClient = client
			logx.Infow("elasticsearch client initialized", logx.Field("addresses", c.ElasticConf.Addresses))
		}
	} else {
		logx.Infow("elasticsearch client disabled, no addresses configured")
	}

	if c.Embedding.Model != "" && c.Embedding.APIKey != "" {
		emb, err := embeddingark.NewEmbedder(context.Background(), &embeddingark.EmbeddingConfig{
			BaseURL: c.Embedding.BaseURL,
			APIKey:  c.Embedding.APIKey,
			Model:   c.Embedding.Model,
		})
		if err != nil {
			logx.Errorw("init embedding model failed", logx.Field("err", err))
		} else {
			sc.Embedder = emb
			logx.Infow("embedding model initialized", logx.Field("model", c.Embedding.Model))
		}
	} else {
		logx.Infow("embedding client disabled, missing model or api key")
	}

	return sc
}

func (s *ServiceContext) ProductIndexName() string {
	if idx := strings.TrimSpace(s.Config.ElasticConf.IndexName); idx != "" {
		return idx
	}
	return productindex.DefaultIndexName
}

func (s *ServiceContext) EmbeddingDimension() int {
	if s.Config.ElasticConf.EmbeddingDimension > 0 {
		return s.Config.ElasticConf.EmbeddingDimension
	}
	return productindex.DefaultEmbeddingDimension
}

// EnsureIndex creates the product index on startup. A nil client is a no-op.
func (s *ServiceContext) EnsureIndex(ctx context.Context) error {
	if s.ESClient == nil {
		return nil
	}
	info, err := productindex.EnsureIndex(ctx, s.ESClient, productindex.IndexParams{
		IndexName:        s.ProductIndexName(),
		EmbeddingDims:    s.EmbeddingDimension(),
		NumberOfShards:   s.Config.ElasticConf.NumberOfShards,
		NumberOfReplicas: s.Config.ElasticConf.NumberOfReplicas,
	})
	if err != nil {
		return err
	}
	logx.Infow("product index ready",
		logx.Field("index", s.ProductIndexName()),
		logx.Field("created", info.Created),
		logx.Field("vector", info.SupportsVector),
	)
	return nil
}
