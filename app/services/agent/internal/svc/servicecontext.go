package svc

import (
	"context"
	"strings"
	"time"

	"TripShopper/app/common/consts/biz"
	"TripShopper/app/common/productindex"
	"TripShopper/app/common/snowflake"
	"TripShopper/app/dal/conversation"
	"TripShopper/app/dal/customer"
	"TripShopper/app/services/agent/internal/agent/clarify"
	"TripShopper/app/services/agent/internal/agent/contextagg"
	"TripShopper/app/services/agent/internal/agent/intent"
	"TripShopper/app/services/agent/internal/agent/orchestrator"
	"TripShopper/app/services/agent/internal/agent/recommend"
	"TripShopper/app/services/agent/internal/agent/session"
	"TripShopper/app/services/agent/internal/config"
	"TripShopper/app/services/agent/internal/mq"
	"TripShopper/app/services/agent/internal/provider/catalog"
	"TripShopper/app/services/agent/internal/provider/environment"
	"TripShopper/app/services/agent/internal/provider/profile"

	embeddingark "github.com/cloudwego/eino-ext/components/embedding/ark"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/hibiken/asynq"
	"github.com/segmentio/kafka-go"
	"github.com/zeromicro/go-zero/core/bloom"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/core/threading"
)

type ServiceContext struct {
	Config config.Config

	Orchestrator *orchestrator.Orchestrator

	// Turns is nil when no MySQL is configured.
	Turns       conversation.ConversationTurnsModel
	AsynqClient *asynq.Client
	TraceWriter *kafka.Writer
}

func NewServiceContext(c config.Config) *ServiceContext {
	logx.MustSetup(c.LogConf)
	ctx := context.Background()

	if c.SnowflakeNode > 0 {
		if err := snowflake.SetNodeID(c.SnowflakeNode); err != nil {
			logx.Errorf("failed to set snowflake node id: %v", err)
		}
	}

	sc := &ServiceContext{Config: c}

	chatModel := newChatModel(ctx, c.ChatModel)
	embedder := newEmbedder(ctx, c.Embedding)

	var rds *redis.Redis
	if c.RedisConf.Host != "" {
		rds = redis.MustNewRedis(c.RedisConf)
	}

	deps := orchestrator.Deps{
		StoreTimeout: millis(c.Timeouts.Store),
	}

	if rds != nil {
		ttl := time.Duration(c.SessionTTLHours) * time.Hour
		if ttl <= 0 {
			ttl = biz.SessionTTL
		}
		deps.Sessions = session.NewRedisStore(rds, ttl)
		deps.Locker = orchestrator.NewRedisLocker(rds, millis(c.Timeouts.LLM)*3)
	} else {
		logx.Infow("redis disabled, sessions kept in memory")
		deps.Sessions = session.NewMemoryStore()
		deps.Locker = orchestrator.NewLocalLocker()
	}

	deps.Profiles = sc.newProfileStore(c, rds)

	env, err := newEnvironment(c)
	if err != nil {
		logx.Must(err)
	}

	if chatModel != nil {
		extractor, err := intent.NewExtractor(ctx, chatModel, intent.WithTimeout(millis(c.Timeouts.LLM)))
		if err != nil {
			logx.Errorw("init intent extractor failed", logx.Field("err", err))
		} else {
			deps.Extractor = extractor
		}
	} else {
		logx.Infow("chat model disabled, intent extraction will degrade")
	}

	deps.Clarifier = clarify.New(chatModel, millis(c.Timeouts.LLM))
	deps.Aggregator = contextagg.NewAggregator(deps.Profiles, env,
		contextagg.WithTimeouts(millis(c.Timeouts.Profile), millis(c.Timeouts.Environment)))
	deps.Recommender = recommend.New(newCatalogIndex(ctx, c, embedder), chatModel,
		recommend.WithLimit(c.MaxRecommendations),
		recommend.WithTimeouts(millis(c.Timeouts.Index), millis(c.Timeouts.LLM)))

	if addr := asynqAddr(c); addr != "" && sc.Turns != nil {
		sc.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: addr})
		deps.Archiver = mq.NewArchiveEnqueuer(sc.AsynqClient, mq.ArchiveQueue)
	}

	if len(c.KafkaConf.Brokers) > 0 && c.KafkaConf.TraceTopic != "" {
		sc.TraceWriter = mq.NewTraceWriter(c.KafkaConf.Brokers, c.KafkaConf.TraceTopic)
		deps.Tracer = mq.NewTracePublisher(sc.TraceWriter)
	}

	sc.Orchestrator, err = orchestrator.New(deps)
	logx.Must(err)
	return sc
}

func (s *ServiceContext) Close() {
	if s.AsynqClient != nil {
		if err := s.AsynqClient.Close(); err != nil {
			logx.Errorw("close asynq client failed", logx.Field("err", err))
		}
	}
	if s.TraceWriter != nil {
		if err := s.TraceWriter.Close(); err != nil {
			logx.Errorw("close trace writer failed", logx.Field("err", err))
		}
	}
}

func (s *ServiceContext) newProfileStore(c config.Config, rds *redis.Redis) profile.Store {
	if c.MysqlConf.DataSource == "" {
		logx.Infow("mysql disabled, every shopper is treated as anonymous")
		return profile.NewMemoryStore()
	}

	conn := sqlx.NewMysql(c.MysqlConf.DataSource)
	s.Turns = conversation.NewConversationTurnsModel(conn)

	var filter *bloom.Filter
	if rds != nil {
		filter = bloom.New(rds, biz.CustomerBloomKey, biz.CustomerBloomBits)
	}
	store := profile.NewMysqlStore(
		customer.NewCustomersModel(conn, c.CacheConf),
		customer.NewPurchaseHistoryModel(conn, c.CacheConf),
		filter,
	)
	if filter != nil {
		// new customers reach the filter on their first lookup or on the
		// next refresh
		threading.GoSafe(func() {
			ticker := time.NewTicker(biz.CustomerBloomRefresh)
			defer ticker.Stop()
			for {
				if err := store.Preheat(context.Background()); err != nil {
					logx.Errorw("preheat customer bloom failed", logx.Field("err", err))
				}
				<-ticker.C
			}
		})
	}
	return store
}

func newEnvironment(c config.Config) (environment.Provider, error) {
	trends := environment.NewStaticTrends(c.Trends)

	var events environment.EventSource
	if c.Ticketmaster.APIKey != "" {
		events = environment.NewTicketmaster(c.Ticketmaster)
	}

	provider := environment.Compose(environment.NewOpenMeteo(c.OpenMeteo), trends, events)
	if c.EnvironmentCacheMins <= 0 {
		return provider, nil
	}
	return environment.NewCached(provider, time.Duration(c.EnvironmentCacheMins)*time.Minute)
}

func newCatalogIndex(ctx context.Context, c config.Config, embedder embedding.Embedder) catalog.Index {
	if len(c.ElasticConf.Addresses) > 0 {
		client, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: c.ElasticConf.Addresses,
			Username:  c.ElasticConf.Username,
			Password:  c.ElasticConf.Password,
		})
		if err == nil {
			logx.Infow("elasticsearch client initialized", logx.Field("addresses", c.ElasticConf.Addresses))
			return catalog.NewElasticIndex(client, c.ElasticConf, embedder)
		}
		logx.Errorw("init elasticsearch client failed, using catalog file", logx.Field("err", err))
	}

	docs, err := productindex.LoadFile(c.CatalogFile)
	if err != nil {
		logx.Errorw("load catalog file failed", logx.Field("file", c.CatalogFile), logx.Field("err", err))
	}
	idx, err := catalog.NewMemoryIndex(ctx, docs, embedder)
	if err != nil {
		logx.Errorw("embed catalog failed, using lexical search", logx.Field("err", err))
		idx, _ = catalog.NewMemoryIndex(ctx, docs, nil)
	}
	logx.Infow("in-memory catalog loaded", logx.Field("products", idx.Len()))
	return idx
}

func newChatModel(ctx context.Context, c config.ModelConf) model.ToolCallingChatModel {
	if c.Model == "" || c.APIKey == "" {
		return nil
	}
	cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: c.BaseUrl,
		APIKey:  c.APIKey,
		Model:   c.Model,
	})
	if err != nil {
		logx.Errorw("init ark chat model failed", logx.Field("err", err))
		return nil
	}
	logx.Infow("ark chat model initialized", logx.Field("model", c.Model))
	return cm
}

func newEmbedder(ctx context.Context, c config.ModelConf) embedding.Embedder {
	if c.Model == "" || c.APIKey == "" {
		logx.Infow("embedding client disabled, missing model or api key")
		return nil
	}
	emb, err := embeddingark.NewEmbedder(ctx, &embeddingark.EmbeddingConfig{
		BaseURL: c.BaseUrl,
		APIKey:  c.APIKey,
		Model:   c.Model,
	})
	if err != nil {
		logx.Errorw("init embedding model failed", logx.Field("err", err))
		return nil
	}
	logx.Infow("embedding model initialized", logx.Field("model", c.Model))
	return emb
}

func asynqAddr(c config.Config) string {
	if addr := strings.TrimSpace(c.AsynqConf.Addr); addr != "" {
		return addr
	}
	return c.RedisConf.Host
}

func millis(v int64) time.Duration {
	return time.Duration(v) * time.Millisecond
}
