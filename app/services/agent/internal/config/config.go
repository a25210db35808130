package config

import (
	"TripShopper/app/services/agent/internal/provider/catalog"
	"TripShopper/app/services/agent/internal/provider/environment"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"github.com/zeromicro/go-zero/rest"
	"github.com/zeromicro/zero-contrib/zrpc/registry/consul"
)

type Config struct {
	rest.RestConf

	Consul consul.Conf `json:",optional"`

	MysqlConf sqlx.SqlConf    `json:",optional"`
	RedisConf redis.RedisConf `json:",optional"`
	CacheConf cache.CacheConf `json:",optional"`

	ChatModel ModelConf
	Embedding ModelConf `json:",optional"`

	ElasticConf catalog.ElasticConf `json:",optional"`
	CatalogFile string              `json:",optional"`

	OpenMeteo    environment.OpenMeteoConf    `json:",optional"`
	Ticketmaster environment.TicketmasterConf `json:",optional"`
	Trends       map[string][]string          `json:",optional"`

	KafkaConf       KafkaConf       `json:",optional"`
	AsynqConf       AsynqRedisConf  `json:",optional"`
	AsynqServerConf AsynqServerConf `json:",optional"`

	Timeouts TimeoutConf `json:",optional"`

	LogConf logx.LogConf

	SessionTTLHours      int   `json:",default=168"`
	EnvironmentCacheMins int   `json:",default=30"`
	MaxRecommendations   int   `json:",default=6"`
	SnowflakeNode        int64 `json:",optional"`
}

type ModelConf struct {
	BaseUrl string `json:",optional"`
	APIKey  string `json:",optional"`
	Model   string `json:",optional"`
}

type KafkaConf struct {
	Brokers    []string `json:",optional"`
	TraceTopic string   `json:",default=assistant-thinking"`
}

type AsynqRedisConf struct {
	Addr string `json:",optional"`
}

type AsynqServerConf struct {
	Concurrency int            `json:",default=4"`
	Queues      map[string]int `json:",optional"`
}

// TimeoutConf bounds every external call, in milliseconds.
type TimeoutConf struct {
	LLM         int64 `json:",default=20000"`
	Profile     int64 `json:",default=3000"`
	Environment int64 `json:",default=5000"`
	Index       int64 `json:",default=5000"`
	Store       int64 `json:",default=3000"`
}
