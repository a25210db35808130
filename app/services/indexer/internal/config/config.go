package config

import (
	"github.com/zeromicro/go-zero/core/logx"
)

type Config struct {
	LogConf     logx.LogConf
	KafkaConf   KafkaConf
	ElasticConf ElasticConf
	Embedding   EmbeddingConf `json:",optional"`
}

type KafkaConf struct {
	Brokers       []string `json:",optional"`
	Group         string   `json:",optional"`
	ProductsTopic string   `json:",optional"`
}

type ElasticConf struct {
	Addresses          []string `json:",optional"`
	Username           string   `json:",optional"`
	Password           string   `json:",optional"`
	IndexName          string   `json:",default=products"`
	EmbeddingDimension int      `json:",default=2048"`
	NumberOfShards     int      `json:",default=1"`
	NumberOfReplicas   int      `json:",optional"`
}

type EmbeddingConf struct {
	BaseURL string `json:",optional"`
	APIKey  string `json:",optional"`
	Model   string `json:",optional"`
}
