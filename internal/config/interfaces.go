package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
}

type ERP interface {
	BaseURL() string
	User() string
	Password() string
	Timeout() time.Duration
	DetailBatchSize() int
}

type Catalog interface {
	TTL() time.Duration
	RefreshGrace() time.Duration
	SyncInterval() time.Duration
}

type Kafka interface {
	Brokers() []string
	OrderPricedTopic() string
	OrderPricedProducerConfig() *sarama.Config
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Database interface {
	MigrationDirectory() string
	DSN() string
}
