package config

import "time"

type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Serp     SerpConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	HTTPAddr       string
	RequestsPerMin int
	RequestTimeout time.Duration
}

type LLMConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

type SerpConfig struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
}

type RedisConfig struct {
	Host     string
	User     string
	Password string
	DB       int
	SSL      bool
}

type MongoConfig struct {
	URI         string
	DBName      string
	ArticleColl string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSL      bool
}

type PipelineConfig struct {
	MaxAttempts       int
	TolerancePct      float64
	DegradeWidenPct   float64
	MinWordCount      int
	MaxWordCount      int
	MaxCompetitorURLs int
	FetchTimeout      time.Duration
	FetchDelay        time.Duration
	CreditsPerWord    float64
}
