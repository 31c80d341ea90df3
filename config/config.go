package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// LoadConfig reads a yaml config file from the working directory. Secrets may
// be left out of the file and provided via OPENAI_API_KEY / SERPER_API_KEY.
func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigName(filename)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	config := GetDefaultConfig()
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read the file %w", err)
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error reading the config file %w", err)
	}
	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if key := os.Getenv("SERPER_API_KEY"); key != "" {
		cfg.Serp.APIKey = key
	}
}

func GetDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:       ":8080",
			RequestsPerMin: 10,
			RequestTimeout: 5 * time.Minute,
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o",
		},
		Serp: SerpConfig{
			BaseURL:  "https://google.serper.dev",
			CacheTTL: 6 * time.Hour,
		},
		Redis: RedisConfig{
			Host: "localhost:6379",
		},
		Mongo: MongoConfig{
			URI:         "mongodb://localhost:27017",
			DBName:      "proaicontent",
			ArticleColl: "articles",
		},
		Postgres: PostgresConfig{
			Host:   "localhost",
			Port:   5432,
			User:   "admin",
			DBName: "proaicontent",
		},
		Pipeline: PipelineConfig{
			MaxAttempts:       3,
			TolerancePct:      0.15,
			DegradeWidenPct:   0.30,
			MinWordCount:      100,
			MaxWordCount:      20000,
			MaxCompetitorURLs: 5,
			FetchTimeout:      10 * time.Second,
			FetchDelay:        500 * time.Millisecond,
			CreditsPerWord:    1,
		},
	}
}
