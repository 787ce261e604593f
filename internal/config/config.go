package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort           = 2333
	defaultEnv            = "development"
	defaultMongoURI       = "mongodb://localhost:27017"
	defaultMongoName      = "tikblok"
	defaultRedisURL       = "redis://localhost:6379/0"
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultEmbeddingDims  = 1536
	defaultChatModel      = "gpt-4o-mini"
	defaultVectorNS       = "videos"
)

// Load reads the YAML config file, applies environment overrides for secrets
// and fills defaults. The returned struct is constructed once at startup and
// injected into every component; nothing reads config lazily after this.
func Load(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := &AppConfig{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Environment-only configuration is fine for container deploys.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *AppConfig) {
	setIfEnv := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setIfEnv(&cfg.Mongo.URI, "MONGO_URI")
	setIfEnv(&cfg.RedisURL, "REDIS_URL")
	setIfEnv(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setIfEnv(&cfg.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setIfEnv(&cfg.Pinecone.APIKey, "PINECONE_API_KEY")
	setIfEnv(&cfg.Pinecone.Host, "PINECONE_HOST")
	setIfEnv(&cfg.ReindexKey, "REINDEX_API_KEY")
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = defaultMongoURI
	}
	if cfg.Mongo.Name == "" {
		cfg.Mongo.Name = defaultMongoName
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.OpenAI.EmbeddingModel == "" {
		cfg.OpenAI.EmbeddingModel = defaultEmbeddingModel
	}
	if cfg.OpenAI.EmbeddingDimensions == 0 {
		cfg.OpenAI.EmbeddingDimensions = defaultEmbeddingDims
	}
	if cfg.OpenAI.ChatModel == "" {
		cfg.OpenAI.ChatModel = defaultChatModel
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = ProviderOpenAI
	}
	if cfg.Pinecone.Namespace == "" {
		cfg.Pinecone.Namespace = defaultVectorNS
	}
}

func (c *AppConfig) validate() error {
	if c.Pinecone.Host == "" {
		return errors.New("pinecone host is required")
	}
	if c.Pinecone.APIKey == "" {
		return errors.New("pinecone api key is required")
	}
	if c.OpenAI.APIKey == "" {
		return errors.New("openai api key is required")
	}
	if c.AI.Provider == ProviderAnthropic && c.Anthropic.APIKey == "" {
		return errors.New("anthropic api key is required when ai.provider is anthropic")
	}
	if c.ReindexKey == "" {
		return errors.New("reindex key is required")
	}
	return nil
}

// IsDev reports whether the service runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }
