package config

// Provider names accepted by AIRuntimeConfig.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// AppConfig holds runtime startup configuration loaded from YAML, with
// environment variables overriding secrets.
type AppConfig struct {
	Port           int                 `yaml:"port"`
	Env            string              `yaml:"env"` // "development" | "production"
	Mongo          MongoRuntimeConfig  `yaml:"mongo"`
	RedisURL       string              `yaml:"redis_url"`
	AllowedOrigins []string            `yaml:"allowed_origins"`
	WebURL         string              `yaml:"web_url"` // public SPA origin, used by link previews
	ReindexKey     string              `yaml:"reindex_key"`
	OpenAI         OpenAIRuntimeConfig `yaml:"openai"`
	Anthropic      AnthropicConfig     `yaml:"anthropic"`
	AI             AIRuntimeConfig     `yaml:"ai"`
	Pinecone       PineconeConfig      `yaml:"pinecone"`
}

type MongoRuntimeConfig struct {
	URI  string `yaml:"uri"`
	Name string `yaml:"name"`
}

type OpenAIRuntimeConfig struct {
	APIKey              string `yaml:"api_key"`
	EmbeddingModel      string `yaml:"embedding_model"`
	EmbeddingDimensions int    `yaml:"embedding_dimensions"`
	ChatModel           string `yaml:"chat_model"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// AIRuntimeConfig selects which chat-completion provider generates comment
// summaries. Embeddings always go through OpenAI.
type AIRuntimeConfig struct {
	Provider string `yaml:"provider"` // "openai" | "anthropic"
}

type PineconeConfig struct {
	Host      string `yaml:"host"` // index data-plane host, e.g. https://tikblok-xxxx.svc.pinecone.io
	APIKey    string `yaml:"api_key"`
	Namespace string `yaml:"namespace"`
}
