package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable of the server. Values come from environment
// variables or an optional .env file; defaults below make a credential-less
// local run possible (provider calls will fail with a clear error until the
// relevant API key is set).
type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`

	// RepositoryBackend selects the persistence engine: "sqlite" or "redis".
	RepositoryBackend string `mapstructure:"REPOSITORY_BACKEND"`
	RedisAddr         string `mapstructure:"REDIS_ADDR"`

	OpenAIAPIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `mapstructure:"OPENAI_BASE_URL"`
	AnthropicAPIKey  string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL string `mapstructure:"ANTHROPIC_BASE_URL"`
	GoogleAPIKey     string `mapstructure:"GOOGLE_API_KEY"`
	GoogleBaseURL    string `mapstructure:"GOOGLE_BASE_URL"`

	// FreeModels is a comma-separated list of model identifiers usable
	// without a caller identity. Everything else is premium.
	FreeModels          string `mapstructure:"FREE_MODELS"`
	DefaultFreeModel    string `mapstructure:"DEFAULT_FREE_MODEL"`
	DefaultPremiumModel string `mapstructure:"DEFAULT_PREMIUM_MODEL"`

	// PersistOnDisconnect controls whether the assistant message is still
	// persisted when the client drops the connection mid-stream.
	PersistOnDisconnect bool `mapstructure:"PERSIST_ON_DISCONNECT"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/nusachat.db")
	viper.SetDefault("REPOSITORY_BACKEND", "sqlite")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("ANTHROPIC_BASE_URL", "")
	viper.SetDefault("GOOGLE_BASE_URL", "")
	viper.SetDefault("FREE_MODELS", "gpt-3.5-turbo")
	viper.SetDefault("DEFAULT_FREE_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("DEFAULT_PREMIUM_MODEL", "gpt-4o")
	viper.SetDefault("PERSIST_ON_DISCONNECT", true)
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FreeModelList splits the FREE_MODELS csv, dropping empty entries.
func (c *Config) FreeModelList() []string {
	var out []string
	for _, m := range strings.Split(c.FreeModels, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}
