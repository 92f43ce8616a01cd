package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// APIKey is the You.com credential. Empty is allowed at startup; each
	// invocation without a credential fails on its own.
	APIKey   string         `mapstructure:"api_key"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Journal  JournalConfig  `mapstructure:"journal"`
	Support  SupportConfig  `mapstructure:"support"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// UpstreamConfig is the capability-indexed endpoint table.
type UpstreamConfig struct {
	Timeout  int            `mapstructure:"timeout"` // seconds, 0 = transport default
	Search   EndpointConfig `mapstructure:"search"`
	Contents EndpointConfig `mapstructure:"contents"`
	Express  EndpointConfig `mapstructure:"express"`
}

// EndpointConfig describes where a capability lives and how it authenticates.
type EndpointConfig struct {
	URL        string `mapstructure:"url"`
	AuthHeader string `mapstructure:"auth_header"`
	AuthScheme string `mapstructure:"auth_scheme"` // e.g. "Bearer"; empty sends the raw key
}

// JournalConfig controls the optional invocation journal.
type JournalConfig struct {
	Path          string `mapstructure:"path"`           // empty disables the journal
	MaxAge        int    `mapstructure:"max_age"`        // seconds a record is kept, 0 keeps forever
	PruneInterval int    `mapstructure:"prune_interval"` // seconds between retention sweeps
}

type SupportConfig struct {
	Email string `mapstructure:"email"`
}

func Load(cfgFile string) (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()
	setDefaults(v)

	// YDC_API_KEY, YDC_SERVER_PORT, YDC_UPSTREAM_SEARCH_URL, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("YDC")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is ok, use defaults and env
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 300)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Upstream defaults. Search and Contents take the key in X-API-Key,
	// the agent API wants a Bearer token.
	v.SetDefault("upstream.timeout", 0)
	v.SetDefault("upstream.search.url", "https://api.ydc-index.io/v1/search")
	v.SetDefault("upstream.search.auth_header", "X-API-Key")
	v.SetDefault("upstream.search.auth_scheme", "")
	v.SetDefault("upstream.contents.url", "https://ydc-index.io/v1/contents")
	v.SetDefault("upstream.contents.auth_header", "X-API-Key")
	v.SetDefault("upstream.contents.auth_scheme", "")
	v.SetDefault("upstream.express.url", "https://api.you.com/v1/agents/runs")
	v.SetDefault("upstream.express.auth_header", "Authorization")
	v.SetDefault("upstream.express.auth_scheme", "Bearer")

	v.SetDefault("journal.path", "")
	v.SetDefault("journal.max_age", 7*24*3600)
	v.SetDefault("journal.prune_interval", 3600)
	v.SetDefault("support.email", "support@you.com")
}
