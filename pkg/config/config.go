package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MarketBrief/pkg/util"
)

const (
	SinkSupabase = "supabase"
	SinkPostgres = "postgres"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lt=65536"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"180s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"90s"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error fatal panic"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout" validate:"required"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Report struct {
		Publish          bool          `yaml:"publish" default:"true"`
		QuoteBatchSize   int           `yaml:"quote_batch_size" default:"5" validate:"gt=0"`
		QuoteCooldown    time.Duration `yaml:"quote_cooldown" default:"65s" validate:"gte=0"`
		NewsQueryDelay   time.Duration `yaml:"news_query_delay" default:"300ms" validate:"gte=0"`
		TranslationDelay time.Duration `yaml:"translation_delay" default:"400ms" validate:"gte=0"`
	} `yaml:"report"`
	Banxico struct {
		BaseURL string        `yaml:"base_url" default:"https://www.banxico.org.mx/SieAPIRest/service/v1" validate:"url"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"banxico"`
	AlphaVantage struct {
		BaseURL           string        `yaml:"base_url" default:"https://www.alphavantage.co/query" validate:"url"`
		Timeout           time.Duration `yaml:"timeout" default:"15s"`
		RequestsPerMinute int           `yaml:"requests_per_minute" default:"0" validate:"gte=0"`
	} `yaml:"alpha_vantage"`
	NewsAPI struct {
		BaseURL string        `yaml:"base_url" default:"https://newsapi.org/v2" validate:"url"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"newsapi"`
	GNews struct {
		BaseURL string        `yaml:"base_url" default:"https://gnews.io/api/v4" validate:"url"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"gnews"`
	Translation struct {
		LibreTranslateURL string        `yaml:"libretranslate_url" default:"https://libretranslate.com/translate" validate:"url"`
		LibreTimeout      time.Duration `yaml:"libretranslate_timeout" default:"6s"`
		MyMemoryURL       string        `yaml:"mymemory_url" default:"https://api.mymemory.translated.net/get" validate:"url"`
		MyMemoryTimeout   time.Duration `yaml:"mymemory_timeout" default:"5s"`
		UserAgent         string        `yaml:"user_agent" default:"SignumResearch/1.0"`
		CacheTTL          time.Duration `yaml:"cache_ttl" default:"168h"`
	} `yaml:"translation"`
	Sink struct {
		Type    string        `yaml:"type" default:"supabase" validate:"oneof=supabase postgres"`
		Table   string        `yaml:"table" default:"daily_reports" validate:"required"`
		Timeout time.Duration `yaml:"timeout" default:"15s"`
	} `yaml:"sink"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host" default:"localhost"`
		Port     int    `yaml:"port" default:"6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"marketbrief"`
	} `yaml:"redis"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"marketbrief"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table" default:"quote_snapshots"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"report.generated"`
		LogTopic     string        `yaml:"log_topic"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"kafka"`

	Secrets Secrets `yaml:"-" default:"-"`
}

// Secrets holds provider credentials. Every field is optional except the
// one required by the configured sink.
type Secrets struct {
	BanxicoToken           Secret `env:"BANXICO_TOKEN"`
	AlphaVantageKey        Secret `env:"ALPHA_VANTAGE_KEY"`
	NewsAPIKey             Secret `env:"NEWSAPI_KEY"`
	GNewsAPIKey            Secret `env:"GNEWS_API_KEY"`
	SupabaseURL            string `env:"SUPABASE_URL"`
	SupabaseServiceRoleKey Secret `env:"SUPABASE_SERVICE_ROLE_KEY"`
	DatabaseURL            Secret `env:"DATABASE_URL"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() *Config {
	var c Config
	// defaults.Set only fails on malformed tags.
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file on top of the defaults.
// A missing file is not an error: the service runs on defaults + environment.
func Load(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML, reads credentials from the environment
// (after preloading an optional .env file) and applies overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := env.Parse(&c.Secrets); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Override with environment variables
	c.Server.Port = util.ParseIntDefault(os.Getenv("PORT"), c.Server.Port)
	if v := os.Getenv("SINK_TYPE"); v != "" {
		c.Sink.Type = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	switch c.Sink.Type {
	case SinkSupabase:
		if c.Secrets.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required for sink %q", c.Sink.Type)
		}
		if !c.Secrets.SupabaseServiceRoleKey.IsSet() {
			return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required for sink %q", c.Sink.Type)
		}
	case SinkPostgres:
		if !c.Secrets.DatabaseURL.IsSet() {
			return fmt.Errorf("DATABASE_URL is required for sink %q", c.Sink.Type)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
