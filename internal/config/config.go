package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	GRPC      GRPCConfig      `mapstructure:"grpc"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Checkout  CheckoutConfig  `mapstructure:"checkout"`
	Orders    OrdersConfig    `mapstructure:"orders"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"` // development, production
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
}

type GRPCConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// StorageConfig selects the snapshot backend: memory, redis, mongo or sqlite.
type StorageConfig struct {
	Backend string        `mapstructure:"backend"`
	Prefix  string        `mapstructure:"prefix"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// PaymentConfig selects the payment collaborators. In simulated mode the
// order and verify backends run in process and the widget answers with
// Decision (success, dismiss or random).
type PaymentConfig struct {
	Mode      string        `mapstructure:"mode"` // simulated, http
	BaseURL   string        `mapstructure:"base_url"`
	ScriptURL string        `mapstructure:"script_url"`
	Secret    string        `mapstructure:"secret"`
	PublicKey string        `mapstructure:"public_key"`
	Currency  string        `mapstructure:"currency"`
	Decision  string        `mapstructure:"decision"`
	Timeout   time.Duration `mapstructure:"timeout"`
	// WidgetDelay is how long the simulated shopper takes to answer.
	WidgetDelay time.Duration `mapstructure:"widget_delay"`
}

type CheckoutConfig struct {
	WidgetTimeout time.Duration `mapstructure:"widget_timeout"`
}

// OrdersConfig configures the optional receipt history sinks. Empty values
// disable the corresponding sink.
type OrdersConfig struct {
	PostgresDSN  string   `mapstructure:"postgres_dsn"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
	// ConsumeEvents feeds the history from the receipt topic instead of
	// recording directly. Needs kafka_brokers.
	ConsumeEvents bool   `mapstructure:"consume_events"`
	ConsumerGroup string `mapstructure:"consumer_group"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Rate    float64 `mapstructure:"rate"` // login attempts per second
	Burst   int     `mapstructure:"burst"`
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "memory", "redis", "mongo", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Payment.Mode {
	case "simulated":
	case "http":
		if c.Payment.BaseURL == "" {
			return fmt.Errorf("payment.base_url is required in http mode")
		}
	default:
		return fmt.Errorf("unknown payment mode %q", c.Payment.Mode)
	}
	if c.Orders.ConsumeEvents && len(c.Orders.KafkaBrokers) == 0 {
		return fmt.Errorf("orders.consume_events requires orders.kafka_brokers")
	}
	if c.Checkout.WidgetTimeout <= 0 {
		return fmt.Errorf("checkout.widget_timeout must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s") // SSE streams stay open
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.request_timeout", "30s")

	v.SetDefault("grpc.port", "9090")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/storefront.log")

	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.prefix", "")
	v.SetDefault("storage.timeout", "3s")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.ttl", "0s")
	v.SetDefault("storage.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("storage.mongo.database", "storefront")
	v.SetDefault("storage.sqlite.path", "data/storefront.db")

	v.SetDefault("payment.mode", "simulated")
	v.SetDefault("payment.base_url", "")
	v.SetDefault("payment.script_url", "https://checkout.razorpay.com/v1/checkout.js")
	v.SetDefault("payment.secret", "storefront-simulated-secret")
	v.SetDefault("payment.public_key", "rzp_test_storefront")
	v.SetDefault("payment.currency", "INR")
	v.SetDefault("payment.decision", "success")
	v.SetDefault("payment.timeout", "10s")
	v.SetDefault("payment.widget_delay", "500ms")

	v.SetDefault("checkout.widget_timeout", "15m")

	v.SetDefault("orders.postgres_dsn", "")
	v.SetDefault("orders.kafka_brokers", []string{})
	v.SetDefault("orders.kafka_topic", "storefront.receipts")
	v.SetDefault("orders.consume_events", false)
	v.SetDefault("orders.consumer_group", "storefront-orders")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.rate", 1)
	v.SetDefault("ratelimit.burst", 5)
}
