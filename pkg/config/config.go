package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string          `yaml:"environment" default:"development"`
	Server      ServerConfig    `yaml:"server"`
	Log         LogConfig       `yaml:"log"`
	Metrics     MetricsConfig   `yaml:"metrics"`
	Analytics   AnalyticsConfig `yaml:"analytics"`
	ClickHouse  ClickHouse      `yaml:"clickhouse"`
	Kafka       Kafka           `yaml:"kafka"`
	Redis       Redis           `yaml:"redis"`
	SQLite      SQLite          `yaml:"sqlite"`
	Scheduler   Scheduler       `yaml:"scheduler"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	SlowThreshold   time.Duration `yaml:"slow_threshold" default:"1s"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type LogConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json"`
	Output     string `yaml:"output" default:"stdout"`
	TimeFormat string `yaml:"time_format"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

type AnalyticsConfig struct {
	MaxSeriesLength int            `yaml:"max_series_length" default:"10000"`
	HistoryDays     int            `yaml:"history_days" default:"365"`
	Timeout         time.Duration  `yaml:"timeout" default:"10s"`
	CacheTTL        time.Duration  `yaml:"cache_ttl" default:"5m"`
	CacheMaxTTL     time.Duration  `yaml:"cache_max_ttl" default:"1h"`
	Anomaly         AnomalyConfig  `yaml:"anomaly"`
	Forecast        ForecastConfig `yaml:"forecast"`
}

// AnomalyConfig mirrors the detector thresholds. Zero values fall back to the engine defaults.
type AnomalyConfig struct {
	MinObservations int           `yaml:"min_observations"`
	BaselineWindow  int           `yaml:"baseline_window"`
	SpikeZ          float64       `yaml:"spike_z"`
	MediumZ         float64       `yaml:"medium_z"`
	HighZ           float64       `yaml:"high_z"`
	VolatilityCV    float64       `yaml:"volatility_cv"`
	DedupWindow     time.Duration `yaml:"dedup_window" default:"24h"`
}

type ForecastConfig struct {
	MinObservations  int     `yaml:"min_observations"`
	TrendWindow      int     `yaml:"trend_window"`
	SmoothingPeriod  int     `yaml:"smoothing_period"`
	BoundsMultiplier float64 `yaml:"bounds_multiplier"`
	MaxHorizonDays   int     `yaml:"max_horizon_days"`
}

type ClickHouse struct {
	Host             string        `yaml:"host" default:"localhost"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"agropulse"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	AsyncInsert      bool          `yaml:"async_insert"`
	WaitForAsync     bool          `yaml:"wait_for_async_insert" default:"true"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
	WriteTimeout     time.Duration `yaml:"write_timeout" default:"30s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	InitSchema       bool          `yaml:"init_schema" default:"true"`
}

type Kafka struct {
	Enabled      bool     `yaml:"enabled" default:"true"`
	Brokers      []string `yaml:"brokers"`
	QuotesTopic  string   `yaml:"quotes_topic" default:"commodity.quotes"`
	AlertsTopic  string   `yaml:"alerts_topic" default:"commodity.anomalies"`
	RequiredAcks int      `yaml:"required_acks" default:"-1"`
	Compression  string   `yaml:"compression" default:"snappy"`
	Producer     struct {
		MaxAttempts  int           `yaml:"max_attempts" default:"5"`
		Linger       time.Duration `yaml:"linger" default:"50ms"`
		BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"producer"`
	Consumer struct {
		GroupID    string        `yaml:"group_id" default:"agropulse-ingest"`
		Workers    int           `yaml:"workers" default:"4"`
		BufferSize int           `yaml:"buffer_size" default:"256"`
		RetryMax   int           `yaml:"retry_max" default:"3"`
		BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
		BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
		DLQTopic   string        `yaml:"dlq_topic" default:"commodity.quotes.dlq"`
		MinBytes   int           `yaml:"min_bytes" default:"1"`
		MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
	} `yaml:"consumer"`
}

type Redis struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" default:"localhost:6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SQLite struct {
	Path string `yaml:"path" default:"data/anomalies.db"`
}

type Scheduler struct {
	Enabled         bool     `yaml:"enabled" default:"true"`
	AnomalyScanCron string   `yaml:"anomaly_scan_cron" default:"0 15 6 * * *"`
	Commodities     []string `yaml:"commodities"`
}

// Default returns a configuration with every default tag applied.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("APP_ENV"); ok && v != "" {
		c.Environment = v
	}
	if v, ok := lookup("HTTP_PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HTTP_PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("CLICKHOUSE_HOST"); ok && v != "" {
		c.ClickHouse.Host = v
	}
	if v, ok := lookup("CLICKHOUSE_PASSWORD"); ok {
		c.ClickHouse.Password = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v, ok := lookup("SQLITE_PATH"); ok && v != "" {
		c.SQLite.Path = v
	}
	if v, ok := lookup("SCAN_COMMODITIES"); ok && v != "" {
		c.Scheduler.Commodities = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within 1..65535, got %d", c.Server.Port)
	}
	if c.Analytics.MaxSeriesLength <= 0 {
		return fmt.Errorf("analytics.max_series_length must be positive")
	}
	if c.Analytics.HistoryDays <= 0 {
		return fmt.Errorf("analytics.history_days must be positive")
	}
	if c.Analytics.CacheTTL < 0 || c.Analytics.CacheMaxTTL < c.Analytics.CacheTTL {
		return fmt.Errorf("analytics.cache_ttl must be within 0..cache_max_ttl")
	}
	if c.Analytics.Anomaly.DedupWindow < 0 {
		return fmt.Errorf("analytics.anomaly.dedup_window cannot be negative")
	}
	if c.ClickHouse.Host == "" || c.ClickHouse.Database == "" {
		return fmt.Errorf("clickhouse.host and clickhouse.database are required")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
		}
		if c.Kafka.QuotesTopic == "" || c.Kafka.AlertsTopic == "" {
			return fmt.Errorf("kafka.quotes_topic and kafka.alerts_topic are required")
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}
	if c.SQLite.Path == "" {
		return fmt.Errorf("sqlite.path is required")
	}
	if c.Scheduler.Enabled && c.Scheduler.AnomalyScanCron == "" {
		return fmt.Errorf("scheduler.anomaly_scan_cron is required when the scheduler is enabled")
	}
	return nil
}
