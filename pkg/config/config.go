package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"dev" validate:"required,oneof=dev staging prod"`
	Log         struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout" validate:"required"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8090" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	View struct {
		ListCapacity  int     `yaml:"list_capacity" default:"20" validate:"gte=1,lte=1000"`
		ChartCapacity int     `yaml:"chart_capacity" default:"20" validate:"gte=1,lte=1000"`
		Dedup         bool    `yaml:"dedup" default:"true"`
		RefreshRPS    float64 `yaml:"refresh_rps" default:"0.2" validate:"gt=0"`
		RefreshBurst  int     `yaml:"refresh_burst" default:"1" validate:"gte=1"`
	} `yaml:"view"`
	Pull struct {
		Variant  string        `yaml:"variant" default:"api" validate:"oneof=api legacy"`
		BaseURL  string        `yaml:"base_url" default:"http://localhost:5000" validate:"required,url"`
		Interval time.Duration `yaml:"interval" default:"60s"`
		Timeout  time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"pull"`
	Push struct {
		Transport string `yaml:"transport" default:"websocket" validate:"oneof=websocket kafka none"`
		WebSocket struct {
			URL            string        `yaml:"url" default:"ws://localhost:5000/ws"`
			ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"5s"`
			PingInterval   time.Duration `yaml:"ping_interval" default:"30s"`
		} `yaml:"websocket"`
		Kafka struct {
			Brokers []string `yaml:"brokers"`
			Topic   string   `yaml:"topic" default:"signal-events"`
			GroupID string   `yaml:"group_id" default:"signaldesk"`
		} `yaml:"kafka"`
	} `yaml:"push"`
	Render struct {
		Kafka struct {
			Enabled  bool     `yaml:"enabled"`
			Brokers  []string `yaml:"brokers"`
			Topic    string   `yaml:"topic" default:"signaldesk-view"`
			LogTopic string   `yaml:"log_topic" default:"signaldesk-logs"`
		} `yaml:"kafka"`
		Cache struct {
			RedisEnabled bool          `yaml:"redis_enabled"`
			Addr         string        `yaml:"addr" default:"localhost:6379"`
			Password     string        `yaml:"password"`
			DB           int           `yaml:"db"`
			TTL          time.Duration `yaml:"ttl" default:"5m"`
		} `yaml:"cache"`
		Journal struct {
			Enabled     bool          `yaml:"enabled"`
			Host        string        `yaml:"host" default:"localhost"`
			Port        int           `yaml:"port" default:"9000"`
			Database    string        `yaml:"database" default:"signaldesk"`
			User        string        `yaml:"user" default:"default"`
			Password    string        `yaml:"password"`
			DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		} `yaml:"journal"`
		Telegram struct {
			Enabled  bool   `yaml:"enabled"`
			BotToken string `yaml:"bot_token"`
			ChatID   int64  `yaml:"chat_id"`
		} `yaml:"telegram"`
	} `yaml:"render"`
}

var validate = validator.New()

// Load reads and parses a YAML configuration file. Missing keys take the
// values of their default tags.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML bytes, applies defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("SIGNALDESK_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("PULL_BASE_URL"); v != "" {
		c.Pull.BaseURL = v
	}
	if v := getenv("PULL_VARIANT"); v != "" {
		c.Pull.Variant = v
	}
	if v := getenv("PUSH_TRANSPORT"); v != "" {
		c.Push.Transport = v
	}
	if v := getenv("PUSH_WS_URL"); v != "" {
		c.Push.WebSocket.URL = v
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		brokers := strings.Split(v, ",")
		c.Push.Kafka.Brokers = brokers
		c.Render.Kafka.Brokers = brokers
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Render.Cache.Addr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		c.Render.Cache.Password = v
	}
	if v := getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.Render.Journal.Password = v
	}
	if v := getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Render.Telegram.BotToken = v
	}
	if v := getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.Render.Telegram.ChatID = id
	}
	return nil
}

// Validate checks tag constraints and the cross-field rules tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Pull.Interval <= 0 || c.Pull.Timeout <= 0 {
		return fmt.Errorf("pull.interval and pull.timeout must be positive")
	}
	switch c.Push.Transport {
	case "websocket":
		if c.Push.WebSocket.URL == "" {
			return fmt.Errorf("push.websocket.url is required for websocket transport")
		}
	case "kafka":
		if len(c.Push.Kafka.Brokers) == 0 || c.Push.Kafka.Topic == "" {
			return fmt.Errorf("push.kafka.brokers and push.kafka.topic are required for kafka transport")
		}
	}
	if c.Render.Kafka.Enabled && len(c.Render.Kafka.Brokers) == 0 {
		return fmt.Errorf("render.kafka.brokers is required when render.kafka is enabled")
	}
	if c.Render.Telegram.Enabled && (c.Render.Telegram.BotToken == "" || c.Render.Telegram.ChatID == 0) {
		return fmt.Errorf("render.telegram.bot_token and chat_id are required when telegram is enabled")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
