package global

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/viper"
	"github.com/yschughes/llmsvc/internal/llm"
)

type NatsConfig struct {
	Host     string `json:"host"     validate:"required" mapstructure:"host"`
	Port     int    `json:"port"     validate:"required" mapstructure:"port"`
	Username string `json:"username"                     mapstructure:"username"`
	Password string `json:"password"                     mapstructure:"password"`
}

func (c *NatsConfig) URL() string {
	return fmt.Sprintf("nats://%s:%d", c.Host, c.Port)
}

func (c *NatsConfig) Connect() (*nats.Conn, error) {
	opts := []nats.Option{}
	if c.Username != "" {
		opts = append(opts, nats.UserInfo(c.Username, c.Password))
	}
	return nats.Connect(c.URL(), opts...)
}

func (c *NatsConfig) Validate() error {
	return Validator().Struct(c)
}

// LLMConfig selects the generation provider and its construction parameters.
type LLMConfig struct {
	Provider      string         `json:"provider"       validate:"required" mapstructure:"provider"`
	Model         string         `json:"model"          validate:"required" mapstructure:"model"`
	APIKey        string         `json:"api_key"                            mapstructure:"api_key"`
	BaseURL       string         `json:"base_url"                           mapstructure:"base_url"`
	Timeout       time.Duration  `json:"timeout"                            mapstructure:"timeout"`
	MaxRetries    int            `json:"max_retries"    validate:"gte=0"    mapstructure:"max_retries"`
	DefaultKwargs map[string]any `json:"default_kwargs"                     mapstructure:"default_kwargs"`
}

func (c *LLMConfig) Validate() error {
	return Validator().Struct(c)
}

// ServiceConfig converts to the provider-independent construction config.
func (c *LLMConfig) ServiceConfig() llm.ServiceConfig {
	return llm.ServiceConfig{
		APIKey:        c.APIKey,
		BaseURL:       c.BaseURL,
		Timeout:       c.Timeout,
		MaxRetries:    c.MaxRetries,
		DefaultKwargs: llm.ModelKwargs(c.DefaultKwargs),
	}
}

type WorkerConfig struct {
	Timeout         time.Duration `json:"timeout"                                    mapstructure:"timeout"`
	HealthCheckHost string        `json:"health_check_host"                          mapstructure:"health_check_host"`
	HealthCheckPort int           `json:"health_check_port" validate:"gte=0,lte=65535" mapstructure:"health_check_port"`
}

func (c *WorkerConfig) Validate() error {
	return Validator().Struct(c)
}

type OtelConfig struct {
	ServiceName       string `json:"service_name"       mapstructure:"service_name"`
	CollectorEndpoint string `json:"collector_endpoint" mapstructure:"collector_endpoint"`
	Insecure          bool   `json:"insecure"           mapstructure:"insecure"`
}

func LoadNatsConfig() *NatsConfig {
	c := &NatsConfig{}
	if err := viper.UnmarshalKey("nats", c); err != nil {
		Logger.Error().Err(err).Msg("Failed to unmarshal NATS configuration")
	}
	return c
}

func LoadLLMConfig() *LLMConfig {
	c := &LLMConfig{}
	if err := viper.UnmarshalKey("llm", c); err != nil {
		Logger.Error().Err(err).Msg("Failed to unmarshal LLM configuration")
	}
	return c
}

func LoadWorkerConfig() *WorkerConfig {
	c := &WorkerConfig{
		Timeout:         30 * time.Second,
		HealthCheckPort: 8080,
	}
	if err := viper.UnmarshalKey("worker", c); err != nil {
		Logger.Error().Err(err).Msg("Failed to unmarshal worker configuration")
	}
	return c
}

func LoadOtelConfig() *OtelConfig {
	c := &OtelConfig{}
	if err := viper.UnmarshalKey("otel", c); err != nil {
		Logger.Error().Err(err).Msg("Failed to unmarshal OTel configuration")
	}
	return c
}
