package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	FHIR   FHIRConfig   `mapstructure:"fhir"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Limits LimitsConfig `mapstructure:"limits"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port" validate:"required,min=1,max=65535"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds" validate:"min=0"`
}

// FHIRConfig names the remote resource server and the failure thresholds
// guarding calls to it.
type FHIRConfig struct {
	BaseURL        string `mapstructure:"baseUrl" validate:"required,url"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds" validate:"min=0"`
	BreakerMax     int    `mapstructure:"breakerMaxFailures" validate:"min=0"`
	BreakerResetS  int    `mapstructure:"breakerResetSeconds" validate:"min=0"`
}

// AuthConfig selects how the client authenticates against the resource
// server. Mode "none" sends no credential, "static" sends a fixed bearer
// token, "oauth" runs the client-credentials flow.
type AuthConfig struct {
	Mode         string `mapstructure:"mode" validate:"oneof=none static oauth"`
	Token        string `mapstructure:"token"`
	TokenURL     string `mapstructure:"tokenUrl" validate:"required_if=Mode oauth"`
	ClientID     string `mapstructure:"clientId" validate:"required_if=Mode oauth"`
	ClientSecret string `mapstructure:"clientSecret" validate:"required_if=Mode oauth"`
}

// CacheConfig selects the attachment cache backend. An empty redis
// address keeps the in-process store.
type CacheConfig struct {
	RedisAddr     string `mapstructure:"redisAddr"`
	RedisPassword string `mapstructure:"redisPassword"`
	RedisDB       int    `mapstructure:"redisDb"`
	TTLMinutes    int    `mapstructure:"ttlMinutes" validate:"min=0"`
}

type LimitsConfig struct {
	RateLimit float64 `mapstructure:"rateLimit" validate:"min=0"`
	RateBurst int     `mapstructure:"rateBurst" validate:"min=0"`
}

func (c *ServerConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *FHIRConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *CacheConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("FHIR_CONSOLE")
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("auth.mode", "none")
	viper.SetDefault("limits.rateLimit", 50)
	viper.SetDefault("limits.rateBurst", 100)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}
