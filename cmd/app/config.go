package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"verm_airdrop/internal/ratelimit"
	"verm_airdrop/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"

	envProduction = "production"
)

type Config struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"logLevel"`
	PingMessage string `mapstructure:"pingMessage"`

	Server    ServerConfig      `mapstructure:"server"`
	CORS      CORSConfig        `mapstructure:"cors"`
	Database  repository.Config `mapstructure:"database"`
	Redis     RedisConfig       `mapstructure:"redis"`
	RateLimit RateLimitConfig   `mapstructure:"rateLimit"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type RateLimitConfig struct {
	// Store is "memory" or "redis".
	Store         string         `mapstructure:"store"`
	PurgeInterval time.Duration  `mapstructure:"purgeInterval"`
	Registration  ratelimit.Rule `mapstructure:"registration"`
	Verification  ratelimit.Rule `mapstructure:"verification"`
	General       ratelimit.Rule `mapstructure:"general"`
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, envProduction)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("logLevel", "info")
	v.SetDefault("pingMessage", "pong")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)

	v.SetDefault("cors.allowOrigins", []string{"*"})

	v.SetDefault("database.driver", repository.DriverPgx)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "vermairdrop")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	rules := ratelimit.DefaultRules()
	v.SetDefault("rateLimit.store", "memory")
	v.SetDefault("rateLimit.purgeInterval", time.Minute)
	for _, name := range []string{ratelimit.Registration, ratelimit.Verification, ratelimit.General} {
		v.SetDefault("rateLimit."+name+".window", rules[name].Window)
		v.SetDefault("rateLimit."+name+".max", rules[name].Max)
	}
}

// LoadConfig reads config.yaml from path when present. Every key can be overridden
// with an APP_ variable, e.g. APP_DATABASE_HOST. A .env file is loaded first if it exists.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.AddConfigPath(path)
	v.SetConfigType(configFormat)

	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
