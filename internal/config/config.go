package config

import (
	"errors"
	"fmt"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Review   ReviewConfig   `mapstructure:"review"`
	Outputs  OutputsConfig  `mapstructure:"outputs"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port" validate:"min=1,max=65535"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver          string            `mapstructure:"driver" validate:"oneof=mysql sqlite"`
	Path            string            `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Host            string            `mapstructure:"host" validate:"required_if=Driver mysql"`
	Port            int               `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Database        string            `mapstructure:"database" validate:"required_if=Driver mysql"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds" validate:"min=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"loglevel"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type ReviewConfig struct {
	MaxRetryAttempts uint `mapstructure:"max_retry_attempts" validate:"min=1"`
}

type OutputsConfig struct {
	ReportDirectory string `mapstructure:"report_directory"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/cardsrs")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "cardsrs.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "cardsrs")
	v.SetDefault("database.username", "cardsrs")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("review.max_retry_attempts", 3)
	v.SetDefault("outputs.report_directory", "reports")

	envBindings := map[string]string{
		"database.driver":   "CARDSRS_DATABASE_DRIVER",
		"database.path":     "CARDSRS_DATABASE_PATH",
		"database.password": "CARDSRS_DB_PASSWORD",
		"log.level":         "CARDSRS_LOG_LEVEL",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s environment variable: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return nil, fmt.Errorf("validator.Struct() > %w", err)
		}
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
