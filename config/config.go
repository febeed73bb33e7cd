// Package config loads the service configuration with viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Printer PrinterConfig `mapstructure:"printer"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents the job server configuration
type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxJobSize     int           `mapstructure:"max_job_size"`
	MaxImagePixels int           `mapstructure:"max_image_pixels"`
}

// PrinterConfig selects the output device
type PrinterConfig struct {
	Kind      string        `mapstructure:"kind"`
	VendorID  uint16        `mapstructure:"vendor_id"`
	ProductID uint16        `mapstructure:"product_id"`
	Serial    string        `mapstructure:"serial"`
	Address   string        `mapstructure:"address"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Printer kinds
const (
	PrinterUSB = "usb"
	PrinterTCP = "tcp"
)

// Load reads configuration from file (optional), ESCPOS_* environment
// variables and defaults. An empty path searches ./escpos.yaml and
// /etc/escpos/escpos.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("escpos")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/escpos")
	}

	v.SetEnvPrefix("ESCPOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// the original bridge was configured with a bare SERVER_ADDRESS
	if err := v.BindEnv("server.address", "ESCPOS_SERVER_ADDRESS", "SERVER_ADDRESS"); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", "localhost:9100")
	v.SetDefault("server.idle_timeout", "5m")
	v.SetDefault("server.max_job_size", 8<<20)
	v.SetDefault("server.max_image_pixels", 4096*4096)

	v.SetDefault("printer.kind", PrinterUSB)
	v.SetDefault("printer.vendor_id", 0)
	v.SetDefault("printer.product_id", 0)
	v.SetDefault("printer.serial", "")
	v.SetDefault("printer.address", "")
	v.SetDefault("printer.timeout", "10s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if cfg.Server.MaxJobSize <= 0 {
		return fmt.Errorf("server.max_job_size must be positive")
	}
	if cfg.Server.MaxImagePixels <= 0 {
		return fmt.Errorf("server.max_image_pixels must be positive")
	}

	switch cfg.Printer.Kind {
	case PrinterUSB:
	case PrinterTCP:
		if cfg.Printer.Address == "" {
			return fmt.Errorf("printer.address is required for tcp printers")
		}
	default:
		return fmt.Errorf("printer.kind must be one of: %v", []string{PrinterUSB, PrinterTCP})
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if cfg.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}
